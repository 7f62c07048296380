package catalog

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/signalsfoundry/collision-sentinel/internal/logging"
	"github.com/signalsfoundry/collision-sentinel/model"
)

// Refresher re-fetches the configured element groups and swaps a new
// snapshot into the catalog. Analyses that resolved against the previous
// snapshot keep it until they finish.
type Refresher struct {
	catalog  *Catalog
	fetcher  *Fetcher
	groups   []string
	interval time.Duration
	log      logging.Logger
}

// NewRefresher builds a Refresher over the catalog. A non-positive interval
// disables the periodic loop; RefreshOnce still works.
func NewRefresher(catalog *Catalog, fetcher *Fetcher, groups []string, interval time.Duration, log logging.Logger) *Refresher {
	if log == nil {
		log = logging.Noop()
	}
	return &Refresher{
		catalog:  catalog,
		fetcher:  fetcher,
		groups:   groups,
		interval: interval,
		log:      log,
	}
}

// RefreshOnce fetches every configured group, parses the combined TLE data,
// and installs a new snapshot. Groups that fail to fetch are skipped with a
// warning; the refresh only fails when no group yields any object.
func (r *Refresher) RefreshOnce(ctx context.Context) (*Snapshot, error) {
	var all []model.OrbitalElements
	var lastErr error

	for _, group := range r.groups {
		data, err := r.fetcher.FetchGroup(ctx, group)
		if err != nil {
			r.log.Warn(ctx, "group fetch failed", logging.String("group", group), logging.Err(err))
			lastErr = err
			continue
		}
		els, err := ParseTLE(bytes.NewReader(data), r.log)
		if err != nil {
			r.log.Warn(ctx, "group parse failed", logging.String("group", group), logging.Err(err))
			lastErr = err
			continue
		}
		all = append(all, els...)
	}

	if len(all) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("refresh produced no objects: %w", lastErr)
		}
		return nil, fmt.Errorf("refresh produced no objects from %d groups", len(r.groups))
	}

	return r.catalog.Replace(time.Now().UTC(), all), nil
}

// Run refreshes on the configured interval until ctx is cancelled. Returns
// immediately when the interval is non-positive.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RefreshOnce(ctx); err != nil {
				r.log.Warn(ctx, "scheduled catalog refresh failed", logging.Err(err))
			}
		}
	}
}
