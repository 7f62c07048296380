// Package catalog resolves satellite names to orbital element sets.
//
// The catalog is the only resource shared between concurrent analyses.
// Entries live in immutable snapshots swapped atomically on refresh, so an
// in-flight analysis keeps reading the snapshot version it resolved
// against while a refresh installs a newer one.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/collision-sentinel/internal/logging"
	"github.com/signalsfoundry/collision-sentinel/model"
)

// ErrNotFound is returned when a name resolves to no catalog entry.
var ErrNotFound = errors.New("satellite not found in catalog")

// MetricsRecorder receives catalog gauge updates. A nil recorder disables
// reporting.
type MetricsRecorder interface {
	SetCatalogObjects(n int)
	IncCatalogRefresh()
}

// Snapshot is one immutable catalog version.
type Snapshot struct {
	Version   string
	FetchedAt time.Time

	objects map[string]model.OrbitalElements
	names   []string // sorted
}

// NewSnapshot builds a snapshot from a flat element list. Later duplicates
// of a name win, mirroring how sequential TLE files overwrite earlier
// entries for the same object.
func NewSnapshot(fetchedAt time.Time, objects []model.OrbitalElements) *Snapshot {
	byName := make(map[string]model.OrbitalElements, len(objects))
	for _, e := range objects {
		if e.Name == "" {
			continue
		}
		byName[e.Name] = e
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Snapshot{
		Version:   uuid.NewString(),
		FetchedAt: fetchedAt,
		objects:   byName,
		names:     names,
	}
}

// Lookup returns the element set for name.
func (s *Snapshot) Lookup(name string) (model.OrbitalElements, error) {
	if s == nil {
		return model.OrbitalElements{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	e, ok := s.objects[name]
	if !ok {
		return model.OrbitalElements{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return e, nil
}

// Names returns the sorted object names. The slice is shared and must not
// be mutated.
func (s *Snapshot) Names() []string {
	if s == nil {
		return nil
	}
	return s.names
}

// Len is the number of objects in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.objects)
}

// Catalog provides versioned, swap-on-refresh access to element sets.
type Catalog struct {
	snapshot atomic.Pointer[Snapshot]
	mu       sync.Mutex // serializes Replace calls

	log     logging.Logger
	metrics MetricsRecorder
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the catalog's logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Catalog) { c.log = log }
}

// WithMetricsRecorder wires catalog gauges.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(c *Catalog) { c.metrics = m }
}

// New constructs an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{log: logging.Noop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the live snapshot, or nil before the first Replace.
func (c *Catalog) Current() *Snapshot {
	return c.snapshot.Load()
}

// Replace installs a new snapshot built from objects and returns it.
// Readers holding the previous snapshot are unaffected.
func (c *Catalog) Replace(fetchedAt time.Time, objects []model.OrbitalElements) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := NewSnapshot(fetchedAt, objects)
	c.snapshot.Store(snap)

	if c.metrics != nil {
		c.metrics.SetCatalogObjects(snap.Len())
		c.metrics.IncCatalogRefresh()
	}
	c.log.Info(context.Background(), "catalog snapshot replaced",
		logging.String("version", snap.Version),
		logging.Int("objects", snap.Len()),
	)
	return snap
}

// Lookup resolves name against the current snapshot.
func (c *Catalog) Lookup(name string) (model.OrbitalElements, error) {
	return c.Current().Lookup(name)
}

// Names lists the current snapshot's object names.
func (c *Catalog) Names() []string {
	return c.Current().Names()
}

// Resolve implements the analyzer's CatalogLookup. When the name is unknown
// and the caller explicitly allows it, a clearly-tagged simulated element
// set is substituted instead of failing.
func (c *Catalog) Resolve(name string, allowSimulated bool) (model.OrbitalElements, error) {
	e, err := c.Lookup(name)
	if err == nil {
		return e, nil
	}
	if !allowSimulated || !errors.Is(err, ErrNotFound) {
		return model.OrbitalElements{}, err
	}

	c.log.Warn(context.Background(), "substituting simulated elements for unknown object",
		logging.String("name", name))
	return Simulated(name, time.Now().UTC()), nil
}
