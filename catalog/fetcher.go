package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultURLTemplate is CelesTrak's GP endpoint; %s receives the group name.
const defaultURLTemplate = "https://celestrak.org/NORAD/elements/gp.php?GROUP=%s&FORMAT=tle"

// Fetcher retrieves raw TLE data for named element groups from a remote
// source.
type Fetcher struct {
	urlTemplate string
	httpClient  *http.Client
}

// NewFetcher creates a Fetcher. urlTemplate must contain one %s verb for
// the group name; empty selects CelesTrak.
func NewFetcher(urlTemplate string) *Fetcher {
	if urlTemplate == "" {
		urlTemplate = defaultURLTemplate
	}
	return &Fetcher{
		urlTemplate: urlTemplate,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchGroup performs an HTTP GET for one element group's TLE data.
func (f *Fetcher) FetchGroup(ctx context.Context, group string) ([]byte, error) {
	url := fmt.Sprintf(f.urlTemplate, group)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching TLE data for group %q: %w", group, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}
