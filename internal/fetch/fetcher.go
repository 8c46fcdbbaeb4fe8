// Package fetch downloads configured feeds, archives the raw payload and
// hands it to ingestion.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultMaxBodyBytes caps a single feed download.
const DefaultMaxBodyBytes = 50 << 20

// Fetcher retrieves raw feed data over HTTP.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher. A zero maxBytes selects DefaultMaxBodyBytes.
func NewFetcher(maxBytes int64, logger *slog.Logger) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Fetch performs an HTTP GET and returns the body.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("response from %s exceeds %d byte limit", url, f.maxBytes)
	}

	f.logger.Debug("fetch: downloaded", slog.String("url", url), slog.Int("bytes", len(body)))
	return body, nil
}
