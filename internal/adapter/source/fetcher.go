// Package source reads raw data files from the local filesystem or over HTTP.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
)

// maxBodyBytes caps a single source download.
const maxBodyBytes = 256 << 20

// errTooLarge marks a download that exceeded the size cap.
var errTooLarge = errors.New("source too large")

// Fetcher resolves a source location to its bytes. Locations beginning with
// http:// or https:// are downloaded; anything else is read from disk.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher whose HTTP requests time out after timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBodyBytes,
		logger:     logger,
	}
}

// Fetch returns a reader over the whole source. Every failure wraps
// domain.ErrSourceUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, location string) (io.Reader, error) {
	if isRemote(location) {
		return f.fetchHTTP(ctx, location)
	}
	return f.fetchFile(ctx, location)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (f *Fetcher) fetchFile(ctx context.Context, path string) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	f.logger.Debug("source read", "path", path, "bytes", len(data))
	return bytes.NewReader(data), nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) (io.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrSourceUnavailable, err)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrSourceUnavailable, url, resp.StatusCode)
	}

	// One byte past the cap tells a full-size body from a truncated one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrSourceUnavailable, url, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s: %w (limit %d bytes)", domain.ErrSourceUnavailable, url, errTooLarge, f.maxBytes)
	}
	f.logger.Debug("source downloaded",
		"url", url,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return bytes.NewReader(data), nil
}
