package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// maxRasterBytes bounds a single fetched raster.
const maxRasterBytes = 256 << 20

// HTTPStore reads rasters over HTTP. Served paths are resolved against BaseURL.
// At most the configured number of requests are in flight at once.
type HTTPStore struct {
	base   string
	client *http.Client
	sem    *semaphore.Weighted
}

// NewHTTPStore creates an HTTPStore.
func NewHTTPStore(baseURL string, client *http.Client, concurrency int) *HTTPStore {
	if concurrency <= 0 {
		concurrency = domain.DefaultFetchConcurrency
	}
	return &HTTPStore{
		base:   strings.TrimRight(baseURL, "/"),
		client: client,
		sem:    semaphore.NewWeighted(int64(concurrency)),
	}
}

func (s *HTTPStore) resolve(address string) string {
	if u, err := url.Parse(address); err == nil && u.IsAbs() {
		return address
	}
	return s.base + "/" + strings.TrimLeft(address, "/")
}

// Exists issues a HEAD request; only 2xx counts as present.
func (s *HTTPStore) Exists(ctx context.Context, address string) bool {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer s.sem.Release(1)

	resp, err := s.do(ctx, http.MethodHead, address)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Fetch downloads address. The concurrency slot is held until the body is read.
func (s *HTTPStore) Fetch(ctx context.Context, address string) ([]byte, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrRasterFetch, err), "address", address)
	}
	defer s.sem.Release(1)

	resp, err := s.do(ctx, http.MethodGet, address)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrRasterFetch, err), "address", address)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, zerr.With(zerr.Wrap(domain.ErrRasterNotFound, "raster not served"), "address", address)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrRasterFetch, "unexpected status"), "address", address),
			"status", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRasterBytes))
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrRasterFetch, err), "address", address)
	}
	return data, nil
}

func (s *HTTPStore) do(ctx context.Context, method, address string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.resolve(address), http.NoBody)
	if err != nil {
		return nil, err
	}
	return s.client.Do(req)
}
