// Package storage implements raster stores over HTTP, local files and S3-compatible object storage.
package storage

import (
	"context"
	"net/url"
	"strings"

	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/zerr"
)

// servedPrefixes are paths resolved against the job service.
var servedPrefixes = []string{domain.ExportsPrefix + "/", "/previews/", "/outputs/"}

// Router dispatches addresses to the store that serves their scheme.
//
//   - http:// and https:// and served paths such as /exports/... go to the HTTP store
//   - s3://bucket/key goes to the object store, when one is configured
//   - everything else is a local file path
type Router struct {
	HTTP  ports.RasterStore
	Files ports.RasterStore
	S3    ports.RasterStore
}

var _ ports.RasterStore = (*Router)(nil)

func (r *Router) route(address string) (ports.RasterStore, error) {
	u, err := url.Parse(address)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return r.HTTP, nil
		case "s3":
			if r.S3 == nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedAddress, "no object store configured"), "address", address)
			}
			return r.S3, nil
		case "file", "":
		default:
			if len(u.Scheme) > 1 {
				return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedAddress, "unknown scheme"), "address", address)
			}
		}
	}
	for _, p := range servedPrefixes {
		if strings.HasPrefix(address, p) {
			return r.HTTP, nil
		}
	}
	return r.Files, nil
}

// Exists reports whether the routed store has address. Unroutable addresses do not exist.
func (r *Router) Exists(ctx context.Context, address string) bool {
	s, err := r.route(address)
	if err != nil {
		return false
	}
	return s.Exists(ctx, address)
}

// Fetch reads address from the routed store.
func (r *Router) Fetch(ctx context.Context, address string) ([]byte, error) {
	s, err := r.route(address)
	if err != nil {
		return nil, err
	}
	return s.Fetch(ctx, address)
}
