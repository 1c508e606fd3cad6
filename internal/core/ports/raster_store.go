package ports

import "context"

// RasterStore reads raster resources by address.
//
//go:generate mockgen -source=raster_store.go -destination=mocks/mock_raster_store.go -package=mocks
type RasterStore interface {
	// Exists reports whether address can be fetched. It fails soft to false.
	Exists(ctx context.Context, address string) bool

	// Fetch returns the raw bytes stored at address.
	Fetch(ctx context.Context, address string) ([]byte, error)
}
