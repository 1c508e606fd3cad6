package ports

import (
	"context"

	"go.trai.ch/firecast/internal/core/domain"
)

// JobService is the typed boundary to the external export job API.
// Implementations never return raw transport errors: failures to reach the
// service surface as domain.ErrServiceUnavailable and malformed answers as
// domain.ErrInvalidResponse. Implementations do not retry.
//
//go:generate mockgen -source=jobservice.go -destination=mocks/mock_jobservice.go -package=mocks
type JobService interface {
	// ProbeExists reports whether a resource exists at address.
	// It fails soft to false.
	ProbeExists(ctx context.Context, address string) bool

	// StartExport asks the service to produce the raster for key.
	StartExport(ctx context.Context, key domain.EntityKey, geometry domain.Geometry) (domain.StartResponse, error)

	// CheckStatus asks the service for the state of jobID.
	CheckStatus(ctx context.Context, jobID string, key domain.EntityKey) (domain.StatusResponse, error)
}

// PreviewSource produces low-fidelity interim rasters.
type PreviewSource interface {
	// FetchPreview returns the address of a preview raster, or "" when none is available.
	FetchPreview(ctx context.Context, geometry domain.Geometry) (string, error)
}
