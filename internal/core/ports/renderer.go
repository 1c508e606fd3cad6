package ports

import (
	"context"

	"go.trai.ch/firecast/internal/core/domain"
)

// Renderer owns the shared rendering surface.
// Only the component that registered a layer may change its visibility.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Register decodes raster and adds it to the surface as a hidden layer.
	// Loading completes asynchronously; see Layer.OnLoaded.
	Register(ctx context.Context, raster []byte, style domain.Style) (Layer, error)

	// Redraw repaints the surface from the current layer state.
	Redraw()
}

// Layer is a render handle for one registered raster.
type Layer interface {
	// ID identifies the layer on its surface.
	ID() string

	// SetOpacity sets the layer opacity in [0, 1].
	SetOpacity(v float64)

	// OnLoaded registers fn to run once the layer finished loading.
	// fn runs exactly once per handle, asynchronously, even if loading already finished.
	OnLoaded(fn func())

	// Remove releases the layer. Removing twice is a no-op.
	Remove()
}
