package render

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the render surface Graft node.
const NodeID graft.ID = "adapter.render"

func init() {
	graft.Register(graft.Node[*Surface]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Surface, error) {
			return NewSurface(DefaultSize), nil
		},
	})
}
