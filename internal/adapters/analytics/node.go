package analytics

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/firecast/internal/adapters/config"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
)

// NodeID is the unique identifier for the analytics Graft node.
const NodeID graft.ID = "adapter.analytics"

func init() {
	graft.Register(graft.Node[ports.Analytics]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Analytics, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			if settings.Analytics.APIKey == "" {
				return Noop{}, nil
			}
			return NewPostHog(settings.Analytics)
		},
	})
}
