package jobservice

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/firecast/internal/adapters/config"
	"go.trai.ch/firecast/internal/adapters/logger"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
)

// NodeID is the unique identifier for the job service client Graft node.
const NodeID graft.ID = "adapter.jobservice"

func init() {
	graft.Register(graft.Node[*Client]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Client, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(settings.JobService, log)
		},
	})
}
