package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/firecast/internal/adapters/analytics"  //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/jobserver"  //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/jobservice" //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/metrics"    //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/notify"     //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/render"     //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/storage"    //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			logger.NodeID,
			jobservice.NodeID,
			storage.NodeID,
			render.NodeID,
			notify.NodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
			analytics.NodeID,
			jobserver.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := graft.Dep[*jobservice.Client](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.RasterStore](ctx)
	if err != nil {
		return nil, err
	}
	surface, err := graft.Dep[*render.Surface](ctx)
	if err != nil {
		return nil, err
	}
	notifier, err := graft.Dep[ports.Notifier](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	prom, err := graft.Dep[*metrics.Prometheus](ctx)
	if err != nil {
		return nil, err
	}
	events, err := graft.Dep[ports.Analytics](ctx)
	if err != nil {
		return nil, err
	}
	server, err := graft.Dep[*jobserver.Server](ctx)
	if err != nil {
		return nil, err
	}

	return New(Deps{
		Settings:  settings,
		Logger:    log,
		Jobs:      jobs,
		Previews:  jobs,
		Store:     store,
		Canvas:    surface,
		Notifier:  notifier,
		Tracer:    tracer,
		Metrics:   prom,
		Analytics: events,
		Server:    server,
	}), nil
}
