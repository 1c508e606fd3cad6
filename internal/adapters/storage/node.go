package storage

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/firecast/internal/adapters/config"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
)

// NodeID is the unique identifier for the raster store Graft node.
const NodeID graft.ID = "adapter.storage"

func init() {
	graft.Register(graft.Node[ports.RasterStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.RasterStore, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return New(settings)
		},
	})
}

// New builds the cached store router for settings.
func New(settings *domain.Settings) (*Cache, error) {
	router := &Router{
		HTTP: NewHTTPStore(
			settings.JobService.BaseURL,
			&http.Client{Timeout: settings.JobService.Timeout},
			settings.Storage.FetchConcurrency,
		),
		Files: FileStore{Root: settings.Storage.DataDir},
	}
	if settings.Storage.S3.Enabled() {
		s3, err := NewS3Store(settings.Storage.S3)
		if err != nil {
			return nil, err
		}
		router.S3 = s3
	}
	return NewCache(router, settings.Storage.CacheSize)
}
