package ports

import "go.trai.ch/firecast/internal/core/domain"

// ConfigLoader defines the interface for loading runtime settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads settings from path, the environment and defaults.
	// A missing file at path is not an error.
	Load(path string) (*domain.Settings, error)
}
