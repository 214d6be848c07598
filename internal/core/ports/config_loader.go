package ports

import "go.trai.ch/livepush/internal/core/domain"

//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks

// ConfigLoader defines the interface for loading project configuration.
type ConfigLoader interface {
	// Load discovers the configuration from cwd upwards and applies defaults and environment overrides.
	Load(cwd string) (*domain.Config, error)

	// DiscoverRoot walks up from cwd to find the directory holding the configuration file.
	DiscoverRoot(cwd string) (string, error)
}
