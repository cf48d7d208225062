package ports

import "go.trai.ch/xo/internal/core/domain"

// ConfigLoader defines the interface for loading the site configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration starting at cwd and returns the resolved site.
	Load(cwd string) (*domain.Site, error)

	// DiscoverRoot walks up from cwd to the directory containing xo.yaml.
	// When no file exists it returns cwd.
	DiscoverRoot(cwd string) (string, error)
}
