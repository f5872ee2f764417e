package ports

import "go.trai.ch/fab/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds fab.yaml starting at cwd and walking up.
	Load(cwd string) (*domain.Project, error)
}
