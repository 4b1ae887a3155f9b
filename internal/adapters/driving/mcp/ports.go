package mcp

import (
	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driving"
	"github.com/custodia-labs/fieldmap/internal/logger"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Mapping maps catalog items onto field records.
	Mapping driving.MappingService

	// Catalog answers schema and item lookups. Optional.
	Catalog driving.CatalogService

	// Settings supplies the default owner and language. Optional.
	Settings driving.SettingsService

	// Log receives one entry per tool call. Optional.
	Log *logger.Logger

	// Version is reported to clients. Defaults to "dev".
	Version string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Mapping == nil {
		return ErrMissingMappingService
	}
	return nil
}

// settings returns the current settings, falling back to the defaults.
func (p *Ports) settings() domain.MappingSettings {
	if p.Settings != nil {
		if s, err := p.Settings.Get(); err == nil && s != nil {
			return *s
		}
	}
	return domain.DefaultMappingSettings()
}

func (p *Ports) version() string {
	if p.Version == "" {
		return "dev"
	}
	return p.Version
}
