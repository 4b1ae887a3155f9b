package driving

import "github.com/custodia-labs/fieldmap/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current mapping settings.
	Get() (*domain.MappingSettings, error)

	// Set updates a single setting by its config key.
	Set(key, value string) error

	// Keys returns the config keys Set accepts, in display order.
	Keys() []string

	// Validate checks if current settings are complete.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.MappingSettings
}
