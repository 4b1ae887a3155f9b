package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driven"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyOwner           = "mapping.owner"
	keyDefaultLanguage = "mapping.default_language"
	keySecurity        = "mapping.security"
	keyLogLevel        = "log.level"
	keyLogFormat       = "log.format"
	keyDataDir         = "storage.data_dir"
)

// settingKey binds a config key to the settings value it overrides.
type settingKey struct {
	key   string
	field func(*domain.MappingSettings) *string
	valid []string
}

// settingKeys lists every configurable key in display order.
var settingKeys = []settingKey{
	{key: keyOwner, field: func(s *domain.MappingSettings) *string { return &s.Owner }},
	{key: keyDefaultLanguage, field: func(s *domain.MappingSettings) *string { return &s.DefaultLanguage }},
	{key: keySecurity, field: func(s *domain.MappingSettings) *string { return &s.Security }},

	{key: "templates.catalog_folder", field: func(s *domain.MappingSettings) *string { return &s.Templates.CatalogFolder }},
	{key: "templates.navigation_item", field: func(s *domain.MappingSettings) *string { return &s.Templates.NavigationItem }},
	{key: "templates.sellable_item_variant", field: func(s *domain.MappingSettings) *string {
		return &s.Templates.SellableItemVariant
	}},
	{key: "templates.product_variant", field: func(s *domain.MappingSettings) *string { return &s.Templates.ProductVariant }},

	{key: "fields.display_name", field: func(s *domain.MappingSettings) *string { return &s.Fields.DisplayName }},
	{key: "fields.created", field: func(s *domain.MappingSettings) *string { return &s.Fields.Created }},
	{key: "fields.updated", field: func(s *domain.MappingSettings) *string { return &s.Fields.Updated }},
	{key: "fields.created_by", field: func(s *domain.MappingSettings) *string { return &s.Fields.CreatedBy }},
	{key: "fields.updated_by", field: func(s *domain.MappingSettings) *string { return &s.Fields.UpdatedBy }},
	{key: "fields.security", field: func(s *domain.MappingSettings) *string { return &s.Fields.Security }},
	{key: "fields.workflow", field: func(s *domain.MappingSettings) *string { return &s.Fields.Workflow }},
	{key: "fields.default_workflow", field: func(s *domain.MappingSettings) *string { return &s.Fields.DefaultWorkflow }},
	{key: "fields.workflow_state", field: func(s *domain.MappingSettings) *string { return &s.Fields.WorkflowState }},

	{
		key:   keyLogLevel,
		field: func(s *domain.MappingSettings) *string { return &s.Log.Level },
		valid: []string{"debug", "info", "warn", "error"},
	},
	{
		key:   keyLogFormat,
		field: func(s *domain.MappingSettings) *string { return &s.Log.Format },
		valid: []string{"console", "json"},
	},
	{key: keyDataDir, field: func(s *domain.MappingSettings) *string { return &s.Storage.DataDir }},
}

// SettingsService manages mapping settings stored in a config store.
// Keys that are unset or empty fall back to the defaults.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings with defaults applied.
func (s *SettingsService) Get() (*domain.MappingSettings, error) {
	settings := domain.DefaultMappingSettings()

	for _, k := range settingKeys {
		if value := strings.TrimSpace(s.configStore.GetString(k.key)); value != "" {
			*k.field(&settings) = value
		}
	}

	return &settings, nil
}

// Set updates a single setting by its config key.
func (s *SettingsService) Set(key, value string) error {
	k, ok := lookupSettingKey(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value = strings.TrimSpace(value)
	if len(k.valid) > 0 && !slices.Contains(k.valid, value) {
		return fmt.Errorf("%w: %s must be one of %s", domain.ErrInvalidInput, key, strings.Join(k.valid, ", "))
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Keys returns the config keys Set accepts, in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Validate checks if current settings are complete.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.MappingSettings {
	return domain.DefaultMappingSettings()
}

func lookupSettingKey(key string) (settingKey, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k, true
		}
	}
	return settingKey{}, false
}
