package mcp

import (
	"context"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driving"
)

// mockMappingService is a mock implementation of driving.MappingService.
type mockMappingService struct {
	result  domain.MapResult
	item    domain.ItemDescriptor
	version domain.VersionDescriptor
}

func (m *mockMappingService) Map(
	_ context.Context,
	item domain.ItemDescriptor,
	version domain.VersionDescriptor,
) domain.MapResult {
	m.item = item
	m.version = version
	return m.result
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	schema *domain.Schema
	info   *driving.ItemInfo
	err    error
}

func (m *mockCatalogService) Import(_ context.Context, _ *domain.CatalogSnapshot) error {
	return m.err
}

func (m *mockCatalogService) Schema(_ context.Context, _ string) (*domain.Schema, error) {
	return m.schema, m.err
}

func (m *mockCatalogService) Describe(_ context.Context, _ string) (*driving.ItemInfo, error) {
	return m.info, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.MappingSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.MappingSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) Keys() []string {
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.MappingSettings {
	return domain.DefaultMappingSettings()
}
