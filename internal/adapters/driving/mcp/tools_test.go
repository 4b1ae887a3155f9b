package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driving"
)

func TestServer_handleMapItem(t *testing.T) {
	ctx := context.Background()

	t.Run("returns mapped fields in order", func(t *testing.T) {
		record := domain.NewFieldRecord()
		record.Set("{F-BRAND}", "Mira")
		record.Set("{F-PRICE}", "899.5")
		mapping := &mockMappingService{result: domain.Mapped(record)}

		server, err := NewServer(&Ports{Mapping: mapping})
		require.NoError(t, err)

		input := MapItemInput{ContentID: "{ITEM-1}", TemplateID: "{T}", Version: 2}
		_, output, err := server.handleMapItem(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "mapped", output.Status)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, []domain.FieldValue{
			{FieldID: "{F-BRAND}", Value: "Mira"},
			{FieldID: "{F-PRICE}", Value: "899.5"},
		}, output.Fields)
		assert.Empty(t, output.Reason)
		assert.Equal(t, 2, mapping.version.Number)
	})

	t.Run("defaults owner and language from settings", func(t *testing.T) {
		mapping := &mockMappingService{result: domain.Mapped(domain.NewFieldRecord())}
		settings := domain.DefaultMappingSettings()
		settings.Owner = "erp"
		settings.DefaultLanguage = "de"

		server, err := NewServer(&Ports{Mapping: mapping, Settings: &mockSettingsService{settings: settings}})
		require.NoError(t, err)

		_, _, err = server.handleMapItem(ctx, nil, MapItemInput{ContentID: "{ITEM-1}", TemplateID: "{T}"})

		require.NoError(t, err)
		assert.Equal(t, "erp", mapping.item.Owner)
		assert.Equal(t, "de", mapping.version.Language)
	})

	t.Run("falls back to defaults without settings", func(t *testing.T) {
		mapping := &mockMappingService{result: domain.Mapped(domain.NewFieldRecord())}
		server, err := NewServer(&Ports{
			Mapping:  mapping,
			Settings: &mockSettingsService{err: errors.New("unreadable config")},
		})
		require.NoError(t, err)

		input := MapItemInput{ContentID: "{ITEM-1}", TemplateID: "{T}", Owner: "Commerce", Language: "fr"}
		_, _, err = server.handleMapItem(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Commerce", mapping.item.Owner)
		assert.Equal(t, "fr", mapping.version.Language)
	})

	t.Run("reports failure as a result", func(t *testing.T) {
		cause := errors.New("mapping {ITEM-9}: not found")
		mapping := &mockMappingService{result: domain.Failed(cause)}

		server, err := NewServer(&Ports{Mapping: mapping})
		require.NoError(t, err)

		_, output, err := server.handleMapItem(ctx, nil, MapItemInput{ContentID: "{ITEM-9}", TemplateID: "{T}"})

		require.NoError(t, err)
		assert.Equal(t, "failed", output.Status)
		assert.Equal(t, cause.Error(), output.Reason)
		assert.Zero(t, output.Count)
		assert.Nil(t, output.Fields)
	})

	t.Run("reports not applicable", func(t *testing.T) {
		mapping := &mockMappingService{result: domain.NotApplicable(domain.ErrNotApplicable)}

		server, err := NewServer(&Ports{Mapping: mapping})
		require.NoError(t, err)

		_, output, err := server.handleMapItem(ctx, nil, MapItemInput{ContentID: "{ITEM-1}", TemplateID: "{T}"})

		require.NoError(t, err)
		assert.Equal(t, "not_applicable", output.Status)
		assert.Equal(t, "not applicable", output.Reason)
	})

	t.Run("requires content and template ids", func(t *testing.T) {
		server, err := NewServer(&Ports{Mapping: &mockMappingService{}})
		require.NoError(t, err)

		_, _, err = server.handleMapItem(ctx, nil, MapItemInput{ContentID: "{ITEM-1}"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleGetSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("returns schema fields", func(t *testing.T) {
		catalog := &mockCatalogService{schema: &domain.Schema{
			TemplateID:    "{T}",
			Name:          "Sellable Item",
			BaseTemplates: []string{"{BASE}"},
			Fields: []domain.SchemaField{
				{ID: "{F-BRAND}", Name: "Brand", Type: domain.FieldTypeText, IsDataField: true},
			},
		}}

		server, err := NewServer(&Ports{Mapping: &mockMappingService{}, Catalog: catalog})
		require.NoError(t, err)

		_, output, err := server.handleGetSchema(ctx, nil, GetSchemaInput{TemplateID: "{T}"})

		require.NoError(t, err)
		assert.Equal(t, "{T}", output.TemplateID)
		assert.Equal(t, "Sellable Item", output.Name)
		assert.Equal(t, []string{"{BASE}"}, output.BaseTemplates)
		require.Len(t, output.Fields, 1)
		assert.Equal(t, "Brand", output.Fields[0].Name)
	})

	t.Run("returns error on lookup failure", func(t *testing.T) {
		catalog := &mockCatalogService{err: domain.ErrNotFound}

		server, err := NewServer(&Ports{Mapping: &mockMappingService{}, Catalog: catalog})
		require.NoError(t, err)

		_, _, err = server.handleGetSchema(ctx, nil, GetSchemaInput{TemplateID: "{NOPE}"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleDescribeItem(t *testing.T) {
	ctx := context.Background()

	t.Run("returns item info", func(t *testing.T) {
		info := &driving.ItemInfo{
			ContentID:   "{VAR-ITEM}",
			EntityID:    "Entity-SellableItem-1|VAR7",
			ParentID:    "{ITEM-1}",
			VariationID: "VAR7",
		}
		server, err := NewServer(&Ports{Mapping: &mockMappingService{}, Catalog: &mockCatalogService{info: info}})
		require.NoError(t, err)

		_, output, err := server.handleDescribeItem(ctx, nil, DescribeItemInput{ContentID: "{VAR-ITEM}"})

		require.NoError(t, err)
		assert.Equal(t, *info, output)
	})

	t.Run("returns error on lookup failure", func(t *testing.T) {
		catalog := &mockCatalogService{err: errors.New("database error")}
		server, err := NewServer(&Ports{Mapping: &mockMappingService{}, Catalog: catalog})
		require.NoError(t, err)

		_, _, err = server.handleDescribeItem(ctx, nil, DescribeItemInput{ContentID: "{ITEM-1}"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database error")
	})
}
