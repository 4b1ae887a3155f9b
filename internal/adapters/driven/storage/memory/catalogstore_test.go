package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
)

func testSnapshot() *domain.CatalogSnapshot {
	return &domain.CatalogSnapshot{
		Mappings: []domain.IDMapping{
			{ContentID: "{AAAA-0001}", EntityID: "Entity-SellableItem-6042185", CatalogName: "Habitat_Master"},
			{ContentID: "{AAAA-0002}", EntityID: "Entity-SellableItem-6042185|56042185"},
		},
		Paths: []domain.PathMapping{
			{ID: "cat-1", PathID: "{P-1}", Ancestors: []string{"{ROOT}"}},
			{ID: "cat-1", PathID: "{P-2}", Ancestors: []string{"{OTHER}", "{AAAA-0001}"}},
		},
		Entities: []domain.EntityVersion{
			{ContentID: "{AAAA-0001}", Version: 1, Document: domain.NewObject().Set("DisplayName", domain.NewString("v1"))},
			{ContentID: "{AAAA-0001}", Version: 2, Document: domain.NewObject().Set("DisplayName", domain.NewString("v2"))},
		},
		Templates: []domain.Schema{
			{
				TemplateID:    "{T-1}",
				BaseTemplates: []string{"{BASE}"},
				Fields:        []domain.SchemaField{{ID: "{F-1}", Name: "Brand", Type: domain.FieldTypeText, IsDataField: true}},
			},
		},
		VariationProperties: "Color|Size",
	}
}

func importedStore(t *testing.T) *CatalogStore {
	t.Helper()
	store := NewCatalogStore()
	require.NoError(t, store.Import(context.Background(), testSnapshot()))
	return store
}

func TestCatalogStore_Import_Invalid(t *testing.T) {
	store := NewCatalogStore()

	err := store.Import(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Import(context.Background(), &domain.CatalogSnapshot{
		Mappings: []domain.IDMapping{{ContentID: "{X}"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogStore_EntityIDForContent(t *testing.T) {
	store := importedStore(t)
	ctx := context.Background()

	id, err := store.EntityIDForContent(ctx, "aaaa-0001")
	require.NoError(t, err)
	assert.Equal(t, "Entity-SellableItem-6042185", id)

	id, err = store.EntityIDForContent(ctx, "{AAAA-0002}")
	require.NoError(t, err)
	assert.Equal(t, "Entity-SellableItem-6042185|56042185", id)

	_, err = store.EntityIDForContent(ctx, "{missing}")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_ContentIDForEntity(t *testing.T) {
	store := importedStore(t)
	ctx := context.Background()

	id, err := store.ContentIDForEntity(ctx, "Entity-SellableItem-6042185")
	require.NoError(t, err)
	assert.Equal(t, "{AAAA-0001}", id)

	_, err = store.ContentIDForEntity(ctx, "entity-sellableitem-6042185")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_Entity(t *testing.T) {
	store := importedStore(t)
	ctx := context.Background()

	doc, err := store.Entity(ctx, "{AAAA-0001}", 1)
	require.NoError(t, err)
	name, _ := doc.StringProperty("DisplayName")
	assert.Equal(t, "v1", name)

	doc, err = store.Entity(ctx, "{AAAA-0001}", 0)
	require.NoError(t, err)
	name, _ = doc.StringProperty("DisplayName")
	assert.Equal(t, "v2", name)

	_, err = store.Entity(ctx, "{AAAA-0001}", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Entity(ctx, "{AAAA-0009}", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_PathIDs(t *testing.T) {
	store := importedStore(t)
	ctx := context.Background()

	ids, err := store.PathIDs(ctx, "CAT-1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"{P-1}", "{P-2}"}, ids)

	ids, err = store.PathIDs(ctx, "cat-1", "aaaa-0001")
	require.NoError(t, err)
	assert.Equal(t, []string{"{P-2}"}, ids)

	ids, err = store.PathIDs(ctx, "cat-1", "{NOWHERE}")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = store.PathIDs(ctx, "cat-9", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_Import_ReplacesPaths(t *testing.T) {
	store := importedStore(t)
	ctx := context.Background()

	err := store.Import(ctx, &domain.CatalogSnapshot{
		Paths: []domain.PathMapping{{ID: "cat-1", PathID: "{P-9}"}},
	})
	require.NoError(t, err)

	ids, err := store.PathIDs(ctx, "cat-1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"{P-9}"}, ids)

	props, err := store.VariationProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Color|Size", props)
}

func TestCatalogStore_CatalogName(t *testing.T) {
	store := importedStore(t)
	ctx := context.Background()

	name, err := store.CatalogName(ctx, "{aaaa-0001}")
	require.NoError(t, err)
	assert.Equal(t, "Habitat_Master", name)

	_, err = store.CatalogName(ctx, "{AAAA-0002}")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_VariationProperties_Empty(t *testing.T) {
	store := NewCatalogStore()

	_, err := store.VariationProperties(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_GetSchema(t *testing.T) {
	store := importedStore(t)
	ctx := context.Background()

	schema, err := store.GetSchema(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "{T-1}", schema.TemplateID)
	require.Len(t, schema.Fields, 1)
	assert.True(t, schema.Is("{BASE}"))

	// Callers get a copy.
	schema.Fields[0].Name = "changed"
	again, err := store.GetSchema(ctx, "{T-1}")
	require.NoError(t, err)
	assert.Equal(t, "Brand", again.Fields[0].Name)

	_, err = store.GetSchema(ctx, "{T-2}")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
