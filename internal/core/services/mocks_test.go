package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldmap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/ports/driven"
)

// ==================== Logger ====================

type logEntry struct {
	level string
	msg   string
	err   error
}

// captureLogger records every entry for assertions.
type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

var _ driven.Logger = (*captureLogger)(nil)

func (l *captureLogger) add(level string, err error, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: fmt.Sprintf(format, args...), err: err})
}

func (l *captureLogger) Debug(format string, args ...any) { l.add("debug", nil, format, args...) }
func (l *captureLogger) Warn(format string, args ...any)  { l.add("warn", nil, format, args...) }
func (l *captureLogger) Error(err error, format string, args ...any) {
	l.add("error", err, format, args...)
}

func (l *captureLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func (l *captureLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

// ==================== Repository ====================

// mockRepository wraps the in-memory catalog store with call counting,
// injected errors and injected panics.
type mockRepository struct {
	*memory.CatalogStore

	mu      sync.Mutex
	calls   map[string]int
	errs    map[string]error
	panicOn string
}

var _ driven.CatalogRepository = (*mockRepository)(nil)

func newMockRepository(t *testing.T, snapshot *domain.CatalogSnapshot) *mockRepository {
	t.Helper()
	store := memory.NewCatalogStore()
	require.NoError(t, store.Import(context.Background(), snapshot))
	return &mockRepository{
		CatalogStore: store,
		calls:        make(map[string]int),
		errs:         make(map[string]error),
	}
}

func (m *mockRepository) record(op string) error {
	m.mu.Lock()
	m.calls[op]++
	panicOn := m.panicOn
	err := m.errs[op]
	m.mu.Unlock()

	if panicOn == op {
		panic("repository exploded in " + op)
	}
	return err
}

func (m *mockRepository) callCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *mockRepository) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *mockRepository) EntityIDForContent(ctx context.Context, contentID string) (string, error) {
	if err := m.record("EntityIDForContent"); err != nil {
		return "", err
	}
	return m.CatalogStore.EntityIDForContent(ctx, contentID)
}

func (m *mockRepository) ContentIDForEntity(ctx context.Context, entityID string) (string, error) {
	if err := m.record("ContentIDForEntity"); err != nil {
		return "", err
	}
	return m.CatalogStore.ContentIDForEntity(ctx, entityID)
}

func (m *mockRepository) Entity(ctx context.Context, contentID string, version int) (*domain.Node, error) {
	if err := m.record("Entity"); err != nil {
		return nil, err
	}
	return m.CatalogStore.Entity(ctx, contentID, version)
}

func (m *mockRepository) PathIDs(ctx context.Context, id, ancestor string) ([]string, error) {
	if err := m.record("PathIDs"); err != nil {
		return nil, err
	}
	return m.CatalogStore.PathIDs(ctx, id, ancestor)
}

func (m *mockRepository) CatalogName(ctx context.Context, contentID string) (string, error) {
	if err := m.record("CatalogName"); err != nil {
		return "", err
	}
	return m.CatalogStore.CatalogName(ctx, contentID)
}

func (m *mockRepository) VariationProperties(ctx context.Context) (string, error) {
	if err := m.record("VariationProperties"); err != nil {
		return "", err
	}
	return m.CatalogStore.VariationProperties(ctx)
}

// ==================== Fixtures ====================

const (
	sellableTemplate = "{SELLABLE-ITEM}"
	variantTemplate  = "{VARIANT}"
	productVariant   = "commerce-product-variant"
)

// catalogSnapshotJSON is a small catalog: one sellable item with a red
// variation, the paths its lists reference and two templates.
const catalogSnapshotJSON = `{
	"mappings": [
		{"content_id": "{ITEM-1}", "entity_id": "Entity-SellableItem-1", "catalog_name": "Habitat_Master"},
		{"content_id": "{VAR-ITEM}", "entity_id": "Entity-SellableItem-1|VAR7"},
		{"content_id": "{VAR-MISSING}", "entity_id": "Entity-SellableItem-1|VAR8"},
		{"content_id": "{VAR-BROKEN}", "entity_id": "Entity-SellableItem-1|"},
		{"content_id": "{ORPHAN}", "entity_id": "Entity-Orphan"},
		{"content_id": "{BAD-DATE}", "entity_id": "Entity-BadDate"}
	],
	"paths": [
		{"id": "CAT-A", "path_id": "{P-A}"},
		{"id": "CAT-B", "path_id": "{P-B}"},
		{"id": "CHILD-1", "path_id": "{C-1A}", "ancestors": ["{ITEM-1}"]},
		{"id": "CHILD-1", "path_id": "{C-1B}", "ancestors": ["{OTHER}"]},
		{"id": "CHILD-2", "path_id": "{C-2A}", "ancestors": ["{item-1}", "{ROOT}"]}
	],
	"entities": [
		{"content_id": "{ITEM-1}", "version": 1, "document": {
			"Id": "Entity-SellableItem-1",
			"DisplayName": "Mira Laptop",
			"Brand": "Mira",
			"ListPrice": 899.5,
			"IsPersonalized": false,
			"Tags": ["laptop", "sale"],
			"Description": null,
			"DateCreated": "2024-03-01T10:15:30+02:00",
			"DateUpdated": "2024-03-05T08:00:00Z",
			"CreatedBy": "sitecore\\admin",
			"ParentCatalogList": "CAT-A|cat-a|CAT-B",
			"ChildrenSellableItemList": "CHILD-1|CHILD-9|CHILD-2",
			"Components": [
				{"@odata.type": "#Sitecore.Commerce.Plugin.Catalog.ItemVariationsComponent", "ChildComponents": [
					{"@odata.type": "#Sitecore.Commerce.Plugin.Catalog.ItemVariationComponent",
					 "Id": "VAR7", "DisplayName": "Mira Laptop Red", "Color": "Red"}
				]},
				{"@odata.type": "#Sitecore.Commerce.Plugin.Catalog.RelationshipsComponent", "Relationships": [
					{"Name": "RelatedProducts", "RelationshipList": ["{R-1}", "{R-2}"]},
					{"Name": "NotInSchema", "RelationshipList": ["{R-3}"]}
				]},
				{"@odata.type": "#Sitecore.Commerce.Plugin.Workflow.WorkflowComponent",
				 "Workflow": {"EntityTarget": "wf-1"}, "CurrentState": "Draft"},
				{"@odata.type": "#Sitecore.Commerce.Plugin.Catalog.CatalogsComponent", "ChildComponents": [
					{"Name": "Other_Catalog", "ItemDefinition": "Accessory"},
					{"Name": "Habitat_Master", "ItemDefinition": "Laptop"}
				]},
				{"@odata.type": "#Sitecore.Commerce.Plugin.Views.EntityViewComponent", "View": {"ChildViews": [
					{"Properties": [
						{"Name": "Waterproof", "Value": "true"},
						{"Name": "ReleaseDate", "Value": "2024-01-02T03:04:05Z"},
						{"Name": "Warranty", "Value": "1 year"}
					]},
					{"Properties": [
						{"Name": "Warranty", "Value": "2 years"},
						{"Name": "Ignored", "Value": "x"}
					]}
				]}},
				{"@odata.type": "#Sitecore.Commerce.Plugin.ExternalSettings.ExternalSettingsComponent",
				 "Settings": {"en": {"Slogan": "Fast"}, "shared": {"Slogan": "Shared", "SeoTitle": "Mira"}}}
			]
		}},
		{"content_id": "{BAD-DATE}", "version": 1, "document": {
			"Id": "Entity-BadDate",
			"Components": [
				{"@odata.type": "#Sitecore.Commerce.Plugin.Views.EntityViewComponent", "View": {"ChildViews": [
					{"Properties": [{"Name": "ReleaseDate", "Value": "next tuesday"}]}
				]}}
			]
		}}
	],
	"templates": [
		{"template_id": "{SELLABLE-ITEM}", "name": "Sellable Item", "fields": [
			{"id": "{F-BRAND}", "name": "Brand", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-PRICE}", "name": "ListPrice", "type": "Number", "is_data_field": true},
			{"id": "{F-PERS}", "name": "IsPersonalized", "type": "Checkbox", "is_data_field": true},
			{"id": "{F-TAGS}", "name": "Tags", "type": "Multi-Line Text", "is_data_field": true},
			{"id": "{F-DESC}", "name": "Description", "type": "Rich Text", "is_data_field": true},
			{"id": "{F-MISSING}", "name": "Missing", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-PCAT}", "name": "ParentCatalogList", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-CHILD}", "name": "ChildrenSellableItemList", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-AREA}", "name": "AreaServed", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-VARPROP}", "name": "VariationProperties", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-REL}", "name": "RelatedProducts", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-WATER}", "name": "Waterproof", "type": "Checkbox", "is_data_field": true},
			{"id": "{F-RELEASE}", "name": "ReleaseDate", "type": "Datetime", "is_data_field": true},
			{"id": "{F-WARRANTY}", "name": "Warranty", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-SLOGAN}", "name": "Slogan", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-SEO}", "name": "SeoTitle", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-DEFS}", "name": "ItemDefinitions", "type": "Multi-Line Text", "is_data_field": true},
			{"id": "{F-SORT}", "name": "__Sortorder", "type": "Single-Line Text", "is_data_field": false}
		]},
		{"template_id": "{VARIANT}", "name": "Sellable Item Variant", "base_templates": ["sellable-item-variant"], "fields": [
			{"id": "{F-COLOR}", "name": "Color", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-BRAND}", "name": "Brand", "type": "Single-Line Text", "is_data_field": true}
		]},
		{"template_id": "commerce-product-variant", "fields": [
			{"id": "{F-BRAND}", "name": "Brand", "type": "Single-Line Text", "is_data_field": true}
		]}
	],
	"variation_properties": "Color|Size"
}`

func testCatalogSnapshot(t *testing.T) *domain.CatalogSnapshot {
	t.Helper()
	snapshot, err := domain.ParseCatalogSnapshot([]byte(catalogSnapshotJSON))
	require.NoError(t, err)
	return snapshot
}

// mappingFixture wires a mapping service over the test catalog.
type mappingFixture struct {
	repo     *mockRepository
	log      *captureLogger
	settings domain.MappingSettings
	service  *MappingService
}

func newMappingFixture(t *testing.T) *mappingFixture {
	t.Helper()
	snapshot := testCatalogSnapshot(t)
	repo := newMockRepository(t, snapshot)
	log := &captureLogger{}
	settings := domain.DefaultMappingSettings()
	return &mappingFixture{
		repo:     repo,
		log:      log,
		settings: settings,
		service:  NewMappingService(repo.CatalogStore, repo, settings, log),
	}
}

func commerceItem(id, templateID string) domain.ItemDescriptor {
	return domain.ItemDescriptor{ID: id, TemplateID: templateID, Owner: domain.DefaultOwner}
}

func version1() domain.VersionDescriptor {
	return domain.VersionDescriptor{Language: "en", Number: 1}
}
