package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldmap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/core/services"
)

// testSnapshotJSON is a one-item catalog.
const testSnapshotJSON = `{
	"mappings": [
		{"content_id": "{ITEM-1}", "entity_id": "Entity-1", "catalog_name": "Habitat_Master"},
		{"content_id": "{VAR-1}", "entity_id": "Entity-1|V1"},
		{"content_id": "{LOST}", "entity_id": "Entity-Lost"}
	],
	"entities": [
		{"content_id": "{ITEM-1}", "version": 1, "document": {
			"Id": "Entity-1",
			"DisplayName": "Mira Laptop",
			"Brand": "Mira",
			"DateCreated": "2024-03-05T08:00:00Z",
			"CreatedBy": "admin"
		}}
	],
	"templates": [
		{"template_id": "{SELLABLE}", "name": "Sellable Item", "base_templates": ["{BASE}"], "fields": [
			{"id": "{F-BRAND}", "name": "Brand", "type": "Single-Line Text", "is_data_field": true},
			{"id": "{F-SORT}", "name": "__Sortorder", "type": "Single-Line Text"}
		]}
	]
}`

// testEnv wires the real services over in-memory stores.
type testEnv struct {
	store  *memory.CatalogStore
	config *memory.ConfigStore
}

func setupCLITest(t *testing.T, importSnapshot bool) *testEnv {
	t.Helper()

	store := memory.NewCatalogStore()
	if importSnapshot {
		snapshot, err := domain.ParseCatalogSnapshot([]byte(testSnapshotJSON))
		require.NoError(t, err)
		require.NoError(t, store.Import(context.Background(), snapshot))
	}

	config := memory.NewConfigStore()
	settings := services.NewSettingsService(config)
	current, err := settings.Get()
	require.NoError(t, err)

	oldMapping, oldCatalog, oldSettings, oldLog := mappingService, catalogService, settingsService, serviceLog
	SetServices(Services{
		Mapping:  services.NewMappingService(store, store, *current, nil),
		Catalog:  services.NewCatalogService(store, store, store, nil),
		Settings: settings,
	})
	t.Cleanup(func() {
		mappingService, catalogService, settingsService, serviceLog = oldMapping, oldCatalog, oldSettings, oldLog
	})

	return &testEnv{store: store, config: config}
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
