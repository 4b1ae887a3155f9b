// Command fieldmap maps commerce catalog entities onto content item fields.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/fieldmap/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fieldmap/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/fieldmap/internal/adapters/driving/cli"
	"github.com/custodia-labs/fieldmap/internal/core/services"
	"github.com/custodia-labs/fieldmap/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading settings: %v\n", err)
		return err
	}

	log, err := logger.New(os.Stderr, logger.Options{
		Level:     settings.Log.Level,
		Format:    settings.Log.Format,
		Component: "fieldmap",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuring logger: %v\n", err)
		return err
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		log.Error(err, "opening catalog store")
		return err
	}
	defer store.Close()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Mapping:  services.NewMappingService(store.SchemaProvider(), store.CatalogRepository(), *settings, log),
		Catalog:  services.NewCatalogService(store, store.SchemaProvider(), store.CatalogRepository(), log),
		Settings: settingsService,
		Log:      log,
	})

	// Cobra reports command errors itself.
	return cli.Execute()
}
