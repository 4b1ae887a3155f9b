package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot.json>",
	Short: "Import a catalog snapshot",
	Long: `Loads a catalog snapshot into the local catalog store.

A snapshot carries identifier mappings, path mappings, entity documents and
templates. Entries with the same keys replace what is already stored.
Use "-" to read the snapshot from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	logger.Section("Import")
	logger.Debug("reading snapshot from %s", args[0])
	data, err := readSnapshot(cmd, args[0])
	if err != nil {
		return err
	}

	snapshot, err := domain.ParseCatalogSnapshot(data)
	if err != nil {
		return fmt.Errorf("invalid snapshot %s: %w", args[0], err)
	}
	if len(snapshot.Templates) == 0 {
		logger.Warn("snapshot %s has no templates; items cannot be mapped until one is imported", args[0])
	}

	if err := catalogService.Import(cmd.Context(), snapshot); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d mappings, %d paths, %d entities, %d templates.\n",
		len(snapshot.Mappings), len(snapshot.Paths), len(snapshot.Entities), len(snapshot.Templates))
	return nil
}

func readSnapshot(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, nil
}
