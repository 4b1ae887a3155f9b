// Package cli provides the fieldmap command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldmap/internal/core/ports/driving"
	"github.com/custodia-labs/fieldmap/internal/logger"
)

var (
	version = "dev"
	verbose bool

	mappingService  driving.MappingService
	catalogService  driving.CatalogService
	settingsService driving.SettingsService
	serviceLog      *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fieldmap",
	Short: "Map commerce catalog entities onto content item fields",
	Long: `fieldmap turns commerce catalog entity documents into the flat field
records of content items.

Import a catalog snapshot once, then map items by content id:

  fieldmap import catalog.json
  fieldmap map {ITEM-ID} --template {TEMPLATE-ID}`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if verbose {
			return serviceLog.SetLevel("debug")
		}
		return nil
	},
}

// Services holds the driving ports the commands call.
type Services struct {
	Mapping  driving.MappingService
	Catalog  driving.CatalogService
	Settings driving.SettingsService

	// Log is the logger the services write to. --verbose lowers it to
	// debug. MCP requests log here too, or to the verbose logger when nil.
	Log *logger.Logger
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostics to stderr")
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	mappingService = s.Mapping
	catalogService = s.Catalog
	settingsService = s.Settings
	serviceLog = s.Log
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
