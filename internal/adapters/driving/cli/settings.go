package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage mapping settings",
	Long: `View and change the mapping settings: the owning provider, the default
language, well-known template ids and the standard field ids.

Settings are stored in ~/.fieldmap/config.toml. Unset keys use defaults.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Changes a single setting. Run 'fieldmap settings keys' for the list of keys.

Examples:
  fieldmap settings set mapping.owner commerce
  fieldmap settings set log.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Mapping]")
	cmd.Printf("  Owner: %s\n", settings.Owner)
	cmd.Printf("  Default language: %s\n", settings.DefaultLanguage)
	cmd.Printf("  Security: %s\n", settings.Security)
	cmd.Println()

	cmd.Println("[Templates]")
	cmd.Printf("  Catalog folder: %s\n", settings.Templates.CatalogFolder)
	cmd.Printf("  Navigation item: %s\n", settings.Templates.NavigationItem)
	cmd.Printf("  Sellable item variant: %s\n", settings.Templates.SellableItemVariant)
	cmd.Printf("  Product variant: %s\n", settings.Templates.ProductVariant)
	cmd.Println()

	cmd.Println("[Fields]")
	cmd.Printf("  Display name: %s\n", settings.Fields.DisplayName)
	cmd.Printf("  Created: %s\n", settings.Fields.Created)
	cmd.Printf("  Updated: %s\n", settings.Fields.Updated)
	cmd.Printf("  Created by: %s\n", settings.Fields.CreatedBy)
	cmd.Printf("  Updated by: %s\n", settings.Fields.UpdatedBy)
	cmd.Printf("  Security: %s\n", settings.Fields.Security)
	cmd.Printf("  Workflow: %s\n", settings.Fields.Workflow)
	cmd.Printf("  Default workflow: %s\n", settings.Fields.DefaultWorkflow)
	cmd.Printf("  Workflow state: %s\n", settings.Fields.WorkflowState)
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Level: %s\n", settings.Log.Level)
	cmd.Printf("  Format: %s\n", settings.Log.Format)
	cmd.Println()

	cmd.Println("[Storage]")
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "~/.fieldmap/data (default)"
	}
	cmd.Printf("  Data directory: %s\n", dataDir)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'fieldmap settings set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s to: %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}
