package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
)

var (
	schemaFormat   string
	describeFormat string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect template schemas",
}

var schemaShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show the fields of a template",
	Long: `Lists the fields of a template in declaration order.
Only data fields take part in generic mapping.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchemaShow,
}

var describeCmd = &cobra.Command{
	Use:   "describe <content-id>",
	Short: "Show how a content item resolves in the catalog",
	Long: `Resolves a content id to its catalog entity id. Variation items also
report the parent item and variation id.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	schemaShowCmd.Flags().StringVarP(&schemaFormat, "format", "f", formatAuto, "output format: table or json")
	describeCmd.Flags().StringVarP(&describeFormat, "format", "f", formatAuto, "output format: table or json")
	schemaCmd.AddCommand(schemaShowCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(describeCmd)
}

func runSchemaShow(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	format, err := resolveFormat(cmd, schemaFormat)
	if err != nil {
		return err
	}

	schema, err := catalogService.Schema(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	if format == formatJSON {
		return printJSON(cmd, schema)
	}

	printSchemaTable(cmd, schema)
	return nil
}

func printSchemaTable(cmd *cobra.Command, schema *domain.Schema) {
	title := schema.TemplateID
	if schema.Name != "" {
		title = fmt.Sprintf("%s (%s)", schema.Name, schema.TemplateID)
	}
	cmd.Println(headerStyle.Render(title))
	if len(schema.BaseTemplates) > 0 {
		cmd.Println(mutedStyle.Render("inherits " + strings.Join(schema.BaseTemplates, ", ")))
	}
	cmd.Println()

	rows := make([][]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		data := "no"
		if f.IsDataField {
			data = "yes"
		}
		rows = append(rows, []string{f.ID, f.Name, f.Type.String(), data})
	}
	printColumns(cmd, []string{"ID", "NAME", "TYPE", "DATA"}, rows)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	format, err := resolveFormat(cmd, describeFormat)
	if err != nil {
		return err
	}

	info, err := catalogService.Describe(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to describe %s: %w", args[0], err)
	}

	if format == formatJSON {
		return printJSON(cmd, info)
	}

	cmd.Printf("Content ID:   %s\n", info.ContentID)
	cmd.Printf("Entity ID:    %s\n", info.EntityID)
	if info.ParentID != "" {
		cmd.Printf("Parent ID:    %s\n", info.ParentID)
		cmd.Printf("Variation ID: %s\n", info.VariationID)
	}
	if info.CatalogName != "" {
		cmd.Printf("Catalog:      %s\n", info.CatalogName)
	}
	return nil
}
