package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
	"github.com/custodia-labs/fieldmap/internal/logger"
)

var (
	mapTemplate string
	mapVersion  int
	mapLanguage string
	mapOwner    string
	mapFormat   string
)

var mapCmd = &cobra.Command{
	Use:   "map <content-id>",
	Short: "Map a catalog item onto its template fields",
	Long: `Maps the catalog entity behind a content item onto the fields of the
item's template and prints the resulting record.

Items owned by another provider, and folder or navigation templates, are
reported as not applicable. The command fails only when an item should
have been mapped but could not be.

Examples:
  fieldmap map {ITEM-ID} --template {TEMPLATE-ID}
  fieldmap map {ITEM-ID} -t {TEMPLATE-ID} --language de --version 0 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVarP(&mapTemplate, "template", "t", "", "template id of the content item")
	mapCmd.Flags().IntVar(&mapVersion, "version", 1, "entity version (0 = latest)")
	mapCmd.Flags().StringVarP(&mapLanguage, "language", "l", "", "item language (default from settings)")
	mapCmd.Flags().StringVar(&mapOwner, "owner", "", "owning provider (default from settings)")
	mapCmd.Flags().StringVarP(&mapFormat, "format", "f", formatAuto, "output format: table or json")
	_ = mapCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(mapCmd)
}

// mapOutput is the JSON form of a mapping result.
type mapOutput struct {
	ContentID string              `json:"content_id"`
	Status    string              `json:"status"`
	Reason    string              `json:"reason,omitempty"`
	Record    *domain.FieldRecord `json:"record,omitempty"`
}

func runMap(cmd *cobra.Command, args []string) error {
	if mappingService == nil {
		return errors.New("mapping service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	format, err := resolveFormat(cmd, mapFormat)
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	item := domain.ItemDescriptor{
		ID:         args[0],
		TemplateID: mapTemplate,
		Owner:      firstNonEmpty(mapOwner, settings.Owner),
	}
	version := domain.VersionDescriptor{
		Language: firstNonEmpty(mapLanguage, settings.DefaultLanguage),
		Number:   mapVersion,
	}

	logger.Section("Map")
	log := logger.Default().With("request_id", uuid.NewString())
	log.Debug("mapping %s (template %s, %s v%d)", item.ID, item.TemplateID, version.Language, version.Number)

	result := mappingService.Map(cmd.Context(), item, version)
	log.Debug("mapping %s finished: %s", item.ID, result.Status)
	if result.Status == domain.StatusNotApplicable {
		logger.Info("%s is not mapped here: %v", item.ID, result.Err)
	}

	out := mapOutput{ContentID: item.ID, Status: result.Status.String()}
	if result.Err != nil {
		out.Reason = result.Err.Error()
	}
	if result.Status == domain.StatusMapped {
		out.Record = result.Record
	}

	if format == formatJSON {
		if err := printJSON(cmd, out); err != nil {
			return err
		}
	} else {
		printMapTable(cmd, result, out)
	}

	if result.Status == domain.StatusFailed {
		return fmt.Errorf("mapping %s failed: %w", item.ID, result.Err)
	}
	return nil
}

func printMapTable(cmd *cobra.Command, result domain.MapResult, out mapOutput) {
	status := statusStyles[result.Status].Render(out.Status)
	cmd.Printf("%s  %s\n", out.ContentID, status)
	if out.Reason != "" {
		cmd.Println(mutedStyle.Render(out.Reason))
	}
	if out.Record == nil {
		return
	}

	cmd.Println()
	rows := make([][]string, 0, out.Record.Len())
	for _, entry := range out.Record.Entries() {
		rows = append(rows, []string{entry.FieldID, entry.Value})
	}
	printColumns(cmd, []string{"FIELD", "VALUE"}, rows)
	cmd.Println()
	cmd.Println(mutedStyle.Render(fmt.Sprintf("%d fields", out.Record.Len())))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
