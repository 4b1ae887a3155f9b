package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/fieldmap/internal/core/domain"
)

// Output formats.
const (
	formatAuto  = ""
	formatTable = "table"
	formatJSON  = "json"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	statusStyles = map[domain.MapStatus]lipgloss.Style{
		domain.StatusMapped:        lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		domain.StatusNotApplicable: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		domain.StatusFailed:        lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
)

// isTerminal returns true if w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveFormat picks table output for terminals and JSON otherwise,
// unless a format was requested.
func resolveFormat(cmd *cobra.Command, requested string) (string, error) {
	switch requested {
	case formatTable, formatJSON:
		return requested, nil
	case formatAuto:
		if isTerminal(cmd.OutOrStdout()) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (use table or json)", domain.ErrInvalidInput, requested)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printColumns prints rows aligned under header. Every column but the
// last is padded to its widest cell.
func printColumns(cmd *cobra.Command, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	render := func(row []string) string {
		cells := make([]string, len(row))
		for i, c := range row {
			if i < len(row)-1 {
				c = lipgloss.NewStyle().Width(widths[i] + 2).Render(c)
			}
			cells[i] = c
		}
		return strings.Join(cells, "")
	}

	cmd.Println(headerStyle.Render(render(header)))
	for _, row := range rows {
		cmd.Println(render(row))
	}
}
