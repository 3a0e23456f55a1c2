// Package ui renders CLI output: status lines, result tables and rewrite reports.
package ui

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cast"

	"github.com/satishbabariya/pdo-go/query/placeholder"
	"github.com/satishbabariya/pdo-go/runtime/types"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	// NullColor marks SQL NULL in result tables.
	NullColor = color.New(color.FgHiBlack, color.Italic)
)

// PrintHeader prints a boxed title
func PrintHeader(title string, subtitle string) {
	header := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				TitleStyle.Render(title),
				SecondaryStyle.Render(subtitle),
			),
		)

	fmt.Println(header)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	fmt.Println(SuccessStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Println(WarningStyle.Render("⚠ " + fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	fmt.Println(InfoStyle.Render("ℹ " + fmt.Sprintf(format, args...)))
}

// FormatValue renders one fetched value for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return NullColor.Sprint("NULL")
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case time.Time:
		return x.Format(types.TimeLayout)
	case types.Decimal:
		return x.String()
	default:
		return cast.ToString(x)
	}
}

// RenderTable renders rows under a header line.
func RenderTable(columns []string, rows [][]any) (string, error) {
	data := pterm.TableData{columns}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatValue(v)
		}
		data = append(data, cells)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// PrintTable prints rows as a table followed by a row count.
func PrintTable(columns []string, rows [][]any) error {
	out, err := RenderTable(columns, rows)
	if err != nil {
		return err
	}
	fmt.Println(out)
	fmt.Println(SecondaryStyle.Render(fmt.Sprintf("(%d rows)", len(rows))))
	return nil
}

// RewriteReport describes a rewritten template as markdown.
func RewriteReport(dialect string, cmd *placeholder.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Rewrite (%s)\n\n", dialect)
	fmt.Fprintf(&b, "**Mode:** %s  \n**Slots:** %d\n\n", cmd.Mode, cmd.SlotCount())
	fmt.Fprintf(&b, "```sql\n%s\n```\n\n", cmd.SQL)
	if cmd.SlotCount() == 0 {
		return b.String()
	}

	b.WriteString("| # | Slot | Parameter | Uses |\n|---|---|---|---|\n")
	for i, slot := range cmd.Slots {
		param := cmd.ParameterName(slot)
		if param == "" {
			param = fmt.Sprintf("position %d", i+1)
		}
		uses := 0
		for _, o := range cmd.Occurrences {
			if o == slot {
				uses++
			}
		}
		fmt.Fprintf(&b, "| %d | `%s` | `%s` | %d |\n", i+1, slot, param, uses)
	}
	return b.String()
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	out, err := RenderMarkdown(content)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
