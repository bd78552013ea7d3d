package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/evdash/pkg/chargermap"
	"github.com/matzehuels/evdash/pkg/stations"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleIconOK    = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo  = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner   = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconOK.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed detail line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// distributionTable renders the per-type counts with a swatch in each
// type's chart color.
func distributionTable(counts []chargermap.Count) string {
	rows := make([][]string, 0, len(counts))
	total := 0
	for _, c := range counts {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
		rows = append(rows, []string{swatch, c.Label, c.Key, strconv.Itoa(c.Count)})
		total += c.Count
	}
	rows = append(rows, []string{"", "Total", "", strconv.Itoa(total)})

	return newTable("", "Charger", "Key", "Markers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case row == len(rows)-1:
				return lipgloss.NewStyle().Bold(true)
			case col == 3:
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// stationTable renders up to limit stations.
func stationTable(list []stations.Station, limit int) string {
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	rows := make([][]string, 0, limit)
	for _, s := range list[:limit] {
		loc := s.City
		if s.State != "" {
			loc += ", " + s.State
		}
		rows = append(rows, []string{
			strconv.Itoa(s.ID), s.Name, loc, s.Network,
			fmt.Sprintf("%d/%d/%d", s.Level1, s.Level2, s.DCFast),
		})
	}
	return newTable("ID", "Station", "Location", "Network", "L1/L2/DC").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 || col == 4 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
