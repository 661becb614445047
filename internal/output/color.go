// Package output renders inventory reports: styled text, module tables,
// coverage bars, and trend indicators.
package output

import "github.com/charmbracelet/lipgloss"

// Report palette. Success/warning/error double as the coverage bands:
// healthy coverage is green, shallow coverage amber, collapsed coverage red.
var (
	ColorPrimary = lipgloss.Color("#64b5f6")
	ColorSuccess = lipgloss.Color("#66bb6a")
	ColorWarning = lipgloss.Color("#fff59d")
	ColorError   = lipgloss.Color("#ef5350")
	ColorMuted   = lipgloss.Color("#888888")
	ColorWhite   = lipgloss.Color("#ffffff")
)

// Coverage bands for styling: at or above CoverageHealthy renders as
// success, at or above CoverageShallow as warning, below as error.
const (
	CoverageHealthy = 70
	CoverageShallow = 40
)

// labelWidth and valueWidth align the metric columns of the scan summary.
const (
	labelWidth = 24
	valueWidth = 12
)

// Styles used across the report renderers. Reassigned wholesale by
// SetNoColor, so take them by value at render time, not at init.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style
	StyleLabel   lipgloss.Style
	StyleValue   lipgloss.Style
)

func init() {
	applyStyles(true)
}

// applyStyles rebuilds the package styles with or without color. Widths
// survive either way so tables keep their alignment in plain output.
func applyStyles(color bool) {
	base := lipgloss.NewStyle()
	if color {
		StyleHeader = base.Foreground(ColorPrimary).Bold(true)
		StyleSuccess = base.Foreground(ColorSuccess)
		StyleError = base.Foreground(ColorError)
		StyleWarning = base.Foreground(ColorWarning)
		StyleMuted = base.Foreground(ColorMuted)
		StyleBold = base.Bold(true)
	} else {
		StyleHeader = base
		StyleSuccess = base
		StyleError = base
		StyleWarning = base
		StyleMuted = base
		StyleBold = base
	}
	StyleLabel = StyleMuted.Width(labelWidth)
	StyleValue = StyleBold.Width(valueWidth)
}

// CoverageStyle returns the style for a 0-100 coverage percentage
// according to the coverage bands.
func CoverageStyle(coverage float64) lipgloss.Style {
	switch {
	case coverage >= CoverageHealthy:
		return StyleSuccess
	case coverage >= CoverageShallow:
		return StyleWarning
	default:
		return StyleError
	}
}

// PriorityStyle returns the style for a recommendation priority name.
// Critical and high render as errors, medium as a warning, everything
// else muted.
func PriorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "critical", "high":
		return StyleError
	case "medium":
		return StyleWarning
	default:
		return StyleMuted
	}
}

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or restores color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(!disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}
