// Package ui holds the shared visual vocabulary: color tokens, icons,
// and small formatting helpers used by every view in the tool.
package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	ColorCoral   = lipgloss.Color("#FF7F6B") // coral accent for the reviewer
	ColorText    = lipgloss.Color("#E8E6F0")
	ColorTextDim = lipgloss.Color("#A8A4BC")
	ColorMuted   = lipgloss.Color("#6B6880")
	ColorWarning = lipgloss.Color("#F5C451")
	ColorError   = lipgloss.Color("#F25D6A")
	ColorSuccess = lipgloss.Color("#6BD490")
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconDiamond = "◆"
	IconWarning = "!"
	IconCheck   = "✓"
	IconPipe    = "│"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

// HintBarStyle renders the keybinding hint bar at the bottom of a view.
func HintBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// TagWarningStyle renders an inline warning tag.
func TagWarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1A1826")).
		Background(ColorWarning).
		Bold(true)
}

// ─── Formatting ──────────────────────────────────────────────────────────────

// FormatSize renders a byte count in IEC units (e.g. "1.5 GiB").
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

// FormatAge renders a modification time as a relative age ("3 months ago").
func FormatAge(t time.Time) string {
	return humanize.Time(t)
}
