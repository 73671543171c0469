// Package ui holds the shared palette, icons and render helpers used by
// every command surface (plain reports and TUIs alike).
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Coral accent on a muted base, matching the rest of the tool.
var (
	ColorPrimary   = lipgloss.Color("#7C8EF4")
	ColorSecondary = lipgloss.Color("#9B7CF4")
	ColorCoral     = lipgloss.Color("#F47C7C")
	ColorText      = lipgloss.Color("#E6E6E6")
	ColorTextDim   = lipgloss.Color("#9A9A9A")
	ColorMuted     = lipgloss.Color("#5C5C5C")
	ColorSuccess   = lipgloss.Color("#7CF4A4")
	ColorWarning   = lipgloss.Color("#F4D47C")
	ColorError     = lipgloss.Color("#F45C5C")
)

// Icons used across reports and TUIs.
const (
	IconFolder  = "▸"
	IconBullet  = "•"
	IconPipe    = "│"
	IconBlock   = "█"
	IconDiamond = "◆"
	IconChevron = "›"
	IconCheck   = "✓"
	IconCross   = "✗"
	IconArrow   = "→"
	IconWarning = "!"
	IconError   = "✗"
)

// HintBarStyle styles the footer hint line of a TUI.
func HintBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorTextDim)
}

// TagWarningStyle styles small inline warning tags.
func TagWarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
}

var (
	sectionStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(ColorSuccess)
	doStyle      = lipgloss.NewStyle().Foreground(ColorCoral)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	errStyle     = lipgloss.NewStyle().Foreground(ColorError)
	dimStyle     = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// Section returns a styled section heading.
func Section(title string) string {
	return sectionStyle.Render(IconDiamond+" "+title)
}

// LineOK formats an informational "nothing to do" line.
func LineOK(msg string) string { return okStyle.Render(IconCheck) + " " + msg }

// LineDo formats an action line.
func LineDo(msg string) string { return doStyle.Render(IconArrow) + " " + msg }

// LineSkip formats a skipped-step line.
func LineSkip(msg string) string { return dimStyle.Render(IconBullet + " " + msg) }

// LineWarn formats a warning line.
func LineWarn(msg string) string { return warnStyle.Render(IconWarning) + " " + msg }

// LineErr formats an error line.
func LineErr(msg string) string { return errStyle.Render(IconError) + " " + msg }

// Dim renders text in the dim foreground.
func Dim(s string) string { return dimStyle.Render(s) }

// FormatSize renders a byte count with a single-letter binary unit,
// one decimal below 10 units, none above.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	v := float64(bytes) / float64(div)
	suffix := "KMGTPE"[exp : exp+1]
	if v < 10 {
		return fmt.Sprintf("%.1f %sB", v, suffix)
	}
	return fmt.Sprintf("%.0f %sB", v, suffix)
}

// GradientBar renders a fixed-width usage bar. pct is 0..100 and colors
// the filled region green, amber or red by severity.
func GradientBar(pct float64, width int) string {
	if width <= 0 {
		width = 10
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	color := ColorSuccess
	switch {
	case pct >= 85:
		color = ColorError
	case pct >= 65:
		color = ColorWarning
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(IconBlock, filled))
	rest := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return bar + rest
}

// SizeBar renders a bar proportional to size/max, used by the analyzer
// listing where bars are scaled against the largest entry of the level.
func SizeBar(size, max int64, width int) string {
	if width <= 0 {
		return ""
	}
	if max <= 0 {
		return strings.Repeat(" ", width)
	}
	pct := float64(size) / float64(max) * 100
	return GradientBar(pct, width)
}
