package analyze

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/4ndymcfly/linuxmole/internal/ui"
)

// Short aliases for readability in render functions.
// Coral accent gives the analyzer its own visual identity.
var (
	clrDim    = ui.ColorMuted
	clrDir    = ui.ColorCoral
	clrFile   = ui.ColorText
	clrCursor = ui.ColorPrimary
)

func (m Model) renderView() string {
	if m.quitting {
		return ""
	}
	w := m.width
	if w < 40 {
		w = 40
	}

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")
	s.WriteString(m.renderBody(w))
	s.WriteString("\n")
	s.WriteString(m.renderFooter(w))
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorCoral).
		Render("  " + ui.IconDiamond + " Disk Analyzer")

	info := fmt.Sprintf("  %s    %s", m.nav.Current(), ui.FormatSize(m.levelTotal()))
	if m.diskTotal > 0 {
		info += fmt.Sprintf("    %s free of %s",
			ui.FormatSize(int64(m.diskFree)), ui.FormatSize(int64(m.diskTotal)))
	}
	pathLine := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(info)

	// Breadcrumb trail.
	crumbs := []string{m.nav.root}
	if !m.nav.AtRoot() {
		for _, p := range m.nav.stack[1:] {
			crumbs = append(crumbs, lastSegment(p))
		}
		crumbs = append(crumbs, lastSegment(m.nav.Current()))
	}
	bcStr := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render("  " + strings.Join(crumbs, " "+ui.IconChevron+" "))

	inner := lipgloss.JoinVertical(lipgloss.Left, title, pathLine, bcStr)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorCoral).
		Width(w - 2).
		Render(inner)
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 && i < len(path)-1 {
		return path[i+1:]
	}
	return path
}

// ─── Body ────────────────────────────────────────────────────────────────────

func (m Model) renderBody(w int) string {
	if m.scanning {
		return "  " + m.spin.View() + lipgloss.NewStyle().
			Foreground(ui.ColorTextDim).
			Render(fmt.Sprintf(" scanning… %d entries visited", m.scanner.Visited()))
	}
	if len(m.entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  (empty directory)")
	}

	vh := m.viewportHeight()
	barWidth := 20
	if w > 110 {
		barWidth = 30
	} else if w > 90 {
		barWidth = 25
	}

	total := m.levelTotal()
	largest := m.largestEntry()
	var lines []string

	for i := m.offset; i < len(m.entries) && i < m.offset+vh; i++ {
		lines = append(lines, m.renderEntry(i+1, m.entries[i], total, largest, barWidth, i == m.cursor))
	}

	// Scrollbar hint.
	if len(m.entries) > vh {
		pct := float64(m.offset) / float64(len(m.entries)-vh) * 100
		scrollHint := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render(fmt.Sprintf("  ── %d/%d items  (%.0f%%) ──", min(m.offset+vh, len(m.entries)), len(m.entries), pct))
		lines = append(lines, scrollHint)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderEntry(num int, e Entry, total, largest int64, barWidth int, selected bool) string {
	if e.IsParent {
		line := fmt.Sprintf("  %s %s", strings.Repeat(" ", barWidth+14),
			lipgloss.NewStyle().Foreground(clrDim).Render(ui.IconFolder+" .."))
		if selected {
			cursor := lipgloss.NewStyle().Foreground(clrCursor).Bold(true).Render(ui.IconBlock)
			line = " " + cursor + line[2:]
		}
		return line
	}

	pct := 0.0
	if total > 0 {
		pct = float64(e.Size) / float64(total) * 100
	}
	bar := ui.SizeBar(e.Size, largest, barWidth)

	icon := ui.IconBullet + " "
	if e.IsDir {
		icon = ui.IconFolder
	}

	nameColor := clrFile
	if e.IsDir {
		nameColor = clrDir
	}
	maxName := m.width - barWidth - 38
	if maxName < 12 {
		maxName = 12
	}
	name := e.Name
	if len(name) > maxName {
		name = name[:maxName-1] + "…"
	}
	nameStr := lipgloss.NewStyle().Foreground(nameColor).Bold(e.IsDir).Render(name)

	numStr := lipgloss.NewStyle().Foreground(clrDim).Render(fmt.Sprintf("%3d.", num))
	pctStr := lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(fmt.Sprintf("%5.1f%%", pct))
	sizeStr := ui.FormatSize(e.Size)

	tag := "      "
	if e.Err != nil {
		tag = ui.TagWarningStyle().Render(" err ")
	}

	line := fmt.Sprintf("  %s %s  %s  %s %s  %s  %s",
		numStr, bar, pctStr, icon, nameStr, sizeStr, tag)

	if selected {
		cursor := lipgloss.NewStyle().Foreground(clrCursor).Bold(true).Render(ui.IconBlock)
		line = " " + cursor + line[2:]
		if m.confirmDelete {
			line += lipgloss.NewStyle().
				Foreground(ui.ColorError).
				Bold(true).
				Render("  " + ui.IconWarning + " Press Enter to delete")
		}
	}

	return line
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter(w int) string {
	var parts []string

	if m.err != nil {
		parts = append(parts,
			lipgloss.NewStyle().
				Foreground(ui.ColorError).
				Render("  "+ui.IconError+" "+m.err.Error()))
	}

	if warnings := m.scanner.Warnings(); len(warnings) > 0 {
		parts = append(parts,
			"  "+ui.TagWarningStyle().Render(fmt.Sprintf(" %d unreadable ", len(warnings))))
	}

	hints := []string{
		"↑↓ nav",
		"→ drill",
		"←/⌫/esc back",
		"r rescan",
		"d delete",
		"q quit",
	}
	hintStr := strings.Join(hints, " "+ui.IconPipe+" ")
	parts = append(parts, ui.HintBarStyle().Render("  "+hintStr))

	return strings.Join(parts, "\n")
}
