package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chonklab/antichonk/internal/ui"
)

// ─── Top-level view ──────────────────────────────────────────────────────────

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

	if !m.hasCurrent {
		s.WriteString(m.renderDone())
	} else if m.showHelp {
		s.WriteString(m.renderHelp())
	} else {
		s.WriteString(m.renderCandidate(w))
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter(w))
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorCoral).
		Render("  " + ui.IconDiamond + " antichonk")

	mode := fmt.Sprintf("by %s", m.cfg.Order)
	if m.cfg.DryRun {
		mode += "  " + ui.TagWarningStyle().Render(" dry run ")
	}
	pathLine := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(fmt.Sprintf("  %s    %s", m.cfg.Root, mode))

	status := fmt.Sprintf("  candidate %d of %d", m.sess.Position(), m.sess.Total())
	if !m.hasCurrent {
		status = fmt.Sprintf("  reviewed %d of %d candidates", m.sess.Summary().Reviewed, m.sess.Total())
	}
	if m.usage != nil {
		status += fmt.Sprintf("    volume: %s free of %s (%.1f%% used)",
			ui.FormatSize(int64(m.usage.Free)), ui.FormatSize(int64(m.usage.Total)), m.usage.UsedPercent)
	}
	statusLine := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(status)

	inner := lipgloss.JoinVertical(lipgloss.Left, title, pathLine, statusLine)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorCoral).
		Width(w - 2).
		Render(inner)
}

// ─── Candidate ───────────────────────────────────────────────────────────────

func (m Model) renderCandidate(w int) string {
	rec := m.current

	pathLine := "  " + lipgloss.NewStyle().Foreground(ui.ColorText).Bold(true).Render(rec.Path)
	metaLine := "  " + lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(
		fmt.Sprintf("%s  %s  modified %s",
			ui.FormatSize(rec.Size), ui.IconPipe, ui.FormatAge(rec.ModTime)))

	lines := []string{pathLine, metaLine, ""}

	// Tree panel, trimmed to the viewport.
	treeLines := strings.Split(strings.TrimRight(m.treeView, "\n"), "\n")
	vh := m.viewportHeight()
	if len(treeLines) > vh {
		hidden := len(treeLines) - vh
		treeLines = treeLines[:vh]
		treeLines = append(treeLines, fmt.Sprintf("… %d more lines", hidden))
	}
	treeStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	for _, line := range treeLines {
		lines = append(lines, "  "+treeStyle.Render(line))
	}

	return strings.Join(lines, "\n")
}

func (m Model) viewportHeight() int {
	h := m.height - 12 // header (5) + candidate lines (3) + footer (4)
	if h < 4 {
		h = 4
	}
	return h
}

// ─── Help ────────────────────────────────────────────────────────────────────

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"d", "delete the file"},
		{"D", "delete the directory which contains the file"},
		{"s", "skip this file and go on to the next one"},
		{"S", "skip this directory and go on to the next one"},
		{"?", "print this help menu"},
		{"q", "quit without reviewing the remaining files"},
	}

	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorCoral).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(ui.ColorText)

	lines := []string{"  Choose from one of these options:", ""}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("    %s  %s",
			keyStyle.Render(row[0]), descStyle.Render(row[1])))
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).
		Render("  Press a key to continue with the current file."))

	return strings.Join(lines, "\n")
}

// ─── Done ────────────────────────────────────────────────────────────────────

func (m Model) renderDone() string {
	sum := m.sess.Summary()

	verb := "Reclaimed"
	if m.cfg.DryRun {
		verb = "Would reclaim"
	}

	lines := []string{
		"  " + lipgloss.NewStyle().Foreground(ui.ColorSuccess).Bold(true).
			Render(ui.IconCheck+" All candidates reviewed"),
		"",
		fmt.Sprintf("  %s %s  (%d files, %d directories deleted)",
			verb, ui.FormatSize(sum.BytesReclaimed), sum.DeletedFiles, sum.DeletedDirs),
		fmt.Sprintf("  Skipped %d files, %d directories; %d dropped without review",
			sum.SkippedFiles, sum.SkippedDirs, sum.Dropped),
		"",
		lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).
			Render("  Press any key to exit."),
	}
	return strings.Join(lines, "\n")
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter(w int) string {
	var parts []string

	if m.warning != "" {
		parts = append(parts,
			lipgloss.NewStyle().
				Foreground(ui.ColorError).
				Render("  "+ui.IconWarning+" "+m.warning))
	}

	bindings := []struct{ k, d string }{
		{keys.DeleteFile.Help().Key, keys.DeleteFile.Help().Desc},
		{keys.DeleteDir.Help().Key, keys.DeleteDir.Help().Desc},
		{keys.SkipFile.Help().Key, keys.SkipFile.Help().Desc},
		{keys.SkipDir.Help().Key, keys.SkipDir.Help().Desc},
		{keys.Help.Help().Key, keys.Help.Help().Desc},
		{keys.Quit.Help().Key, keys.Quit.Help().Desc},
	}
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, b.k+" "+b.d)
	}
	parts = append(parts, ui.HintBarStyle().Render("  "+strings.Join(hints, " "+ui.IconPipe+" ")))

	return strings.Join(parts, "\n")
}
