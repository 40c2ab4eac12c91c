package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazychanges/internal/models"
	"github.com/chmouel/lazychanges/internal/tree"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const footerHelp = "j/k: navigate • Enter: expand/collapse • z: flatten/nest subtree • Z: toggle default mode • f: filter • /: search • r: refresh • q: quit"

// View renders the tree pane.
func (m *Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(m.thm.Accent).
		Bold(true).
		Padding(0, 1)
	statsStyle := lipgloss.NewStyle().
		Foreground(m.thm.MutedFg).
		Padding(0, 1)
	footerStyle := lipgloss.NewStyle().
		Foreground(m.thm.MutedFg).
		Padding(0, 1)

	sections := []string{titleStyle.Render("lazychanges")}

	if m.showingFilter || m.showingSearch {
		inputStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(m.thm.TextFg)
		sections = append(sections, inputStyle.Render(m.filterInput.View()))
	}

	sections = append(sections, statsStyle.Render(m.statsLine()))
	sections = append(sections, m.renderRows())
	sections = append(sections, m.renderStatus())
	sections = append(sections, footerStyle.Render(wordwrap.String(footerHelp, max(20, m.width-2))))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) statsLine() string {
	total := 0
	for _, root := range m.forest {
		total += root.CountFiles()
	}
	line := fmt.Sprintf("%d files", total)
	if m.filter.FilterQuery != "" {
		line = fmt.Sprintf("%d/%d files (filtered)", total, len(m.view.Records()))
	}
	return line
}

func (m *Model) renderRows() string {
	if len(m.rows) == 0 {
		empty := lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(m.thm.MutedFg).
			Italic(true)
		if !m.loaded {
			return empty.Render("Loading changes...")
		}
		return empty.Render("No changed files.")
	}

	page := m.pageSize()
	end := min(m.scroll+page, len(m.rows))
	start := min(m.scroll, end)

	highlight := lipgloss.NewStyle().
		Background(m.thm.Accent).
		Foreground(m.thm.AccentFg).
		Bold(true)
	rootStyle := lipgloss.NewStyle().Foreground(m.thm.Accent).Bold(true)
	dirStyle := lipgloss.NewStyle().Foreground(m.thm.Accent)
	fileStyle := lipgloss.NewStyle().Foreground(m.thm.TextFg)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := m.rows[i]
		selected := i == m.cursor
		line := m.renderRow(r, selected, highlight, rootStyle, dirStyle, fileStyle)
		lines = append(lines, truncate.String(" "+line, uint(max(20, m.width-1)))) //nolint:gosec
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(r row, selected bool, highlight, rootStyle, dirStyle, fileStyle lipgloss.Style) string {
	indent := strings.Repeat("  ", r.depth)

	if r.node.IsRoot {
		label := r.node.Label
		if m.cfg.ShowIcons {
			label = iconWithSpace(iconRoot) + label
		}
		if selected {
			return indent + highlight.Render(label)
		}
		return indent + rootStyle.Render(label)
	}

	name := rowName(r)
	if r.node.IsDir() {
		indicator := disclosureIndicator(m.collapsed[r.node], m.cfg.ShowIcons)
		label := r.node.Label
		if m.cfg.ShowIcons {
			label = iconWithSpace(deviconForName(name, true)) + label
		}
		if selected {
			return fmt.Sprintf("%s%s %s/", indent, indicator, highlight.Render(label))
		}
		return fmt.Sprintf("%s%s %s/", indent, indicator, dirStyle.Render(label))
	}

	label := r.node.Label
	if m.cfg.ShowIcons {
		label = iconWithSpace(deviconForName(name, false)) + label
	}
	glyph := ""
	if r.node.File != nil {
		glyph = models.StatusGlyph(r.node.File.Status)
	}
	if glyph != "" {
		glyph = " " + m.statusStyle(r.node.File.Status).Render(glyph)
	}
	if selected {
		return fmt.Sprintf("%s  %s%s", indent, highlight.Render(label), glyph)
	}
	return fmt.Sprintf("%s  %s%s", indent, fileStyle.Render(label), glyph)
}

func (m *Model) statusStyle(status string) lipgloss.Style {
	switch status {
	case models.StatusAdded:
		return lipgloss.NewStyle().Foreground(m.thm.SuccessFg)
	case models.StatusDeleted:
		return lipgloss.NewStyle().Foreground(m.thm.ErrorFg)
	case models.StatusModified:
		return lipgloss.NewStyle().Foreground(m.thm.WarnFg)
	default:
		return lipgloss.NewStyle().Foreground(m.thm.MutedFg)
	}
}

func (m *Model) renderStatus() string {
	style := lipgloss.NewStyle().Padding(0, 1).Foreground(m.thm.MutedFg)
	switch m.sev {
	case "error":
		style = style.Foreground(m.thm.ErrorFg)
	case "warning":
		style = style.Foreground(m.thm.WarnFg)
	}
	if m.status == "" {
		return style.Render(" ")
	}
	return style.Render(truncate.String(m.status, uint(max(20, m.width-2)))) //nolint:gosec
}

// Roots exposes the current forest roots; hosts traverse them with
// tree.Node.Children.
func (m *Model) Roots() []*tree.Node {
	return m.forest
}
