package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/msalah0e/strainscope/internal/lineage"
	"github.com/msalah0e/strainscope/internal/scene"
)

type styles struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	selected lipgloss.Style
	result   lipgloss.Style
	status   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#81c784")),
		subtle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7a90")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(scene.Highlight)),
		result:   lipgloss.NewStyle().Foreground(lipgloss.Color(scene.LabelColor)),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#a0aec0")).Italic(true),
	}
}

// View renders the header, the search field, the result list, the scene,
// the type legend and the status line.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	for _, line := range m.resultLines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	_, vp := m.sceneArea()
	b.WriteString(scene.Raster(m.frame(), m.cam, vp))
	b.WriteByte('\n')
	b.WriteString(m.legend())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) header() string {
	g := m.ctrl.Graph()
	bounds := g.Bounds()
	title := m.styles.title.Render("🌿 strainscope")
	info := m.styles.subtle.Render(fmt.Sprintf("  %d strains · %d links · %d–%d",
		g.Len(), len(g.Connections), bounds.MinYear, bounds.MaxYear))
	return title + info
}

// resultLines lists the first matches while a query is typed.
func (m Model) resultLines() []string {
	if m.ctrl.SearchText() == "" {
		return nil
	}
	results := m.ctrl.Results()
	focused, ok := m.ctrl.Focused()
	if len(results) == 0 {
		if ok && focused.Name == m.ctrl.SearchText() {
			return nil
		}
		return []string{m.styles.subtle.Render("  no matching strains")}
	}

	var lines []string
	for i, n := range results {
		if i == maxResults {
			lines = append(lines, m.styles.subtle.Render(fmt.Sprintf("  … %d more", len(results)-maxResults)))
			break
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(scene.TypeColor(n.Type))).Render("●")
		label := fmt.Sprintf("%s (%d)", n.Name, n.Year)
		if focused != nil && focused.ID == n.ID {
			lines = append(lines, "▸ "+dot+" "+m.styles.selected.Render(label))
			continue
		}
		lines = append(lines, "  "+dot+" "+m.styles.result.Render(label))
	}
	return lines
}

func (m Model) legend() string {
	parts := make([]string, 0, len(lineage.Types))
	for _, t := range lineage.Types {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(scene.TypeColor(t))).Render("●")
		parts = append(parts, dot+" "+m.styles.subtle.Render(string(t)))
	}
	return strings.Join(parts, "   ")
}

func (m Model) statusLine() string {
	if n, ok := m.ctrl.Focused(); ok {
		lin := len(m.ctrl.HighlightSet()) - 1
		return m.styles.status.Render(fmt.Sprintf("%s · %d · %s · %d ancestors   esc clears · ←/→ cycle",
			n.Name, n.Year, n.Type, lin))
	}
	if m.autoRotating() {
		return m.styles.status.Render("click a strain or type to search · ctrl+arrows orbit · pgup/pgdn zoom")
	}
	return m.styles.status.Render("ctrl+arrows orbit · pgup/pgdn zoom")
}
