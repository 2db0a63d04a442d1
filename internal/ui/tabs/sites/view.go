package sites

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/ai-footprint-tui/internal/impact"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/components"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/styles"
)

// EmptyMessage is shown when nothing has been tracked since the last reset.
const EmptyMessage = "No tracked usage yet."

const maxBars = 8

// View renders the sites tab.
func (m *Model) View() string {
	sections := []string{m.renderTitle()}

	rows := m.Rows()
	if len(rows) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.renderTable())
		if m.showBars {
			sections = append(sections, m.renderBars(rows))
		}
	}

	return styles.DocStyle.
		Width(m.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Sites")

	n := len(m.state.Snapshot().PerHostMs)
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d tracked sites with usage", n))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTable() string {
	m.updateTableData()
	return styles.CardStyle.Width(max(m.width-6, 60)).Render(m.table.View())
}

func (m *Model) renderEmptyState() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render(EmptyMessage),
		styles.HelpStyle.Render("Time on a tracked AI site shows up here."),
		"",
	)
	return styles.CardStyle.Width(max(m.width-6, 40)).Render(content)
}

func (m *Model) renderBars(rows []Row) string {
	rows = rows[:min(len(rows), maxBars)]

	values := make([]float64, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		values[i] = float64(r.Ms)
		labels[i] = r.Name
	}

	width := max(m.width-10, 40)
	chart := components.RenderBarChart(values, labels, width, func(v float64) string {
		return impact.FormatDuration(int64(v))
	})

	return styles.CardStyle.Width(max(m.width-6, 60)).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Time by Site"),
			chart,
		),
	)
}
