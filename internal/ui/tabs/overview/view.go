package overview

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/ai-footprint-tui/internal/impact"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
	"github.com/j-veylop/ai-footprint-tui/internal/services/tracker"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/components"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/styles"
)

// NotActive is shown in place of a site name while no tracked site is focused.
const NotActive = "Not active"

const (
	chartHeight    = 8
	minChartHeight = 3

	// sideBySideMinCard is the narrowest card that still fits the impact rows.
	sideBySideMinCard = 40
)

// View renders the overview tab within the size set by SetSize.
func (m *Model) View() string {
	if !m.state.HasSnapshot() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	st := m.state.Snapshot()

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderCards(st),
	)

	sections := []string{header}
	if m.showChart {
		avail := m.height - lipgloss.Height(header) - styles.DocStyle.GetVerticalFrameSize()
		if trend := m.renderTrend(avail); trend != "" {
			sections = append(sections, trend)
		}
	}

	doc := styles.DocStyle.Width(m.width)
	if m.height > 0 {
		doc = doc.MaxHeight(m.height)
	}
	return doc.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderCards lays the session and impact cards side by side when the width allows.
func (m *Model) renderCards(st models.State) string {
	contentWidth := m.width - styles.DocStyle.GetHorizontalFrameSize()
	half := (contentWidth-1)/2 - styles.CardStyle.GetHorizontalBorderSize()

	if half >= sideBySideMinCard {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderSessionCard(st.CurrentSession, half),
			" ",
			m.renderImpactCard(st, half),
		)
	}

	width := styles.CardWidth(m.width)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderSessionCard(st.CurrentSession, width),
		m.renderImpactCard(st, width),
	)
}

// renderTrend returns the largest trend card that fits in avail lines, or "".
func (m *Model) renderTrend(avail int) string {
	full := m.renderChartCard(chartHeight)
	if m.height <= 0 || lipgloss.Height(full) <= avail {
		return full
	}
	if card := m.renderChartCard(minChartHeight); lipgloss.Height(card) <= avail {
		return card
	}
	if card := m.renderSparklineCard(); lipgloss.Height(card) <= avail {
		return card
	}
	return ""
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("AI Footprint")
	subtitle := styles.HelpStyle.Render("Time on AI chat sites and its estimated impact")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderSessionCard(s models.Session, width int) string {
	rows := []string{styles.CardTitleStyle.Render("Current Session")}

	if s.Active {
		rows = append(rows,
			renderRow("Site", styles.ActiveSessionStyle.Render(s.SiteName)),
			renderRow("Host", s.Host),
			renderRow("Session", impact.FormatDuration(s.ElapsedMs)),
			renderRow("Badge", styles.BadgeStyle.Render(m.badgeText(s))),
		)
	} else {
		rows = append(rows,
			renderRow("Site", styles.IdleSessionStyle.Render(NotActive)),
			renderRow("Session", impact.FormatDuration(0)),
		)
	}

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// badgeText prefers the live badge and falls back to the persisted session.
func (m *Model) badgeText(s models.Session) string {
	if b := m.state.Badge(); b.Text != "" {
		return b.Text
	}
	return tracker.BadgeText(s.ElapsedMs)
}

func (m *Model) renderImpactCard(st models.State, width int) string {
	est := impact.Calculate(st.CumulativeMs)

	rows := []string{
		styles.CardTitleStyle.Render("Total Usage"),
		renderRow("Total time", impact.FormatDurationLong(st.CumulativeMs)),
		renderRow("CO₂", lipgloss.NewStyle().Foreground(styles.CO2).Render(fmt.Sprintf("%.2f g", est.CO2Grams))),
		renderRow("Water", lipgloss.NewStyle().Foreground(styles.Water).Render(fmt.Sprintf("%.1f ml", est.WaterMl))),
		renderRow("Energy", lipgloss.NewStyle().Foreground(styles.Energy).Render(fmt.Sprintf("%.2f Wh", est.EnergyWh))),
		"",
	}

	percent, remaining := components.MilestoneProgress(st.CumulativeMs, st.ReminderStepMs)
	rows = append(rows,
		m.shareBar.View(percent, "Next reminder", width-4),
		styles.HelpStyle.Render(fmt.Sprintf("in %s of tracked time", impact.FormatDuration(remaining))),
	)

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderChartCard(height int) string {
	width := styles.CardWidth(m.width)
	samples := m.state.Samples()

	chart := components.RenderLineChart(samples, width-16, height, "cumulative minutes, this view")

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Usage Trend"),
			chart,
		),
	)
}

func (m *Model) renderSparklineCard() string {
	width := styles.CardWidth(m.width)

	line := components.RenderSparkline(m.state.Samples(), width-4)
	if line == "" {
		line = styles.HelpStyle.Render("No data available")
	}

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Usage Trend"),
			lipgloss.NewStyle().Foreground(styles.Primary).Render(line),
		),
	)
}

func renderRow(label, value string) string {
	return styles.LabelStyle.Render(label+":") + " " + styles.ValueStyle.Render(value)
}
