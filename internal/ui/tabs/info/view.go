package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/ai-footprint-tui/internal/impact"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/styles"
	"github.com/j-veylop/ai-footprint-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderRulesCard(),
		m.renderRatesCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if m.config != nil {
		notifications := "disabled"
		if m.config.NotificationsEnabled {
			notifications = "enabled"
		}
		rows = append(rows,
			renderRow("Database", m.config.DatabasePath),
			renderRow("Focus bridge", m.config.FocusPath),
			renderRow("Site rules", m.config.SitesPath),
			renderRow("Log file", m.config.LogPath),
			renderRow("Log level", m.config.LogLevel),
			renderRow("Tick interval", m.config.TickInterval.String()),
			renderRow("Notifications", notifications),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return m.card(rows)
}

func (m *Model) renderRulesCard() string {
	rows := []string{styles.CardTitleStyle.Render(fmt.Sprintf("Tracked Sites (%d)", len(m.rules)))}

	for _, r := range m.rules {
		host := r.Host
		if r.PathPrefix != "" {
			host += r.PathPrefix + "*"
		}
		rows = append(rows, renderRow(r.Name, host))
	}

	return m.card(rows)
}

func (m *Model) renderRatesCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("Impact Rates (per minute)"),
		renderRow("CO₂", fmt.Sprintf("%.2f g", impact.CO2GramsPerMinute)),
		renderRow("Water", fmt.Sprintf("%.1f ml", impact.WaterMlPerMinute)),
		renderRow("Energy", fmt.Sprintf("%.2f Wh", impact.EnergyWhPerMinute)),
	}
	return m.card(rows)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About AI Footprint TUI"),
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	if !m.state.LastUpdated().IsZero() {
		rows = append(rows, "", styles.HelpStyle.Render(
			"Last refreshed "+m.state.LastUpdated().Format("15:04:05"),
		))
	}

	return m.card(rows)
}

func (m *Model) card(rows []string) string {
	return styles.CardStyle.Width(styles.CardWidth(m.width)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	return styles.LabelStyle.Render(label+":") + " " + styles.ValueStyle.Render(value)
}
