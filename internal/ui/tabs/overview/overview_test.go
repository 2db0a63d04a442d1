package overview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/ai-footprint-tui/internal/app"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
	"github.com/j-veylop/ai-footprint-tui/internal/services/badge"
)

func newModel(st *models.State) *Model {
	state := app.NewState()
	if st != nil {
		state.SetSnapshot(*st)
	}
	m := New(state)
	m.SetSize(100, 40)
	return m
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
}

func TestModel_View_Loading(t *testing.T) {
	m := newModel(nil)
	if !strings.Contains(m.View(), "Loading usage...") {
		t.Error("View should show the spinner before the first load")
	}
}

func TestModel_View_Idle(t *testing.T) {
	st := models.DefaultState()
	view := ansi.Strip(newModel(&st).View())

	for _, want := range []string{NotActive, "0s", "0.00 g", "0.0 ml", "0.00 Wh"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}
}

func TestModel_View_ActiveSession(t *testing.T) {
	st := models.DefaultState()
	st.CumulativeMs = 1_820_000
	st.PerHostMs["claude.ai"] = 1_820_000
	st.CurrentSession = models.Session{
		Active:    true,
		Host:      "claude.ai",
		SiteName:  "Anthropic Claude",
		StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		ElapsedMs: 750_000,
	}

	view := ansi.Strip(newModel(&st).View())

	tests := []struct {
		name string
		want string
	}{
		{"site name", "Anthropic Claude"},
		{"host", "claude.ai"},
		{"session duration", "12m 30s"},
		{"badge", "12m"},
		{"total", "30m 20s"},
		{"co2", "10.62 g"},
		{"water", "257.8 ml"},
		{"energy", "5.46 Wh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(view, tt.want) {
				t.Errorf("View missing %q", tt.want)
			}
		})
	}
	if strings.Contains(view, NotActive) {
		t.Error("active session should not render as idle")
	}
}

func TestModel_View_TotalWithHours(t *testing.T) {
	st := models.DefaultState()
	st.CumulativeMs = 3_723_000
	view := ansi.Strip(newModel(&st).View())
	if !strings.Contains(view, "1h 2m 3s") {
		t.Errorf("View should keep seconds on long totals:\n%s", view)
	}
}

func TestModel_LiveBadgeWins(t *testing.T) {
	st := models.DefaultState()
	st.CurrentSession = models.Session{Active: true, Host: "poe.com", SiteName: "Poe", ElapsedMs: 60_000}

	m := newModel(&st)
	m.state.SetBadge(badge.State{Text: "4m", Color: "#1a73e8"})

	if got := m.badgeText(st.CurrentSession); got != "4m" {
		t.Errorf("badgeText = %q, want 4m", got)
	}
}

func TestModel_ToggleChart(t *testing.T) {
	st := models.DefaultState()
	m := newModel(&st)
	m.SetSize(100, 80)

	if !strings.Contains(m.View(), "Usage Trend") {
		t.Error("chart should be visible by default")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if strings.Contains(m.View(), "Usage Trend") {
		t.Error("g should hide the chart")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) != 1 || len(m.FullHelp()) != 1 {
		t.Error("overview should expose the chart toggle")
	}
}

func TestModel_View_FitsHeight(t *testing.T) {
	st := models.DefaultState()
	st.CumulativeMs = 3_723_000
	st.CurrentSession = models.Session{Active: true, Host: "claude.ai", SiteName: "Anthropic Claude", ElapsedMs: 750_000}

	tests := []struct {
		width, height int
	}{
		{100, 12},
		{100, 25},
		{100, 30},
		{100, 40},
		{60, 30},
		{160, 50},
	}

	for _, tt := range tests {
		m := newModel(&st)
		m.SetSize(tt.width, tt.height)
		if got := lipgloss.Height(m.View()); got > tt.height {
			t.Errorf("%dx%d: view is %d lines tall", tt.width, tt.height, got)
		}
	}
}

func TestModel_RenderTrend_Shrinks(t *testing.T) {
	state := app.NewState()
	for _, ms := range []int64{0, 60_000, 300_000} {
		st := models.DefaultState()
		st.CumulativeMs = ms
		state.SetSnapshot(st)
	}
	m := New(state)
	m.SetSize(100, 40)

	full := m.renderChartCard(chartHeight)
	if got := m.renderTrend(lipgloss.Height(full)); got != full {
		t.Error("full chart should be used when it fits")
	}

	spark := m.renderSparklineCard()
	got := ansi.Strip(m.renderTrend(lipgloss.Height(spark)))
	if !strings.Contains(got, "▁") || !strings.Contains(got, "█") {
		t.Errorf("expected sparkline fallback, got:\n%s", got)
	}

	if got := m.renderTrend(lipgloss.Height(spark) - 1); got != "" {
		t.Error("trend should be dropped when nothing fits")
	}
}

func TestModel_View_NoSizeRendersEverything(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(models.DefaultState())
	m := New(state)

	if !strings.Contains(m.View(), "Usage Trend") {
		t.Error("unsized view should not drop the chart")
	}
}
