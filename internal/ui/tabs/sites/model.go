// Package sites provides the per-site usage breakdown tab.
package sites

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/ai-footprint-tui/internal/app"
	"github.com/j-veylop/ai-footprint-tui/internal/impact"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/styles"
)

// Namer resolves a tracked host to its display name.
type Namer interface {
	Name(host string) (string, bool)
}

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Bars key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Bars: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle bars"),
		),
	}
}

// Row is one line of the breakdown.
type Row struct {
	Name    string
	Host    string
	Ms      int64
	Percent float64
	Impact  impact.Estimate
}

// Model represents the sites tab state.
type Model struct {
	state    *app.State
	namer    Namer
	table    table.Model
	width    int
	height   int
	keys     keyMap
	showBars bool
}

// New creates a new sites model.
func New(state *app.State, namer Namer) *Model {
	columns := []table.Column{
		{Title: "Site", Width: 20},
		{Title: "Host", Width: 24},
		{Title: "Time", Width: 12},
		{Title: "Share", Width: 7},
		{Title: "CO₂", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state:    state,
		namer:    namer,
		table:    t,
		keys:     defaultKeyMap(),
		showBars: true,
	}
}

// Init initializes the sites tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sites tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Bars) {
			m.showBars = !m.showBars
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case app.StateLoadedMsg:
		m.updateTableData()
	}

	return m, nil
}

// Rows returns the breakdown sorted by descending time.
func (m *Model) Rows() []Row {
	st := m.state.Snapshot()
	hosts := st.SortedHosts()

	rows := make([]Row, 0, len(hosts))
	for _, h := range hosts {
		rows = append(rows, Row{
			Name:    m.displayName(h),
			Host:    h.Host,
			Ms:      h.Ms,
			Percent: share(h.Ms, st.CumulativeMs),
			Impact:  impact.Calculate(h.Ms),
		})
	}
	return rows
}

func (m *Model) displayName(h models.HostUsage) string {
	if m.namer != nil {
		if name, ok := m.namer.Name(h.Host); ok {
			return name
		}
	}
	return h.Host
}

func share(ms, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(ms) * 100 / float64(total)
}

func (m *Model) updateTableData() {
	rows := m.Rows()
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row{
			r.Name,
			r.Host,
			impact.FormatDurationLong(r.Ms),
			fmt.Sprintf("%.0f%%", r.Percent),
			fmt.Sprintf("%.2f g", r.Impact.CO2Grams),
		})
	}
	m.table.SetRows(tableRows)
}

// SetSize sets the available size for the sites tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height/2, 5))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Bars}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Bars},
	}
}
