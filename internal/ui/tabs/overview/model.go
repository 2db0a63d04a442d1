// Package overview provides the session and impact summary tab.
package overview

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/ai-footprint-tui/internal/app"
	"github.com/j-veylop/ai-footprint-tui/internal/ui/components"
)

type keyMap struct {
	Chart key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Chart: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "toggle chart"),
		),
	}
}

// Model represents the overview tab state.
type Model struct {
	state     *app.State
	width     int
	height    int
	keys      keyMap
	showChart bool
	shareBar  components.ShareBar
	spinner   components.LoadingSpinner
}

// New creates a new overview model.
func New(state *app.State) *Model {
	return &Model{
		state:     state,
		keys:      defaultKeyMap(),
		showChart: true,
		shareBar:  components.NewShareBar(),
		spinner:   components.NewSpinner("Loading usage..."),
	}
}

// Init starts the loading spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the overview tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Chart) {
			m.showChart = !m.showChart
		}
	default:
		if !m.state.HasSnapshot() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Chart}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Chart}}
}
