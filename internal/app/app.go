package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/router"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/ui/layout"
)

// CoinSource reports the current coin balance for the header.
type CoinSource func() int

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	coins  CoinSource
	width  int
	height int
}

// NewAppModel creates an AppModel showing initial.
func NewAppModel(initial screen.Screen, coins CoinSource) AppModel {
	return AppModel{
		router: router.New(initial),
		coins:  coins,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if hp, ok := active.(screen.KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	coins := 0
	if m.coins != nil {
		coins = m.coins()
	}
	header := layout.RenderHeader(title, coins, m.width)
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program on initial and disposes every screen
// when it exits.
func (r *Runtime) Run(initial screen.Screen) error {
	m := NewAppModel(initial, func() int { return r.State.State().Coins })
	defer m.router.DisposeAll()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		r.Log.Error("program exited", "error", err)
		return err
	}
	return nil
}
