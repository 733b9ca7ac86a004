// Package apikey holds the screen that saves the quiz-generation key.
package apikey

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/appstate"
	"github.com/abhisek/flashmaster/internal/router"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/ui/components"
	"github.com/abhisek/flashmaster/internal/ui/layout"
	"github.com/abhisek/flashmaster/internal/ui/theme"
)

const keyLimit = 200

// KeyScreen edits the API key kept in the app state. Saving a blank key
// clears it.
type KeyScreen struct {
	state *appstate.Store
	input components.TextInput
	done  bool
}

var _ screen.Screen = (*KeyScreen)(nil)
var _ screen.KeyHintProvider = (*KeyScreen)(nil)

// New creates a KeyScreen pre-filled with the saved key.
func New(state *appstate.Store) *KeyScreen {
	in := components.NewTextInput("Key", "sk-or-...", keyLimit)
	in.Model.EchoMode = textinput.EchoPassword
	in.Model.EchoCharacter = '•'
	in.Model.SetValue(state.State().OpenAIAPIKey)
	return &KeyScreen{state: state, input: in}
}

func (s *KeyScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *KeyScreen) Title() string { return "API Key" }

func (s *KeyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *KeyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, s.close()
		case "enter":
			s.state.SetAPIKey(s.input.Value())
			return s, s.close()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *KeyScreen) close() tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *KeyScreen) View(width, height int) string {
	status := "No key saved. Quizzes use fallback questions."
	if k := s.state.State().OpenAIAPIKey; k != "" {
		status = "Saved key " + Mask(k)
	}

	sections := []string{
		theme.Title.Render("OpenRouter API Key"),
		"",
		theme.Hint.Render(status),
		"",
		s.input.View(),
		"",
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("Leave empty and press Enter to remove the key."),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

// Mask hides all but the last four characters of k.
func Mask(k string) string {
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", 8) + k[len(k)-4:]
}
