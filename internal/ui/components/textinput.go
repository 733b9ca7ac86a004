package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and the app styling.
type TextInput struct {
	Model textinput.Model
	Label string
}

// NewTextInput creates a new focused text input. A zero limit means no
// character limit.
func NewTextInput(label, placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if limit > 0 {
		ti.CharLimit = limit
	}

	return TextInput{Model: ti, Label: label}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and the input.
func (t TextInput) View() string {
	label := ""
	if t.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label+": ")
	}
	return label + t.Model.View()
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}
