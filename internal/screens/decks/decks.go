// Package decks holds the deck list and deck detail screens.
package decks

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/router"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/screens/apikey"
	"github.com/abhisek/flashmaster/internal/screens/history"
	"github.com/abhisek/flashmaster/internal/screens/study"
	"github.com/abhisek/flashmaster/internal/ui/components"
	"github.com/abhisek/flashmaster/internal/ui/layout"
	"github.com/abhisek/flashmaster/internal/ui/theme"
)

const nameLimit = 80

// ListScreen is the home screen: every deck, most recent first.
type ListScreen struct {
	svc study.Services
	now func() time.Time

	decks []deck.Deck
	menu  components.Menu

	adding     bool
	input      components.TextInput
	confirmDel bool
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)
var _ screen.Resumer = (*ListScreen)(nil)

// NewList creates the deck list screen.
func NewList(svc study.Services, now func() time.Time) *ListScreen {
	if now == nil {
		now = time.Now
	}
	s := &ListScreen{svc: svc, now: now}
	s.refresh()
	return s
}

// refresh rebuilds the deck menu from the store, keeping the cursor in
// range.
func (s *ListScreen) refresh() {
	s.decks = s.svc.State.State().Decks

	items := make([]components.MenuItem, len(s.decks))
	for i, d := range s.decks {
		id := d.ID
		items[i] = components.MenuItem{
			Label: fmt.Sprintf("%-30s %3d cards", d.Name, len(d.Cards)),
			Action: func() tea.Cmd {
				scr := NewDeck(s.svc, id)
				return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
			},
		}
	}
	selected := min(s.menu.Selected, max(len(items)-1, 0))
	s.menu = components.NewMenu(items)
	s.menu.Selected = selected
}

func (s *ListScreen) current() (deck.Deck, bool) {
	if len(s.decks) == 0 {
		return deck.Deck{}, false
	}
	return s.decks[s.menu.Selected], true
}

func (s *ListScreen) Init() tea.Cmd { return nil }

// Resume reloads the decks, which may have changed on a screen above.
func (s *ListScreen) Resume() tea.Cmd {
	s.refresh()
	return nil
}

func (s *ListScreen) Title() string { return "Decks" }

func (s *ListScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.adding:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Create"},
			{Key: "Esc", Description: "Cancel"},
		}
	case s.confirmDel:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "A", Description: "New deck"},
		{Key: "X", Description: "Delete"},
		{Key: "P", Description: "Progress"},
		{Key: "S", Description: "API key"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.adding {
		return s.updateAdding(msg)
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.confirmDel {
		if d, ok := s.current(); ok && (key == "y" || key == "Y") {
			s.svc.State.DeleteDeck(d.ID)
			s.refresh()
		}
		s.confirmDel = false
		return s, nil
	}

	switch key {
	case "up", "k", "down", "j", "enter":
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	case "a", "A":
		s.adding = true
		s.input = components.NewTextInput("Deck name", "e.g. Spanish verbs", nameLimit)
		return s, s.input.Init()
	case "x", "X":
		s.confirmDel = len(s.decks) > 0
	case "p", "P":
		h := history.New(s.svc.State, s.now())
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: h} }
	case "s", "S":
		k := apikey.New(s.svc.State)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: k} }
	case "q", "Q":
		return s, tea.Quit
	}
	return s, nil
}

func (s *ListScreen) updateAdding(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			s.adding = false
			return s, nil
		case "enter":
			if name := s.input.Value(); name != "" {
				s.svc.State.AddDeck(name)
				s.menu.Selected = 0
				s.refresh()
			}
			s.adding = false
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ListScreen) View(width, height int) string {
	var b strings.Builder
	keyStatus := "API key: not set (press S)"
	if s.svc.State.HasAPIKey() {
		keyStatus = "API key ✓"
	}
	b.WriteString(layout.Centered(keyStatus, width, theme.Hint))
	b.WriteString("\n\n")

	if len(s.decks) == 0 {
		b.WriteString(layout.Centered("No decks yet. Press A to create one.", width, theme.Hint))
		b.WriteString("\n\n")
	}

	if len(s.decks) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
		b.WriteString("\n")
	}

	switch {
	case s.adding:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	case s.confirmDel:
		d, _ := s.current()
		msg := fmt.Sprintf("Delete %q? Test history is kept. [Y/N]", d.Name)
		b.WriteString(layout.Centered(msg, width, theme.Incorrect))
	}
	return b.String()
}
