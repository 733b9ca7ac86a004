package decks

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/appstate"
	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/router"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/screens/study"
	"github.com/abhisek/flashmaster/internal/ui/components"
	"github.com/abhisek/flashmaster/internal/ui/layout"
	"github.com/abhisek/flashmaster/internal/ui/theme"
)

const cardLimit = 500

type inputStep int

const (
	stepNone inputStep = iota
	stepQuestion
	stepAnswer
)

// DeckScreen shows one deck's cards and starts tests and quizzes.
type DeckScreen struct {
	svc study.Services
	id  string

	deck     deck.Deck
	missing  bool
	selected int

	step     inputStep
	input    components.TextInput
	question string
}

var _ screen.Screen = (*DeckScreen)(nil)
var _ screen.KeyHintProvider = (*DeckScreen)(nil)
var _ screen.Resumer = (*DeckScreen)(nil)

// NewDeck creates the screen for deck id.
func NewDeck(svc study.Services, id string) *DeckScreen {
	s := &DeckScreen{svc: svc, id: id}
	s.refresh()
	return s
}

func (s *DeckScreen) refresh() {
	d, err := s.svc.State.Deck(s.id)
	s.missing = errors.Is(err, appstate.ErrDeckNotFound)
	s.deck = d
	s.selected = min(s.selected, max(len(d.Cards)-1, 0))
}

func (s *DeckScreen) Init() tea.Cmd { return nil }

// Resume reloads the deck after a test or quiz.
func (s *DeckScreen) Resume() tea.Cmd {
	s.refresh()
	return nil
}

func (s *DeckScreen) Title() string {
	if s.missing {
		return "Deck not found"
	}
	return s.deck.Name
}

func (s *DeckScreen) KeyHints() []layout.KeyHint {
	if s.step != stepNone {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "T", Description: "Test"},
		{Key: "Q", Description: "AI quiz"},
		{Key: "A", Description: "Add card"},
		{Key: "X", Description: "Delete card"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DeckScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.step != stepNone {
		return s.updateInput(msg)
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if s.missing {
		if kmsg.String() == "esc" {
			return s, popScreen
		}
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, popScreen
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.deck.Cards)-1 {
			s.selected++
		}
	case "t", "T":
		scr := study.NewFlip(s.svc, s.deck)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	case "q", "Q":
		if len(s.deck.Cards) == 0 {
			return s, nil
		}
		scr := study.NewQuiz(s.svc, s.deck)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	case "a", "A":
		return s, s.beginInput(stepQuestion, "Question")
	case "x", "X":
		if len(s.deck.Cards) > 0 {
			s.svc.State.DeleteCard(s.id, s.deck.Cards[s.selected].ID)
			s.refresh()
		}
	}
	return s, nil
}

func (s *DeckScreen) beginInput(step inputStep, label string) tea.Cmd {
	s.step = step
	s.input = components.NewTextInput(label, "", cardLimit)
	return s.input.Init()
}

func (s *DeckScreen) updateInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			s.step = stepNone
			return s, nil
		case "enter":
			v := s.input.Value()
			if v == "" {
				return s, nil
			}
			if s.step == stepQuestion {
				s.question = v
				return s, s.beginInput(stepAnswer, "Answer")
			}
			s.svc.State.AddCard(s.id, s.question, v)
			s.step = stepNone
			s.selected = 0
			s.refresh()
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *DeckScreen) View(width, height int) string {
	if s.missing {
		return layout.Centered("\n\n\nDeck not found", width, theme.Incorrect)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(fmt.Sprintf("%d cards", len(s.deck.Cards)), width, theme.Hint))
	b.WriteString("\n\n")

	if len(s.deck.Cards) == 0 {
		b.WriteString(layout.Centered("No cards yet. Press A to add one.", width, theme.Hint))
		b.WriteString("\n")
	}

	var list strings.Builder
	for i, c := range s.deck.Cards {
		line := fmt.Sprintf("Q: %s | A: %s", c.Question, c.Answer)
		if i == s.selected {
			list.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			list.WriteString(theme.Unselected.Render("  " + line))
		}
		list.WriteString("\n")
	}
	if list.Len() > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.String()))
		b.WriteString("\n")
	}

	if s.step != stepNone {
		if s.step == stepAnswer {
			b.WriteString(layout.Centered("Q: "+s.question, width, theme.Hint))
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	}
	return b.String()
}

func popScreen() tea.Msg { return router.PopScreenMsg{} }
