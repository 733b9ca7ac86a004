package study

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/router"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/session"
	"github.com/abhisek/flashmaster/internal/ui/layout"
	"github.com/abhisek/flashmaster/internal/ui/theme"
)

// FlipScreen runs a self-graded flip-card test over every card of a deck.
type FlipScreen struct {
	svc    Services
	deck   deck.Deck
	engine *session.Engine

	revealed    bool
	confirmQuit bool
	lastCoins   int
}

var _ screen.Screen = (*FlipScreen)(nil)
var _ screen.KeyHintProvider = (*FlipScreen)(nil)

// NewFlip creates a flip-card test for d. The engine is nil when the deck
// has no cards, which renders a hint instead of a test.
func NewFlip(svc Services, d deck.Deck) *FlipScreen {
	e, _ := session.New(session.ModeFlip, d.ID, len(d.Cards), svc.State)
	return &FlipScreen{svc: svc, deck: d, engine: e}
}

func (s *FlipScreen) Init() tea.Cmd { return nil }

func (s *FlipScreen) Title() string { return s.deck.Name + " - Test" }

func (s *FlipScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.engine == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.engine.Phase() == session.PhaseFinished:
		return []layout.KeyHint{
			{Key: "R", Description: "Retake"},
			{Key: "Enter", Description: "Back to deck"},
		}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End test"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "Y/→", Description: "Got it"},
		{Key: "N/←", Description: "Missed"},
		{Key: "Esc", Description: "Exit test"},
	}
}

func (s *FlipScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.engine == nil {
		if key == "esc" || key == "enter" {
			return s, popScreen
		}
		return s, nil
	}

	if s.engine.Phase() == session.PhaseFinished {
		switch key {
		case "r", "R":
			s.engine.Retake()
			s.revealed = false
			s.lastCoins = 0
		case "enter", "esc":
			return s, popScreen
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.engine.Exit()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
	case "space", " ", "enter":
		s.revealed = !s.revealed
	case "y", "Y", "right", "l":
		s.answer(true)
	case "n", "N", "left", "h":
		s.answer(false)
	}
	return s, nil
}

func (s *FlipScreen) answer(correct bool) {
	out, err := s.engine.Answer(s.engine.Current(), correct)
	if err != nil {
		return
	}
	s.lastCoins = out.Coins
	s.revealed = false
}

func (s *FlipScreen) View(width, height int) string {
	if s.engine == nil {
		return renderMessage(width, "Add cards to start a test.", dim())
	}
	if r, ok := s.engine.Result(); ok {
		return renderSummary(s.deck.Name, r, width)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	card := s.deck.Cards[s.engine.Current()]

	var b strings.Builder
	b.WriteString(renderStatus(s.engine, width))
	b.WriteString("\n\n")

	face, style, side := card.Question, theme.Card, "Question"
	if s.revealed {
		face, style, side = card.Answer, theme.CardBack, "Answer"
	}
	box := style.Width(min(width-8, 60)).Align(lipgloss.Center).Render(
		dim().Render(side) + "\n\n" + theme.Body.Bold(true).Render(face))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
	b.WriteString("\n\n")

	if s.lastCoins > 0 {
		b.WriteString(layout.Centered(fmt.Sprintf("+%d ◆", s.lastCoins), width, theme.Coins))
		b.WriteString("\n")
	}
	left := session.MaxWrongFlip - s.engine.Counters().Wrong
	b.WriteString(layout.Centered(fmt.Sprintf("%d misses left", left), width, dim()))
	return b.String()
}

func popScreen() tea.Msg { return router.PopScreenMsg{} }
