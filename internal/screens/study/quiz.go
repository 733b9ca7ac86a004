package study

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/quiz"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/session"
	"github.com/abhisek/flashmaster/internal/ui/components"
	"github.com/abhisek/flashmaster/internal/ui/layout"
	"github.com/abhisek/flashmaster/internal/ui/theme"
)

// QuizScreen generates a multiple-choice quiz in the background and runs
// it. Results for a request that was abandoned, because the screen was
// left or a new request started, are dropped.
type QuizScreen struct {
	svc  Services
	deck deck.Deck

	gen      int
	cancel   context.CancelFunc
	loading  bool
	frame    int
	disposed bool

	quiz        *session.Quiz
	mc          components.MultiChoice
	notice      string
	source      quiz.Source
	feedback    bool
	answered    int
	confirmQuit bool
	lastCoins   int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Disposer = (*QuizScreen)(nil)

// NewQuiz creates a quiz screen for d.
func NewQuiz(svc Services, d deck.Deck) *QuizScreen {
	return &QuizScreen{svc: svc, deck: d}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.generate()
}

// generate starts a new generation request, abandoning any in flight.
func (s *QuizScreen) generate() tea.Cmd {
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.loading = true
	s.frame = 0

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	gen, d, key, g := s.gen, s.deck, s.svc.apiKey(), s.svc.Generator
	return tea.Batch(
		func() tea.Msg {
			return quizReadyMsg{gen: gen, result: g.Generate(ctx, d, key)}
		},
		spinnerTick(gen),
	)
}

// Dispose abandons any generation in flight.
func (s *QuizScreen) Dispose() {
	s.disposed = true
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *QuizScreen) Title() string { return s.deck.Name + " - Quiz" }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.loading:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	case s.quiz == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.quiz.Phase() == session.PhaseFinished:
		return []layout.KeyHint{
			{Key: "R", Description: "Retake"},
			{Key: "Enter", Description: "Back to deck"},
		}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.feedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Select"},
		{Key: "Esc", Description: "Exit quiz"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		return s.handleReady(msg)

	case spinnerTickMsg:
		if !s.loading || msg.gen != s.gen {
			return s, nil
		}
		s.frame = (s.frame + 1) % len(spinnerFrames)
		return s, spinnerTick(msg.gen)

	case feedbackDoneMsg:
		if s.feedback && msg.index == s.answered {
			s.advance()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	if s.disposed || msg.gen != s.gen {
		return s, nil
	}
	s.loading = false
	s.cancel = nil
	s.notice = msg.result.Notice
	s.source = msg.result.Source

	q, err := session.NewQuiz(s.deck, msg.result, s.svc.State, s.svc.Auditor)
	if err != nil {
		return s, nil
	}
	s.quiz = q
	s.showQuestion()
	return s, nil
}

func (s *QuizScreen) showQuestion() {
	q := s.quiz.Question(s.quiz.Current())
	s.mc = components.NewMultiChoice(q.Question, q.Choices, q.CorrectIndex)
	s.feedback = false
}

// advance moves past the feedback of the current question.
func (s *QuizScreen) advance() {
	s.feedback = false
	if s.quiz.Phase() == session.PhaseFinished {
		return
	}
	s.showQuestion()
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.loading {
		if key == "esc" {
			s.Dispose()
			return s, popScreen
		}
		return s, nil
	}
	if s.quiz == nil {
		if key == "esc" || key == "enter" {
			return s, popScreen
		}
		return s, nil
	}

	if s.quiz.Phase() == session.PhaseFinished && !s.feedback {
		switch key {
		case "r", "R":
			s.quiz.Retake()
			s.lastCoins = 0
			s.showQuestion()
		case "enter", "esc":
			return s, popScreen
		}
		return s, nil
	}

	if s.feedback {
		s.advance()
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.quiz.Exit(context.Background())
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	if !s.mc.Submitted {
		return s, cmd
	}

	index := s.quiz.Current()
	out, err := s.quiz.Choose(context.Background(), index, s.mc.ChosenIndex)
	if err != nil {
		return s, cmd
	}
	s.lastCoins = out.Coins
	s.feedback = true
	s.answered = index
	return s, tea.Batch(cmd, feedbackTick(index))
}

func (s *QuizScreen) View(width, height int) string {
	if s.loading {
		return renderMessage(width, spinnerFrames[s.frame]+" Generating quiz...", dim())
	}
	if s.quiz == nil {
		return renderMessage(width, "Add cards to start a quiz.", dim())
	}
	if r, ok := s.quiz.Result(); ok && !s.feedback {
		return s.noticeLine(width) + renderSummary(s.deck.Name, r, width)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.noticeLine(width))
	b.WriteString(renderStatus(s.quiz.Engine, width))
	b.WriteString("\n\n")

	box := theme.Card.Width(min(width-8, 70)).Render(s.mc.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
	b.WriteString("\n\n")

	if s.feedback {
		if s.mc.IsCorrect() {
			line := "Correct!"
			if s.lastCoins > 0 {
				line += fmt.Sprintf("  +%d ◆", s.lastCoins)
			}
			b.WriteString(layout.Centered(line, width, theme.Correct))
		} else {
			b.WriteString(layout.Centered("Not quite", width, theme.Incorrect))
		}
	}
	return b.String()
}

func (s *QuizScreen) noticeLine(width int) string {
	switch {
	case s.notice != "":
		return layout.Centered("AI unavailable, using fallback questions: "+s.notice, width,
			lipgloss.NewStyle().Foreground(theme.Accent)) + "\n"
	case s.source == quiz.SourceFallback:
		return layout.Centered("Using fallback questions. Set an API key for AI quizzes.", width, dim()) + "\n"
	}
	return ""
}
