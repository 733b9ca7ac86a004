// Package study holds the screens that run flip-card tests and quizzes.
package study

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashmaster/internal/appstate"
	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/quiz"
)

// Generator produces quiz questions for a deck.
type Generator interface {
	Generate(ctx context.Context, d deck.Deck, apiKey string) quiz.Result
}

// Services are the dependencies shared by the study screens.
type Services struct {
	State     *appstate.Store
	Generator Generator
	Auditor   *quiz.Auditor

	// APIKey resolves the credential used for quiz generation. Nil or an
	// empty result selects the fallback quiz.
	APIKey func() string
}

func (s Services) apiKey() string {
	if s.APIKey == nil {
		return ""
	}
	return s.APIKey()
}

const (
	spinnerInterval = 100 * time.Millisecond
	feedbackDelay   = 700 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// quizReadyMsg carries a generated quiz. gen identifies the request so
// results for an abandoned request can be dropped.
type quizReadyMsg struct {
	gen    int
	result quiz.Result
}

// spinnerTickMsg animates the loading spinner of request gen.
type spinnerTickMsg struct {
	gen int
}

// feedbackDoneMsg ends the answer feedback for question index.
type feedbackDoneMsg struct {
	index int
}

func spinnerTick(gen int) tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{gen: gen}
	})
}

func feedbackTick(index int) tea.Cmd {
	return tea.Tick(feedbackDelay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{index: index}
	})
}
