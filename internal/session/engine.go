// Package session implements the scoring state machine shared by flip-card
// tests and multiple-choice quizzes.
package session

import (
	"errors"
	"math"

	"github.com/abhisek/flashmaster/internal/deck"
)

// MaxWrongFlip ends a flip-card session early once this many answers are
// wrong. Quizzes have no such limit.
const MaxWrongFlip = 3

var (
	// ErrNoItems is returned when a session is started with nothing to ask.
	ErrNoItems = errors.New("session has no items")

	// ErrAlreadyAnswered is returned when an item other than the current
	// one is answered, including a second answer to the same item.
	ErrAlreadyAnswered = errors.New("item already answered")

	// ErrFinished is returned when answering after the session has ended.
	ErrFinished = errors.New("session finished")
)

// Mode selects the termination rule.
type Mode int

const (
	ModeFlip Mode = iota // ends on exhaustion or MaxWrongFlip wrong answers
	ModeQuiz             // ends on exhaustion only
)

func (m Mode) String() string {
	switch m {
	case ModeFlip:
		return "flip"
	case ModeQuiz:
		return "quiz"
	default:
		return "unknown"
	}
}

// Phase is the engine's lifecycle state.
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseFinished
)

// Recorder receives coin awards and the final result. appstate.Store
// satisfies it.
type Recorder interface {
	AddCoins(amount int) deck.AppState
	RecordTest(in deck.TestResultInput) deck.TestResult
}

// Counters are the running tallies of a session.
type Counters struct {
	Index      int
	Correct    int
	Wrong      int
	Streak     int
	BestStreak int
}

// Outcome describes the effect of one answer.
type Outcome struct {
	Correct  bool
	Coins    int
	Finished bool

	// Result is set when this answer finished the session.
	Result *deck.TestResult
}

// Engine scores one session over a fixed number of items. It is not safe
// for concurrent use; callers drive it from a single goroutine.
type Engine struct {
	mode   Mode
	deckID string
	total  int
	rec    Recorder

	phase  Phase
	c      Counters
	result *deck.TestResult
}

// New starts a session of total items for deckID.
func New(mode Mode, deckID string, total int, rec Recorder) (*Engine, error) {
	if total <= 0 {
		return nil, ErrNoItems
	}
	return &Engine{mode: mode, deckID: deckID, total: total, rec: rec}, nil
}

// Mode returns the termination rule in effect.
func (e *Engine) Mode() Mode { return e.mode }

// Total returns the number of items in the session.
func (e *Engine) Total() int { return e.total }

// Phase returns the current lifecycle state.
func (e *Engine) Phase() Phase { return e.phase }

// Counters returns a copy of the running tallies.
func (e *Engine) Counters() Counters { return e.c }

// Current returns the index of the item awaiting an answer.
func (e *Engine) Current() int { return e.c.Index }

// Result returns the recorded result once the session has finished.
func (e *Engine) Result() (deck.TestResult, bool) {
	if e.result == nil {
		return deck.TestResult{}, false
	}
	return *e.result, true
}

// Answer scores the answer to item, which must be the current item. A
// correct answer earns one coin, or two while on a streak beyond the first
// hit; coins are awarded immediately.
func (e *Engine) Answer(item int, correct bool) (Outcome, error) {
	if e.phase == PhaseFinished {
		return Outcome{}, ErrFinished
	}
	if item != e.c.Index {
		return Outcome{}, ErrAlreadyAnswered
	}

	out := Outcome{Correct: correct}
	if correct {
		e.c.Correct++
		e.c.Streak++
		e.c.BestStreak = max(e.c.BestStreak, e.c.Streak)
		out.Coins = 1
		if e.c.Streak > 1 {
			out.Coins++
		}
		e.rec.AddCoins(out.Coins)
	} else {
		e.c.Wrong++
		e.c.Streak = 0
	}

	if e.c.Index+1 == e.total || (e.mode == ModeFlip && e.c.Wrong == MaxWrongFlip) {
		out.Finished = true
		out.Result = e.finish()
		return out, nil
	}
	e.c.Index++
	return out, nil
}

// Exit ends the session early with the current counters. It returns the
// recorded result; calling it on a finished session returns the result
// already recorded.
func (e *Engine) Exit() deck.TestResult {
	if e.phase == PhaseFinished {
		return *e.result
	}
	return *e.finish()
}

// Retake restarts the session from the beginning. Results already recorded
// are unaffected.
func (e *Engine) Retake() {
	e.phase = PhaseInProgress
	e.c = Counters{}
	e.result = nil
}

// Score returns round(100 * correct / total).
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func (e *Engine) finish() *deck.TestResult {
	e.phase = PhaseFinished
	r := e.rec.RecordTest(deck.TestResultInput{
		DeckID:     e.deckID,
		Score:      Score(e.c.Correct, e.total),
		Total:      e.total,
		BestStreak: e.c.BestStreak,
		Correct:    e.c.Correct,
		Wrong:      e.c.Wrong,
	})
	e.result = &r
	return e.result
}
