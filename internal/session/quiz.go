package session

import (
	"context"
	"fmt"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/quiz"
)

// Quiz runs a multiple-choice session over generated questions. Choices are
// locked once made, and the finished attempt is written to the audit log.
type Quiz struct {
	*Engine

	deck      deck.Deck
	questions []quiz.Question
	source    quiz.Source
	answers   []quiz.AnswerItem
	auditor   *quiz.Auditor
}

// NewQuiz starts a quiz over res.Questions for d. auditor may be nil.
func NewQuiz(d deck.Deck, res quiz.Result, rec Recorder, auditor *quiz.Auditor) (*Quiz, error) {
	e, err := New(ModeQuiz, d.ID, len(res.Questions), rec)
	if err != nil {
		return nil, err
	}
	return &Quiz{
		Engine:    e,
		deck:      d,
		questions: res.Questions,
		source:    res.Source,
		auditor:   auditor,
	}, nil
}

// Question returns question i.
func (q *Quiz) Question(i int) quiz.Question {
	return q.questions[i]
}

// Questions returns all questions in order.
func (q *Quiz) Questions() []quiz.Question {
	return q.questions
}

// Answers returns the choices made so far.
func (q *Quiz) Answers() []quiz.AnswerItem {
	return q.answers
}

// Choose locks choice as the answer to question i.
func (q *Quiz) Choose(ctx context.Context, i, choice int) (Outcome, error) {
	if i < 0 || i >= len(q.questions) {
		return Outcome{}, fmt.Errorf("question %d out of range", i)
	}
	mcq := q.questions[i]
	if choice < 0 || choice >= len(mcq.Choices) {
		return Outcome{}, fmt.Errorf("choice %d out of range", choice)
	}

	correct := choice == mcq.CorrectIndex
	out, err := q.Answer(i, correct)
	if err != nil {
		return out, err
	}

	q.answers = append(q.answers, quiz.AnswerItem{
		Question:     mcq.Question,
		Choices:      mcq.Choices,
		CorrectIndex: mcq.CorrectIndex,
		ChosenIndex:  choice,
		IsCorrect:    correct,
	})
	if out.Finished {
		q.audit(ctx, *out.Result)
	}
	return out, nil
}

// Exit ends the quiz early, recording and auditing the partial attempt.
func (q *Quiz) Exit(ctx context.Context) deck.TestResult {
	finished := q.Phase() == PhaseFinished
	r := q.Engine.Exit()
	if !finished {
		q.audit(ctx, r)
	}
	return r
}

// Retake restarts the quiz with the same questions.
func (q *Quiz) Retake() {
	q.Engine.Retake()
	q.answers = nil
}

func (q *Quiz) audit(ctx context.Context, r deck.TestResult) {
	if q.auditor == nil {
		return
	}
	q.auditor.Record(ctx, quiz.Attempt{
		DeckID:   q.deck.ID,
		DeckName: q.deck.Name,
		Total:    r.Total,
		Score:    r.Score,
		EndedAt:  r.EndedAt,
		Source:   q.source,
		Items:    append([]quiz.AnswerItem(nil), q.answers...),
	})
}
