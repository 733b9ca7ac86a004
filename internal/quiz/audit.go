package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/store"
)

// AttemptKeyPrefix starts the storage key of every quiz attempt record.
const AttemptKeyPrefix = "@flashmaster_quiz_"

// AttemptKey returns the storage key for the attempt on deckID that ended
// at endedAt.
func AttemptKey(deckID string, endedAt deck.Millis) string {
	return fmt.Sprintf("%s%s_%d", AttemptKeyPrefix, deckID, endedAt)
}

// AnswerItem is one answered question of an attempt.
type AnswerItem struct {
	Question     string   `json:"question"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
	ChosenIndex  int      `json:"chosenIndex"`
	IsCorrect    bool     `json:"isCorrect"`
}

// Attempt is the audit record of one finished quiz.
type Attempt struct {
	Type     string       `json:"type"`
	DeckID   string       `json:"deckId"`
	DeckName string       `json:"deckName"`
	Total    int          `json:"total"`
	Score    int          `json:"score"`
	EndedAt  deck.Millis  `json:"endedAt"`
	Source   Source       `json:"source"`
	Items    []AnswerItem `json:"items"`
}

// Auditor writes attempt records. Records are write-once and never read
// back by the app.
type Auditor struct {
	kv  store.KV
	log *slog.Logger
}

// NewAuditor returns an Auditor writing to kv.
func NewAuditor(kv store.KV, log *slog.Logger) *Auditor {
	if log == nil {
		log = slog.Default()
	}
	return &Auditor{kv: kv, log: log}
}

// Record stores a. Failures are logged and otherwise ignored.
func (a *Auditor) Record(ctx context.Context, at Attempt) {
	at.Type = "quiz"
	if at.Items == nil {
		at.Items = []AnswerItem{}
	}
	b, err := json.Marshal(at)
	if err != nil {
		a.log.Warn("encode quiz attempt failed", "deck_id", at.DeckID, "error", err)
		return
	}
	key := AttemptKey(at.DeckID, at.EndedAt)
	if err := a.kv.Set(ctx, key, string(b)); err != nil {
		a.log.Warn("write quiz attempt failed", "key", key, "error", err)
	}
}
