package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/flashmaster/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptKey(t *testing.T) {
	assert.Equal(t, "@flashmaster_quiz_deck-1_1700000000123", AttemptKey("deck-1", 1700000000123))
}

func TestAuditor_Record(t *testing.T) {
	mem := store.NewMemory()
	a := NewAuditor(mem, quietLog)

	a.Record(context.Background(), Attempt{
		DeckID:   "d1",
		DeckName: "Capitals",
		Total:    2,
		Score:    50,
		EndedAt:  1700000000000,
		Source:   SourceFallback,
		Items: []AnswerItem{
			{Question: "Q0", Choices: []string{"A0", "Not sure", "Another option", "None of the above"}, CorrectIndex: 0, ChosenIndex: 0, IsCorrect: true},
			{Question: "Q1", Choices: []string{"A1", "Not sure", "Another option", "None of the above"}, CorrectIndex: 0, ChosenIndex: 2},
		},
	})

	raw, ok := mem.Value("@flashmaster_quiz_d1_1700000000000")
	require.True(t, ok)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, "quiz", got["type"])
	assert.Equal(t, "d1", got["deckId"])
	assert.Equal(t, "Capitals", got["deckName"])
	assert.Equal(t, float64(50), got["score"])
	assert.Equal(t, float64(1700000000000), got["endedAt"])
	items := got["items"].([]any)
	require.Len(t, items, 2)
	second := items[1].(map[string]any)
	assert.Equal(t, float64(2), second["chosenIndex"])
	assert.Equal(t, false, second["isCorrect"])
}

func TestAuditor_WriteFailureIsSwallowed(t *testing.T) {
	mem := store.NewMemory()
	mem.SetErr = errors.New("quota exceeded")
	a := NewAuditor(mem, quietLog)

	assert.NotPanics(t, func() {
		a.Record(context.Background(), Attempt{DeckID: "d1", EndedAt: 1})
	})
	assert.Equal(t, 0, mem.Sets())
}
