package appstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func seqIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() func() time.Time {
	t := time.UnixMilli(1700000000000)
	return func() time.Time { return t }
}

func newTestStore(t *testing.T, kv store.KV) *Store {
	t.Helper()
	s := Load(context.Background(), kv, WithLogger(quietLog), WithIDFunc(seqIDs()), WithClock(fixedClock()))
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

// persisted closes s and decodes what ended up in mem.
func persisted(t *testing.T, s *Store, mem *store.Memory) deck.AppState {
	t.Helper()
	require.NoError(t, s.Close(context.Background()))
	raw, ok := mem.Value(StorageKey)
	require.True(t, ok, "state was never persisted")
	var st deck.AppState
	require.NoError(t, json.Unmarshal([]byte(raw), &st))
	return st
}

func TestLoad_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *store.Memory)
	}{
		{"absent", func(m *store.Memory) {}},
		{"corrupt", func(m *store.Memory) { m.Set(context.Background(), StorageKey, "{not json") }},
		{"read error", func(m *store.Memory) { m.GetErr = errors.New("disk gone") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := store.NewMemory()
			tt.setup(mem)
			s := newTestStore(t, mem)
			assert.Equal(t, deck.Empty(), s.State())
		})
	}
}

func TestLoad_Existing(t *testing.T) {
	mem := store.NewMemory()
	raw := `{"decks":[{"id":"d1","name":"Go","cards":null,"createdAt":5}],"coins":4,"testHistory":[],"openaiApiKey":"k","theme":"dark"}`
	require.NoError(t, mem.Set(context.Background(), StorageKey, raw))

	s := newTestStore(t, mem)
	st := s.State()
	assert.Equal(t, 4, st.Coins)
	assert.Equal(t, "k", st.OpenAIAPIKey)
	require.Len(t, st.Decks, 1)
	assert.NotNil(t, st.Decks[0].Cards)
}

func TestAddDeck(t *testing.T) {
	mem := store.NewMemory()
	s := newTestStore(t, mem)

	s.AddDeck("  First ")
	st := s.AddDeck("Second")

	require.Len(t, st.Decks, 2)
	assert.Equal(t, "Second", st.Decks[0].Name, "most recent first")
	assert.Equal(t, "First", st.Decks[1].Name, "name is trimmed")
	assert.Equal(t, deck.Millis(1700000000000), st.Decks[1].CreatedAt)
	assert.Empty(t, st.Decks[1].Cards)

	got := persisted(t, s, mem)
	assert.Equal(t, st, got)
}

func TestAddDeck_BlankIsNoop(t *testing.T) {
	mem := store.NewMemory()
	s := newTestStore(t, mem)

	before := s.State()
	s.AddDeck("")
	s.AddDeck("   ")
	assert.Equal(t, before.Decks, s.State().Decks)

	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, 0, mem.Sets(), "no-op mutations are not persisted")
}

func TestDeleteDeck_KeepsHistory(t *testing.T) {
	s := newTestStore(t, store.NewMemory())

	st := s.AddDeck("Doomed")
	id := st.Decks[0].ID
	s.RecordTest(deck.TestResultInput{DeckID: id, Score: 50, Total: 2, Correct: 1, Wrong: 1, BestStreak: 1})

	st = s.DeleteDeck(id)
	assert.Empty(t, st.Decks)
	require.Len(t, st.TestHistory, 1)
	assert.Equal(t, id, st.TestHistory[0].DeckID)

	_, err := s.Deck(id)
	assert.ErrorIs(t, err, ErrDeckNotFound)

	// Unknown id is a no-op.
	assert.Equal(t, st, s.DeleteDeck("missing"))
}

func TestAddCard(t *testing.T) {
	s := newTestStore(t, store.NewMemory())
	d := s.AddDeck("Capitals").Decks[0]

	s.AddCard(d.ID, " France? ", " Paris ")
	st := s.AddCard(d.ID, "Spain?", "Madrid")

	got, err := s.Deck(d.ID)
	require.NoError(t, err)
	require.Len(t, got.Cards, 2)
	assert.Equal(t, "Spain?", got.Cards[0].Question)
	assert.Equal(t, deck.Flashcard{ID: got.Cards[1].ID, Question: "France?", Answer: "Paris"}, got.Cards[1])

	assert.Equal(t, st, s.AddCard(d.ID, "", "x"), "blank question")
	assert.Equal(t, st, s.AddCard(d.ID, "x", "  "), "blank answer")
	assert.Equal(t, st, s.AddCard("missing", "x", "y"), "unknown deck")
}

func TestAddThenDeleteCard_RestoresCards(t *testing.T) {
	s := newTestStore(t, store.NewMemory())
	d := s.AddDeck("Deck").Decks[0]
	s.AddCard(d.ID, "a", "1")
	s.AddCard(d.ID, "b", "2")

	before, err := s.Deck(d.ID)
	require.NoError(t, err)

	s.AddCard(d.ID, "c", "3")
	added, err := s.Deck(d.ID)
	require.NoError(t, err)
	s.DeleteCard(d.ID, added.Cards[0].ID)

	after, err := s.Deck(d.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Cards, after.Cards)

	// Wrong deck or unknown card is a no-op.
	st := s.State()
	assert.Equal(t, st, s.DeleteCard("missing", after.Cards[0].ID))
	assert.Equal(t, st, s.DeleteCard(d.ID, "missing"))
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s := newTestStore(t, store.NewMemory())
	d := s.AddDeck("Deck").Decks[0]
	s.AddCard(d.ID, "a", "1")

	snap := s.State()
	s.AddCard(d.ID, "b", "2")
	s.AddDeck("Other")

	require.Len(t, snap.Decks, 1)
	assert.Len(t, snap.Decks[0].Cards, 1)
}

func TestRecordTest(t *testing.T) {
	s := newTestStore(t, store.NewMemory())

	r1 := s.RecordTest(deck.TestResultInput{DeckID: "d", Score: 100, Total: 1, Correct: 1, BestStreak: 1})
	r2 := s.RecordTest(deck.TestResultInput{DeckID: "d", Score: 0, Total: 1, Wrong: 1})

	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Equal(t, deck.Millis(1700000000000), r1.EndedAt)

	h := s.State().TestHistory
	require.Len(t, h, 2)
	assert.Equal(t, r2, h[0])
	assert.Equal(t, r1, h[1])
}

func TestAddCoins_NeverNegative(t *testing.T) {
	s := newTestStore(t, store.NewMemory())

	assert.Equal(t, 3, s.AddCoins(3).Coins)
	assert.Equal(t, 0, s.AddCoins(-10).Coins)
	assert.Equal(t, 0, s.AddCoins(-1).Coins)
	assert.Equal(t, 2, s.AddCoins(2).Coins)
}

func TestAddCoins_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newTestStore(t, store.NewMemory())
	for i := 0; i < 500; i++ {
		st := s.AddCoins(rng.Intn(21) - 10)
		if st.Coins < 0 {
			t.Fatalf("coins went negative after %d mutations: %d", i, st.Coins)
		}
	}
}

func TestSetAPIKey(t *testing.T) {
	s := newTestStore(t, store.NewMemory())

	assert.False(t, s.HasAPIKey())
	s.SetAPIKey("  sk-or-123 ")
	assert.True(t, s.HasAPIKey())
	assert.Equal(t, "sk-or-123", s.State().OpenAIAPIKey)

	s.SetAPIKey("")
	assert.False(t, s.HasAPIKey())
}

func TestPersist_RoundTripThroughLoad(t *testing.T) {
	mem := store.NewMemory()
	s := Load(context.Background(), mem, WithLogger(quietLog))
	d := s.AddDeck("Deck").Decks[0]
	s.AddCard(d.ID, "q", "a")
	s.AddCoins(5)
	s.SetAPIKey("key")
	s.RecordTest(deck.TestResultInput{DeckID: d.ID, Score: 100, Total: 1, Correct: 1, BestStreak: 1})
	want := s.State()
	require.NoError(t, s.Close(context.Background()))

	reloaded := Load(context.Background(), mem, WithLogger(quietLog))
	defer reloaded.Close(context.Background())
	assert.Equal(t, want, reloaded.State())
}

func TestPersist_FailureKeepsMemoryAuthoritative(t *testing.T) {
	mem := store.NewMemory()
	mem.SetErr = errors.New("disk full")
	s := newTestStore(t, mem)

	st := s.AddDeck("Still here")
	require.NoError(t, s.Close(context.Background()))

	assert.Len(t, st.Decks, 1)
	assert.Len(t, s.State().Decks, 1)
	_, ok := mem.Value(StorageKey)
	assert.False(t, ok)
}

func TestPersist_CoalescesToLatest(t *testing.T) {
	mem := store.NewMemory()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var once sync.Once
	mem.OnSet = func(key, value string) error {
		once.Do(func() {
			started <- struct{}{}
			<-release
		})
		return nil
	}
	s := newTestStore(t, mem)

	s.AddCoins(1)
	<-started // writer is blocked on the first snapshot

	for i := 0; i < 50; i++ {
		s.AddCoins(1)
	}
	close(release)

	got := persisted(t, s, mem)
	assert.Equal(t, 51, got.Coins)
	assert.LessOrEqual(t, mem.Sets(), 3, "superseded snapshots are dropped")
}

func TestMutationsDoNotBlockOnStorage(t *testing.T) {
	mem := store.NewMemory()
	block := make(chan struct{})
	mem.OnSet = func(key, value string) error {
		<-block
		return nil
	}
	s := newTestStore(t, mem)
	defer close(block)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.AddCoins(1)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("mutations blocked on a stalled storage write")
	}
	assert.Equal(t, 100, s.State().Coins)
}

func TestClose_RespectsContext(t *testing.T) {
	mem := store.NewMemory()
	block := make(chan struct{})
	mem.OnSet = func(key, value string) error {
		<-block
		return nil
	}
	s := Load(context.Background(), mem, WithLogger(quietLog))
	defer close(block)
	s.AddCoins(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Close(ctx), context.DeadlineExceeded)
}

func TestMutateAfterClose(t *testing.T) {
	mem := store.NewMemory()
	s := newTestStore(t, mem)
	require.NoError(t, s.Close(context.Background()))
	require.NoError(t, s.Close(context.Background()), "close is idempotent")

	st := s.AddCoins(2)
	assert.Equal(t, 2, st.Coins)
	assert.Equal(t, 0, mem.Sets())
}
