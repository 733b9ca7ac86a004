// Package appstate owns the single in-memory AppState. Every mutation
// produces a new immutable snapshot, publishes it atomically, and queues the
// whole tree for an asynchronous write to durable storage.
package appstate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/store"
)

// StorageKey is the fixed key the serialized AppState is stored under.
const StorageKey = "@flashmaster_state_v1"

// ErrDeckNotFound is returned by Deck when no deck has the requested id.
var ErrDeckNotFound = errors.New("deck not found")

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides the clock used to stamp decks and test results.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides id generation.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// Store is the sole mutation path for AppState.
//
// Readers never block: State returns the latest published snapshot.
// Mutations are serialized by mu and never wait on storage. A single
// background writer persists the most recent snapshot; snapshots that are
// superseded before the writer picks them up are dropped.
type Store struct {
	kv    store.KV
	log   *slog.Logger
	now   func() time.Time
	newID func() string

	state atomic.Pointer[deck.AppState]

	mu      sync.Mutex
	closed  bool
	pending chan deck.AppState
	done    chan struct{}
}

// Load reads the persisted state from kv and starts the background writer.
// A missing key, a read failure, or undecodable data all yield deck.Empty.
// The returned Store is fully hydrated: no caller can observe a state from
// before the load.
func Load(ctx context.Context, kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		log:     slog.Default(),
		now:     time.Now,
		newID:   deck.NewID,
		pending: make(chan deck.AppState, 1),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}

	st := s.read(ctx)
	s.state.Store(&st)

	go s.writer()
	return s
}

func (s *Store) read(ctx context.Context) deck.AppState {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.log.Warn("load state failed, starting empty", "error", err)
		return deck.Empty()
	}
	if !ok {
		return deck.Empty()
	}

	var st deck.AppState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.log.Warn("decode state failed, starting empty", "error", err)
		return deck.Empty()
	}
	if st.Decks == nil {
		st.Decks = []deck.Deck{}
	}
	if st.TestHistory == nil {
		st.TestHistory = []deck.TestResult{}
	}
	for i := range st.Decks {
		if st.Decks[i].Cards == nil {
			st.Decks[i].Cards = []deck.Flashcard{}
		}
	}
	if st.Coins < 0 {
		st.Coins = 0
	}
	return st
}

// State returns the current snapshot. The returned value must be treated
// as read-only.
func (s *Store) State() deck.AppState {
	return *s.state.Load()
}

// Deck returns the deck with the given id.
func (s *Store) Deck(id string) (deck.Deck, error) {
	d, ok := s.State().FindDeck(id)
	if !ok {
		return deck.Deck{}, ErrDeckNotFound
	}
	return d, nil
}

// HasAPIKey reports whether a quiz-generation credential is set.
func (s *Store) HasAPIKey() bool {
	return s.State().HasAPIKey()
}

// update applies fn to the current state under the mutation lock. When fn
// reports a change, the new state is published and queued for persistence.
func (s *Store) update(fn func(cur deck.AppState) (deck.AppState, bool)) deck.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(*s.state.Load())
	if !changed {
		return *s.state.Load()
	}
	s.state.Store(&next)

	if s.closed {
		s.log.Warn("state changed after close, not persisted")
		return next
	}
	s.enqueue(next)
	return next
}

// enqueue hands st to the writer, replacing any snapshot it has not
// started on yet. Callers hold mu, so there is only ever one sender.
func (s *Store) enqueue(st deck.AppState) {
	select {
	case s.pending <- st:
		return
	default:
	}
	select {
	case <-s.pending:
	default:
	}
	s.pending <- st
}

func (s *Store) writer() {
	defer close(s.done)
	for st := range s.pending {
		s.persist(st)
	}
}

func (s *Store) persist(st deck.AppState) {
	b, err := json.Marshal(st)
	if err != nil {
		s.log.Error("encode state failed", "error", err)
		return
	}
	// The write outlives any caller context; Close bounds how long shutdown
	// waits for it.
	if err := s.kv.Set(context.Background(), StorageKey, string(b)); err != nil {
		s.log.Warn("persist state failed", "error", err)
	}
}

// Close stops accepting persistence work and waits until the last queued
// snapshot is written or ctx is done. Mutations after Close still update
// the in-memory state but are not persisted.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.pending)
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddDeck prepends a new empty deck. A blank name is ignored.
func (s *Store) AddDeck(name string) deck.AppState {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.State()
	}
	return s.update(func(cur deck.AppState) (deck.AppState, bool) {
		d := deck.Deck{
			ID:        s.newID(),
			Name:      name,
			Cards:     []deck.Flashcard{},
			CreatedAt: deck.FromTime(s.now()),
		}
		cur.Decks = prepend(d, cur.Decks)
		return cur, true
	})
}

// DeleteDeck removes the deck with id and all its cards. Test history that
// refers to the deck is kept.
func (s *Store) DeleteDeck(id string) deck.AppState {
	return s.update(func(cur deck.AppState) (deck.AppState, bool) {
		decks := make([]deck.Deck, 0, len(cur.Decks))
		for _, d := range cur.Decks {
			if d.ID != id {
				decks = append(decks, d)
			}
		}
		if len(decks) == len(cur.Decks) {
			return cur, false
		}
		cur.Decks = decks
		return cur, true
	})
}

// AddCard prepends a card to the deck with deckID. Blank text or an
// unknown deck is ignored.
func (s *Store) AddCard(deckID, question, answer string) deck.AppState {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return s.State()
	}
	return s.update(func(cur deck.AppState) (deck.AppState, bool) {
		return replaceDeck(cur, deckID, func(d deck.Deck) (deck.Deck, bool) {
			c := deck.Flashcard{ID: s.newID(), Question: question, Answer: answer}
			d.Cards = prepend(c, d.Cards)
			return d, true
		})
	})
}

// DeleteCard removes cardID from the deck with deckID if it is there.
func (s *Store) DeleteCard(deckID, cardID string) deck.AppState {
	return s.update(func(cur deck.AppState) (deck.AppState, bool) {
		return replaceDeck(cur, deckID, func(d deck.Deck) (deck.Deck, bool) {
			cards := make([]deck.Flashcard, 0, len(d.Cards))
			for _, c := range d.Cards {
				if c.ID != cardID {
					cards = append(cards, c)
				}
			}
			if len(cards) == len(d.Cards) {
				return d, false
			}
			d.Cards = cards
			return d, true
		})
	})
}

// RecordTest stamps in with a fresh id and the current time and prepends
// it to the test history. It returns the recorded result.
func (s *Store) RecordTest(in deck.TestResultInput) deck.TestResult {
	r := deck.TestResult{
		ID:         s.newID(),
		DeckID:     in.DeckID,
		Score:      in.Score,
		Total:      in.Total,
		BestStreak: in.BestStreak,
		Correct:    in.Correct,
		Wrong:      in.Wrong,
		EndedAt:    deck.FromTime(s.now()),
	}
	s.update(func(cur deck.AppState) (deck.AppState, bool) {
		cur.TestHistory = prepend(r, cur.TestHistory)
		return cur, true
	})
	return r
}

// AddCoins adds amount, which may be negative, to the coin balance. The
// balance never drops below zero.
func (s *Store) AddCoins(amount int) deck.AppState {
	return s.update(func(cur deck.AppState) (deck.AppState, bool) {
		next := max(cur.Coins+amount, 0)
		if next == cur.Coins {
			return cur, false
		}
		cur.Coins = next
		return cur, true
	})
}

// SetAPIKey replaces the quiz-generation credential. A blank key clears it.
func (s *Store) SetAPIKey(key string) deck.AppState {
	key = strings.TrimSpace(key)
	return s.update(func(cur deck.AppState) (deck.AppState, bool) {
		if cur.OpenAIAPIKey == key {
			return cur, false
		}
		cur.OpenAIAPIKey = key
		return cur, true
	})
}

// replaceDeck rebuilds cur with fn applied to the deck with id. The decks
// slice is copied so published snapshots are never modified.
func replaceDeck(cur deck.AppState, id string, fn func(deck.Deck) (deck.Deck, bool)) (deck.AppState, bool) {
	for i, d := range cur.Decks {
		if d.ID != id {
			continue
		}
		next, changed := fn(d)
		if !changed {
			return cur, false
		}
		decks := make([]deck.Deck, len(cur.Decks))
		copy(decks, cur.Decks)
		decks[i] = next
		cur.Decks = decks
		return cur, true
	}
	return cur, false
}

// prepend returns a new slice with v followed by xs.
func prepend[T any](v T, xs []T) []T {
	out := make([]T, 0, len(xs)+1)
	out = append(out, v)
	return append(out, xs...)
}
