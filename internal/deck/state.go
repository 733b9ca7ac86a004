package deck

import "github.com/google/uuid"

// AppState is the single root aggregate. Every deck, card and test result
// is reachable only through it.
//
// Values are treated as immutable once published: mutations build a new
// AppState with fresh slices instead of editing these in place.
type AppState struct {
	Decks       []Deck       `json:"decks"`
	Coins       int          `json:"coins"`
	TestHistory []TestResult `json:"testHistory"`

	// OpenAIAPIKey is the credential for quiz generation. Empty means unset.
	OpenAIAPIKey string `json:"openaiApiKey,omitempty"`
}

// Empty returns the default state used when nothing has been persisted yet.
func Empty() AppState {
	return AppState{
		Decks:       []Deck{},
		Coins:       0,
		TestHistory: []TestResult{},
	}
}

// FindDeck returns the deck with the given id.
func (s AppState) FindDeck(id string) (Deck, bool) {
	for _, d := range s.Decks {
		if d.ID == id {
			return d, true
		}
	}
	return Deck{}, false
}

// HistoryForDeck returns the test results recorded against deckID, most
// recent first.
func (s AppState) HistoryForDeck(deckID string) []TestResult {
	var out []TestResult
	for _, r := range s.TestHistory {
		if r.DeckID == deckID {
			out = append(out, r)
		}
	}
	return out
}

// HasAPIKey reports whether a quiz-generation credential is configured.
func (s AppState) HasAPIKey() bool {
	return s.OpenAIAPIKey != ""
}

// NewID returns a fresh identifier for a deck, card or test result.
// UUIDv7 combines a millisecond timestamp with random bits.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
