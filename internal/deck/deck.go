// Package deck defines the flashcard domain: decks, cards, test results and
// the AppState aggregate that owns them.
package deck

import "time"

// Millis is a wall-clock instant in Unix milliseconds. It is the on-disk
// representation of every timestamp in AppState.
type Millis int64

// Now returns the current time as Millis.
func Now() Millis {
	return FromTime(time.Now())
}

// FromTime converts t to Millis, dropping sub-millisecond precision.
func FromTime(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Time returns m as a local time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// Flashcard is a single question/answer pair. Cards are never edited in
// place; they are only added to or deleted from their deck.
type Flashcard struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Deck owns an ordered list of cards, most recent first.
type Deck struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt Millis      `json:"createdAt"`
}

// FindCard returns the card with the given id.
func (d Deck) FindCard(id string) (Flashcard, bool) {
	for _, c := range d.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Flashcard{}, false
}

// TestResult is an immutable record of one finished study session.
// DeckID is a weak reference: the deck may have been deleted since.
type TestResult struct {
	ID         string `json:"id"`
	DeckID     string `json:"deckId"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	BestStreak int    `json:"bestStreak"`
	Correct    int    `json:"correct"`
	Wrong      int    `json:"wrong"`
	EndedAt    Millis `json:"endedAt"`
}

// TestResultInput is a TestResult before the store assigns its id and
// completion time.
type TestResultInput struct {
	DeckID     string
	Score      int
	Total      int
	BestStreak int
	Correct    int
	Wrong      int
}
