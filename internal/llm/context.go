package llm

import "context"

type ctxKey int

const (
	purposeCtxKey ctxKey = iota
	deckCtxKey
)

// WithPurpose labels requests made with ctx, e.g. "quiz-gen". The label is
// stored on every logged request event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeCtxKey, purpose)
}

// PurposeFrom returns the purpose label of ctx, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeCtxKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithDeck records which deck a request was made for.
func WithDeck(ctx context.Context, deckID string) context.Context {
	return context.WithValue(ctx, deckCtxKey, deckID)
}

// DeckFrom returns the deck id stored by WithDeck, or "".
func DeckFrom(ctx context.Context) string {
	v, _ := ctx.Value(deckCtxKey).(string)
	return v
}
