package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/llm"
)

// Purpose labels quiz-generation requests in the LLM event log.
const Purpose = "quiz-gen"

// errNoQuestions is recorded when a model answers but nothing usable can be
// parsed from its reply.
var errNoQuestions = errors.New("AI returned JSON that could not be parsed into MCQs")

// Result is the outcome of Generate. Questions is never nil.
type Result struct {
	Questions []Question
	Source    Source

	// Model is the model that produced AI questions. Empty for fallback.
	Model string

	// Notice is set when an AI attempt was made and failed, so the caller
	// can tell the user fallback questions are in use. It is empty when no
	// credential was configured.
	Notice string
}

// Generator produces quizzes for decks.
type Generator struct {
	factory llm.Factory
	cfg     llm.Config
	log     *slog.Logger
}

// NewGenerator returns a Generator that builds one provider per model of
// cfg's cascade with factory.
func NewGenerator(factory llm.Factory, cfg llm.Config, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{factory: factory, cfg: cfg, log: log}
}

// Generate returns up to MaxQuestions questions for d. With an empty
// apiKey it goes straight to Fallback. Otherwise it tries each model in
// order and returns the first non-empty parse. If every model fails, the
// fallback quiz is returned with a Notice describing the last failure.
// Generate never returns an error.
func (g *Generator) Generate(ctx context.Context, d deck.Deck, apiKey string) Result {
	if apiKey == "" {
		return Result{Questions: Fallback(d), Source: SourceFallback}
	}

	req := llm.Request{
		System:      SystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(d)}},
		JSONObject:  true,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}
	ctx = llm.WithDeck(llm.WithPurpose(ctx, Purpose), d.ID)

	var (
		lastErr error
		lastRaw string
	)
	for _, model := range g.cfg.ModelList() {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		resp, err := g.attempt(ctx, apiKey, model, req)
		if err != nil {
			g.log.Warn("quiz model failed", "model", model, "deck_id", d.ID, "error", err)
			lastErr = err
			continue
		}
		lastRaw = resp.Text()

		qs := ParseQuestions(lastRaw)
		if len(qs) > 0 {
			g.log.Info("quiz generated", "model", model, "deck_id", d.ID, "questions", len(qs))
			return Result{Questions: qs, Source: SourceAI, Model: model}
		}
		lastErr = errNoQuestions
		if resp.StopReason == llm.StopMaxTokens {
			lastErr = &llm.ErrMaxTokensExceeded{Content: resp.Content}
		}
		g.log.Warn("quiz model returned no usable questions", "model", model, "deck_id", d.ID, "error", lastErr)
	}

	res := Result{Questions: Fallback(d), Source: SourceFallback}
	if lastErr != nil {
		res.Notice = fmt.Sprintf("%v. Raw: %s", lastErr, truncate(lastRaw, 200))
	}
	return res
}

// attempt runs a single model under the per-attempt timeout.
func (g *Generator) attempt(ctx context.Context, apiKey, model string, req llm.Request) (*llm.Response, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	p, err := g.factory(ctx, apiKey, model)
	if err != nil {
		return nil, err
	}
	return p.Generate(ctx, req)
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
