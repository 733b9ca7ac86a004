package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/flashmaster/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	log       *slog.Logger
}

// WithLogging wraps a Provider with event logging. provider names the API
// the request went to, such as "openrouter".
func WithLogging(p Provider, provider string, repo store.EventRepo, log *slog.Logger) Provider {
	if log == nil {
		log = slog.Default()
	}
	return &LoggingProvider{inner: p, provider: provider, eventRepo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.log.Debug("llm request",
		"provider", data.Provider,
		"model", data.Model,
		"purpose", purpose,
		"deck_id", DeckFrom(ctx),
		"latency_ms", latencyMs,
		"success", data.Success,
	)

	// Log the event but don't fail the request if logging fails. The
	// request context may already be cancelled, so the append gets its own.
	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if logErr := l.eventRepo.AppendLLMRequest(appendCtx, data); logErr != nil {
		l.log.Warn("failed to log LLM request event", "model", data.Model, "error", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.JSONObject {
		b.WriteString("[response_format: json_object]\n")
	}

	return b.String()
}
