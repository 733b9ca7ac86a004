package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/flashmaster/internal/appstate"
	"github.com/abhisek/flashmaster/internal/config"
	"github.com/abhisek/flashmaster/internal/llm"
	"github.com/abhisek/flashmaster/internal/quiz"
	"github.com/abhisek/flashmaster/internal/screens/study"
	"github.com/abhisek/flashmaster/internal/store"
)

// Runtime wires the storage backend, the app state and the quiz pipeline
// for one process.
type Runtime struct {
	Config    *config.Config
	Log       *slog.Logger
	Backend   store.Backend
	State     *appstate.Store
	Generator *quiz.Generator
	Auditor   *quiz.Auditor
}

// Open opens the configured backend and loads the app state. The returned
// Runtime must be closed to flush the last state write.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Runtime, error) {
	if log == nil {
		log = slog.Default()
	}

	backend, err := store.OpenBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	log.Debug("storage opened", "backend", cfg.Storage.Backend)

	factory := llm.NewFactory(cfg.LLM, backend.EventRepo(), log)
	return &Runtime{
		Config:    cfg,
		Log:       log,
		Backend:   backend,
		State:     appstate.Load(ctx, backend.KV(), appstate.WithLogger(log)),
		Generator: quiz.NewGenerator(factory, cfg.LLM, log),
		Auditor:   quiz.NewAuditor(backend.KV(), log),
	}, nil
}

// APIKey returns the credential for quiz generation: the one saved in the
// app state, else the configured one.
func (r *Runtime) APIKey() string {
	if k := r.State.State().OpenAIAPIKey; k != "" {
		return k
	}
	return r.Config.LLM.APIKey
}

// Services returns the dependencies of the study screens.
func (r *Runtime) Services() study.Services {
	return study.Services{
		State:     r.State,
		Generator: r.Generator,
		Auditor:   r.Auditor,
		APIKey:    r.APIKey,
	}
}

// Close flushes the pending state write, bounded by the storage flush
// timeout, and closes the backend.
func (r *Runtime) Close() error {
	ctx := context.Background()
	if t := r.Config.Storage.FlushTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	flushErr := r.State.Close(ctx)
	if flushErr != nil {
		r.Log.Warn("state flush incomplete", "error", flushErr)
	}
	return errors.Join(flushErr, r.Backend.Close())
}
