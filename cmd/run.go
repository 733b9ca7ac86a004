package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmaster/internal/app"
	"github.com/abhisek/flashmaster/internal/appstate"
	"github.com/abhisek/flashmaster/internal/config"
	"github.com/abhisek/flashmaster/internal/deck"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/screens/decks"
)

// loadConfig reads the config named by --config and applies --db, which
// takes priority over FLASHMASTER_DB and the YAML storage path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Storage.Path = p
	}
	return cfg, nil
}

// withRuntime opens a runtime for a one-shot command, logging to stderr,
// and closes it when fn returns.
func withRuntime(cmd *cobra.Command, fn func(rt *app.Runtime) error) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := app.NewLogger(cfg.Log)

	rt, err := app.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, rt.Close())
	}()
	return fn(rt)
}

// runApp opens the runtime and launches the TUI on the screen built by
// initial.
func runApp(cmd *cobra.Command, initial func(rt *app.Runtime) (screen.Screen, error)) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := app.NewUILogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	rt, err := app.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, rt.Close())
	}()

	s, err := initial(rt)
	if err != nil {
		return err
	}
	log.Info("starting ui", "screen", s.Title(), "backend", cfg.Storage.Backend)
	return rt.Run(s)
}

func homeScreen(rt *app.Runtime) (screen.Screen, error) {
	return decks.NewList(rt.Services(), time.Now), nil
}

// resolveDeck finds a deck by id, unique id prefix, or case-insensitive
// name.
func resolveDeck(st deck.AppState, ref string) (deck.Deck, error) {
	if d, ok := st.FindDeck(ref); ok {
		return d, nil
	}

	var matches []deck.Deck
	for _, d := range st.Decks {
		if strings.HasPrefix(d.ID, ref) || strings.EqualFold(d.Name, ref) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return deck.Deck{}, fmt.Errorf("%w: %s", appstate.ErrDeckNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		slog.Debug("ambiguous deck reference", "ref", ref, "matches", len(matches))
		return deck.Deck{}, fmt.Errorf("deck reference %q matches %d decks", ref, len(matches))
	}
}
