package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashmaster/internal/appstate"
	"github.com/abhisek/flashmaster/internal/config"
	"github.com/abhisek/flashmaster/internal/llm"
	"github.com/abhisek/flashmaster/internal/screen"
	"github.com/abhisek/flashmaster/internal/store"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "body of " + s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := NewAppModel(&stubScreen{title: "Decks"}, nil)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppModel_ViewShowsHeaderAndScreen(t *testing.T) {
	var model tea.Model = NewAppModel(&stubScreen{title: "Decks"}, func() int { return 7 })
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	content := model.(AppModel).render()
	for _, want := range []string{"Flashmaster", "Decks", "7", "body of Decks", "Ctrl+C"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	var model tea.Model = NewAppModel(&stubScreen{title: "Decks"}, nil)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	if !strings.Contains(model.(AppModel).render(), "Terminal too small") {
		t.Error("expected min size message")
	}
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(config.LogConfig{Level: "WARN", Format: "json"}, &buf)
	log.Info("hidden")
	log.Warn("shown", "key", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected json output, got %q", out)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: store.Config{Backend: store.BackendMemory, FlushTimeout: time.Second},
		LLM:     llm.DefaultConfig(),
		Log:     config.LogConfig{Level: "info", Format: "text"},
	}
}

func TestRuntime_APIKeyPrecedence(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = "from-config"

	rt, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rt.Close()

	if got := rt.APIKey(); got != "from-config" {
		t.Errorf("APIKey = %q, want config key", got)
	}
	rt.State.SetAPIKey("from-state")
	if got := rt.APIKey(); got != "from-state" {
		t.Errorf("APIKey = %q, want state key", got)
	}
	if rt.Services().APIKey() != "from-state" {
		t.Error("services should resolve the same key")
	}
}

func TestRuntime_CloseFlushes(t *testing.T) {
	cfg := testConfig()
	rt, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rt.State.AddDeck("Spanish")
	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mem := rt.Backend.(*store.Memory)
	if raw, ok := mem.Value(appstate.StorageKey); !ok || !strings.Contains(raw, "Spanish") {
		t.Fatalf("state not flushed: %q", raw)
	}
}

func TestNewUILogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashmaster.log")
	log, closeLog, err := NewUILogger(config.LogConfig{Level: "info", Format: "text", File: path})
	if err != nil {
		t.Fatalf("NewUILogger: %v", err)
	}
	log.Info("quiz generated", "deck", "d1")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "quiz generated") {
		t.Errorf("log file = %q", data)
	}
}
