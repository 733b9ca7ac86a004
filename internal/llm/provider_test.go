package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCanedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}

	named := NewMockModel("openai/gpt-4o-mini", MockResponse{Content: json.RawMessage(`[]`)})
	if named.ModelID() != "openai/gpt-4o-mini" {
		t.Fatalf("expected named model, got %q", named.ModelID())
	}
	resp, err := named.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Model != "openai/gpt-4o-mini" {
		t.Fatalf("response model = %q", resp.Model)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "quiz-gen")
	if p := PurposeFrom(ctx); p != "quiz-gen" {
		t.Fatalf("expected 'quiz-gen', got %q", p)
	}
}

func TestDeckContext(t *testing.T) {
	ctx := context.Background()
	if d := DeckFrom(ctx); d != "" {
		t.Fatalf("expected no deck, got %q", d)
	}

	ctx = WithDeck(WithPurpose(ctx, "quiz-gen"), "deck-1")
	if d := DeckFrom(ctx); d != "deck-1" {
		t.Fatalf("expected deck-1, got %q", d)
	}
	if p := PurposeFrom(ctx); p != "quiz-gen" {
		t.Fatalf("purpose lost: %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			cfg:     func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "no key is fine",
			cfg:     func(c *Config) { c.Provider = ProviderAnthropic; c.APIKey = "" },
			wantErr: false,
		},
		{
			name:    "mock",
			cfg:     func(c *Config) { c.Provider = ProviderMock },
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     func(c *Config) { c.Provider = "unknown" },
			wantErr: true,
		},
		{
			name:    "zero max tokens",
			cfg:     func(c *Config) { c.MaxTokens = 0 },
			wantErr: true,
		},
		{
			name:    "temperature out of range",
			cfg:     func(c *Config) { c.Temperature = 3 },
			wantErr: true,
		},
		{
			name:    "blank model in cascade",
			cfg:     func(c *Config) { c.Models = []string{"openai/gpt-4o-mini", ""} },
			wantErr: true,
		},
		{
			name:    "zero retry attempts",
			cfg:     func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ModelList(t *testing.T) {
	var cfg Config
	if got := cfg.ModelList(); len(got) != 4 || got[0] != "openai/gpt-4o-mini" {
		t.Fatalf("expected default cascade, got %v", got)
	}
	cfg.Models = []string{"x/y"}
	if got := cfg.ModelList(); len(got) != 1 || got[0] != "x/y" {
		t.Fatalf("expected configured cascade, got %v", got)
	}
}
