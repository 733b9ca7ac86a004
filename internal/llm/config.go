package llm

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Provider names accepted in Config.Provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// DefaultModels is the quiz-generation cascade: a general-purpose model
// first, then progressively lighter ones.
var DefaultModels = []string{
	"openai/gpt-4o-mini",
	"anthropic/claude-3-haiku",
	"meta-llama/llama-3.1-8b-instruct",
	"google/gemma-2-9b-it",
}

// Config holds all LLM configuration.
type Config struct {
	// Provider selects which API the model cascade is sent to.
	// Values: "openrouter", "openai", "anthropic", "gemini", "mock"
	Provider string `yaml:"provider" env:"FLASHMASTER_LLM_PROVIDER" env-default:"openrouter"`

	// BaseURL overrides the provider endpoint. Empty uses the provider's
	// default; for openrouter that is https://openrouter.ai/api/v1.
	BaseURL string `yaml:"base_url" env:"FLASHMASTER_LLM_BASE_URL"`

	// APIKey is used when the app state holds no credential of its own.
	APIKey string `yaml:"api_key" env:"FLASHMASTER_LLM_API_KEY"`

	// Models are tried in order until one yields usable questions.
	Models []string `yaml:"models" env:"FLASHMASTER_LLM_MODELS" env-separator:","`

	Temperature float64 `yaml:"temperature" env:"FLASHMASTER_LLM_TEMPERATURE" env-default:"0.2"`
	MaxTokens   int     `yaml:"max_tokens" env:"FLASHMASTER_LLM_MAX_TOKENS" env-default:"800"`

	// Timeout bounds a single model attempt, including retries.
	Timeout time.Duration `yaml:"timeout" env:"FLASHMASTER_LLM_TIMEOUT" env-default:"30s"`

	Retry RetryConfig `yaml:"retry"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "openai/gpt-4o-mini"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retries of rate-limited requests. Any other
// failure moves the cascade on to the next model instead.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"FLASHMASTER_LLM_RETRY_MAX_ATTEMPTS" env-default:"2"`
	InitialWait time.Duration `yaml:"initial_wait" env:"FLASHMASTER_LLM_RETRY_INITIAL_WAIT" env-default:"1s"`
	MaxWait     time.Duration `yaml:"max_wait" env:"FLASHMASTER_LLM_RETRY_MAX_WAIT" env-default:"5s"`
	Multiplier  float64       `yaml:"multiplier" env:"FLASHMASTER_LLM_RETRY_MULTIPLIER" env-default:"2"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderOpenRouter,
		Models:      append([]string(nil), DefaultModels...),
		Temperature: 0.2,
		MaxTokens:   800,
		Timeout:     30 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 1 * time.Second,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ModelList returns the configured cascade, or DefaultModels when none is
// configured.
func (c Config) ModelList() []string {
	if len(c.Models) == 0 {
		return DefaultModels
	}
	return c.Models
}

// Validate checks the configuration. API keys are not required here: a
// missing credential makes quiz generation use its offline fallback.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Provider, validation.Required,
			validation.In(ProviderOpenRouter, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderMock)),
		validation.Field(&c.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&c.MaxTokens, validation.Required, validation.Min(1)),
		validation.Field(&c.Timeout, validation.Required),
		validation.Field(&c.Models, validation.Each(validation.Required)),
		validation.Field(&c.Retry),
	)
}

// Validate checks the retry configuration.
func (r RetryConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MaxAttempts, validation.Required, validation.Min(1)),
		validation.Field(&r.Multiplier, validation.Min(1.0)),
	)
}
