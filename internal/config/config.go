// Package config loads the application configuration from an optional
// YAML file and the environment.
package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/abhisek/flashmaster/internal/llm"
	"github.com/abhisek/flashmaster/internal/store"
)

// Config is the root configuration.
type Config struct {
	Storage store.Config `yaml:"storage"`
	LLM     llm.Config   `yaml:"llm"`
	Log     LogConfig    `yaml:"log"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"FLASHMASTER_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"FLASHMASTER_LOG_FORMAT" env-default:"text"`

	// File receives log output while the terminal UI owns the screen.
	// Empty discards it.
	File string `yaml:"file" env:"FLASHMASTER_LOG_FILE"`
}

// Validate checks every section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Storage),
		validation.Field(&c.LLM),
		validation.Field(&c.Log),
	)
}

// Validate checks the log configuration.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.In("text", "json")),
	)
}
