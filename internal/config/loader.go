package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the variable that points at the YAML config file.
const PathEnv = "FLASHMASTER_CONFIG"

// DefaultPath is read when it exists and no path was given.
const DefaultPath = "./flashmaster.yaml"

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The file is path, else $FLASHMASTER_CONFIG, else DefaultPath. An
// explicitly named file must exist; a missing DefaultPath means ENV and
// defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	explicitPath := path != ""
	if !explicitPath {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
