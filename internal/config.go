package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds client settings, read from the environment. Command-line
// flags override individual fields after loading.
type Config struct {
	// ServerURL is the base URL of the answering service.
	ServerURL string `env:"RAGCHAT_SERVER" envDefault:"http://localhost:8080"`

	// SendTimeout bounds the send-message request; other requests use a
	// shorter default.
	SendTimeout    time.Duration `env:"RAGCHAT_SEND_TIMEOUT" envDefault:"60s"`
	RequestTimeout time.Duration `env:"RAGCHAT_REQUEST_TIMEOUT" envDefault:"15s"`

	// StatePath points at the local sqlite state store. Defaults to
	// ~/.ragchat/state.db.
	StatePath string `env:"RAGCHAT_STATE_PATH"`
}

// LoadConfig loads configuration from the environment and fills in the
// default state store path.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.StatePath = filepath.Join(home, ".ragchat", "state.db")
	}

	return cfg, nil
}
