// Package config holds the environment driven configuration for the
// messaging core.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the environment driven configuration for the messaging core.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"messaging-core"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	BackendBaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000/api"`
	StaticBaseURL  string `env:"STATIC_BASE_URL" envDefault:"http://localhost:8000/storage"`
	AccessToken    string `env:"ACCESS_TOKEN"`

	MessagePollInterval      time.Duration `env:"MESSAGE_POLL_INTERVAL" envDefault:"10s"`
	ConversationPollInterval time.Duration `env:"CONVERSATION_POLL_INTERVAL" envDefault:"30s"`
	FetchTimeout             time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	RequestsPerSecond        float64       `env:"BACKEND_REQUESTS_PER_SECOND" envDefault:"10"`
	RequestBurst             int           `env:"BACKEND_REQUEST_BURST" envDefault:"20"`
	SnapshotCacheSize        int           `env:"SNAPSHOT_CACHE_SIZE" envDefault:"64"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
}

// Load parses environment variables into Config. A local .env file is
// applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.BackendBaseURL) == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL must not be empty")
	}

	if cfg.MessagePollInterval <= 0 {
		cfg.MessagePollInterval = 10 * time.Second
	}
	if cfg.ConversationPollInterval <= 0 {
		cfg.ConversationPollInterval = 30 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.SnapshotCacheSize <= 0 {
		cfg.SnapshotCacheSize = 64
	}

	return cfg, nil
}
