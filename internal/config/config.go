package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration read from the environment.
type Config struct {
	// Server
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"

	// LLM
	LLMProvider   string        `env:"LLM_PROVIDER" envDefault:"openai"` // "openai" or "stub" (no network, for local runs)
	OpenAIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	SecretsFile   string        `env:"SECRETS_FILE" envDefault:"secrets.yaml"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"` // 0 disables the per-call bound

	// Events
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"none"` // "none" or "nats"
	EventsURL      string `env:"EVENTS_URL"`
	EventsSubject  string `env:"EVENTS_SUBJECT" envDefault:"invocations.completed"`
}

// Load reads configuration from environment variables with defaults.
// A value that does not parse (e.g. LLM_TIMEOUT=abc) is an error, not a silent default.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values that parse but make no sense.
func (c Config) Validate() error {
	if c.LLMTimeout < 0 {
		return fmt.Errorf("LLM_TIMEOUT must not be negative, got %s", c.LLMTimeout)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}
