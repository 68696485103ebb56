package config

import (
	"os"
	"testing"
	"time"
)

var managedVars = []string{
	"PORT", "LOG_LEVEL", "LOG_FORMAT", "LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"SECRETS_FILE", "LLM_TIMEOUT", "EVENTS_PROVIDER", "EVENTS_URL", "EVENTS_SUBJECT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range managedVars {
		t.Setenv(name, "") // restores the original value on cleanup
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "json"},
		{"LLMProvider", cfg.LLMProvider, "openai"},
		{"OpenAIKey", cfg.OpenAIKey, ""},
		{"SecretsFile", cfg.SecretsFile, "secrets.yaml"},
		{"LLMTimeout", cfg.LLMTimeout, time.Duration(0)},
		{"EventsProvider", cfg.EventsProvider, "none"},
		{"EventsSubject", cfg.EventsSubject, "invocations.completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("EVENTS_PROVIDER", "nats")
	t.Setenv("EVENTS_URL", "nats://localhost:4222")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.OpenAIKey != "sk-env" {
		t.Errorf("expected key from env, got %q", cfg.OpenAIKey)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Errorf("expected 45s timeout, got %v", cfg.LLMTimeout)
	}
	if cfg.EventsProvider != "nats" || cfg.EventsURL != "nats://localhost:4222" {
		t.Errorf("unexpected events config: %s %s", cfg.EventsProvider, cfg.EventsURL)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "stub")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLMProvider != "stub" {
		t.Errorf("expected LLM provider 'stub', got %s", cfg.LLMProvider)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparseable timeout", "LLM_TIMEOUT", "abc"},
		{"negative timeout", "LLM_TIMEOUT", "-5s"},
		{"unparseable port", "PORT", "eighty"},
		{"port out of range", "PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{Port: 8080}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Config{LLMTimeout: -time.Second}).Validate(); err == nil {
		t.Error("expected negative timeout to be rejected")
	}
}
