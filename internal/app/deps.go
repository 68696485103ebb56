package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"expert-prompt/internal/config"
	"expert-prompt/internal/credentials"
	"expert-prompt/internal/events"
	"expert-prompt/internal/llm"
	"expert-prompt/internal/logger"
	"expert-prompt/internal/pipeline"
)

// Deps bundles the runtime dependencies shared by the server and the CLI.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Invoker   llm.Invoker
	Publisher events.Publisher
	Service   *pipeline.Service
}

// Close releases connections held by Deps.
func (d Deps) Close() error {
	if d.Publisher == nil {
		return nil
	}
	return d.Publisher.Close()
}

// Build loads .env (if present), config, and shared components.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return Deps{}, fmt.Errorf("failed to load config: %w", err)
	}
	return BuildFrom(cfg, logger.New(cfg.LogLevel, cfg.LogFormat))
}

// BuildFrom wires components for an already loaded config.
func BuildFrom(cfg config.Config, log *slog.Logger) (Deps, error) {
	if err := cfg.Validate(); err != nil {
		return Deps{}, fmt.Errorf("invalid config: %w", err)
	}
	invoker, err := buildInvoker(cfg, log)
	if err != nil {
		return Deps{}, err
	}
	pub, err := buildPublisher(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}
	return Deps{
		Config:    cfg,
		Log:       log,
		Invoker:   invoker,
		Publisher: pub,
		Service:   pipeline.New(log, invoker, pub),
	}, nil
}

func buildInvoker(cfg config.Config, log *slog.Logger) (llm.Invoker, error) {
	switch cfg.LLMProvider {
	case "openai":
		key, err := credentials.Resolve(cfg.OpenAIKey, cfg.SecretsFile)
		if err != nil {
			return nil, err
		}
		inv, err := llm.NewOpenAIInvoker(key, llm.OpenAIOptions{
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI invoker", "timeout", cfg.LLMTimeout.String())
		return inv, nil
	case "stub":
		log.Warn("using stub invoker; answers are canned")
		return llm.StubInvoker{}, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: openai, stub)", cfg.LLMProvider)
	}
}

func buildPublisher(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	switch cfg.EventsProvider {
	case "", "none":
		return events.NewNoOp(), nil
	case "nats":
		if cfg.EventsURL == "" {
			return nil, fmt.Errorf("EVENTS_URL is required when EVENTS_PROVIDER=nats")
		}
		pub, err := events.Connect(log, cfg.EventsURL, cfg.EventsSubject)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("publishing invocation events to NATS", "subject", cfg.EventsSubject)
		return pub, nil
	default:
		return nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: none, nats)", cfg.EventsProvider)
	}
}
