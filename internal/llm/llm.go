package llm

import (
	"context"

	"expert-prompt/internal/prompt"
)

// Invoker sends a composed message sequence to a chat model and returns its answer.
type Invoker interface {
	Invoke(ctx context.Context, messages prompt.MessageSequence, modelID string, temperature float64) (string, error)
}
