package llm

import (
	"context"
	"fmt"

	"expert-prompt/internal/prompt"
)

// StubInvoker answers without calling any provider. Used with LLM_PROVIDER=stub.
type StubInvoker struct{}

func (StubInvoker) Invoke(ctx context.Context, messages prompt.MessageSequence, modelID string, temperature float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", Classify(err)
	}
	var question string
	for _, m := range messages {
		if m.Role == prompt.RoleHuman {
			question = m.Text
		}
	}
	return fmt.Sprintf("[stub %s t=%.2f] %s", modelID, temperature, question), nil
}
