package llm

import (
	"context"

	"github.com/stretchr/testify/mock"

	"expert-prompt/internal/prompt"
)

// MockInvoker is a mock implementation of Invoker using testify/mock.
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, messages prompt.MessageSequence, modelID string, temperature float64) (string, error) {
	args := m.Called(ctx, messages, modelID, temperature)
	return args.String(0), args.Error(1)
}
