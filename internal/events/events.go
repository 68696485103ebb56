package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome is the final state of one submission.
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// InvocationEvent describes a finished submission. It carries metadata only;
// neither the question nor the answer is included.
type InvocationEvent struct {
	RequestID   uuid.UUID `json:"request_id"`
	Persona     string    `json:"persona"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Outcome     Outcome   `json:"outcome"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	At          time.Time `json:"at"`
}

// Publisher fans out invocation events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, ev InvocationEvent) error
	Close() error
}
