package events

import "context"

// NoOpPublisher drops every event. Used when EVENTS_PROVIDER=none.
type NoOpPublisher struct{}

func NewNoOp() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (NoOpPublisher) Publish(ctx context.Context, ev InvocationEvent) error {
	return nil
}

func (NoOpPublisher) Close() error {
	return nil
}
