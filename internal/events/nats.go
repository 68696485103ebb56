package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "invocations.completed"

// NewNATS constructs a publisher that emits one message per event on subject.
func NewNATS(log *slog.Logger, nc *nats.Conn, subject string) Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &natsPublisher{log: log, nc: nc, subject: subject}
}

// Connect dials url and returns a NATS-backed publisher.
func Connect(log *slog.Logger, url, subject string) (Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("expert-prompt"))
	if err != nil {
		return nil, err
	}
	return NewNATS(log, nc, subject), nil
}

type natsPublisher struct {
	log     *slog.Logger
	nc      *nats.Conn
	subject string
}

func (p *natsPublisher) Publish(_ context.Context, ev InvocationEvent) error {
	if ev.RequestID == uuid.Nil {
		return errors.New("request id required")
	}
	body, err := Encode(ev)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, body)
}

// Close flushes pending events before closing the connection.
func (p *natsPublisher) Close() error {
	if err := p.nc.Drain(); err != nil {
		p.log.Warn("nats drain failed", "err", err)
		p.nc.Close()
		return err
	}
	return nil
}

// Encode renders ev as the JSON wire body.
func Encode(ev InvocationEvent) ([]byte, error) {
	return json.Marshal(ev)
}
