package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"expert-prompt/internal/events"
	"expert-prompt/internal/llm"
	"expert-prompt/internal/prompt"
)

// Input carries the form values exactly as submitted.
type Input struct {
	PersonaLabel string
	ModelID      string
	Temperature  float64
	Query        string
}

// Result is the outcome of one submission: either Answer or Err is set.
type Result struct {
	RequestID    uuid.UUID
	Request      prompt.InvocationRequest
	SystemPrompt string
	Answer       string
	Err          error
}

// Warning reports whether Err is a recoverable input problem rather than a failure.
func (r Result) Warning() bool {
	return errors.Is(r.Err, prompt.ErrEmptyQuery)
}

// Asker runs one submission through the pipeline.
type Asker interface {
	Ask(ctx context.Context, in Input) Result
}

// Service runs resolve, compose and invoke for each submission. It keeps no
// per-request state, so one value may serve concurrent requests.
type Service struct {
	log       *slog.Logger
	invoker   llm.Invoker
	publisher events.Publisher
	now       func() time.Time
}

func New(log *slog.Logger, invoker llm.Invoker, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NewNoOp()
	}
	return &Service{log: log, invoker: invoker, publisher: publisher, now: time.Now}
}

// Ask handles one submission. It never returns a Go error; failures land in Result.Err.
func (s *Service) Ask(ctx context.Context, in Input) Result {
	start := s.now()
	res := Result{RequestID: uuid.New()}
	log := s.log.With("request_id", res.RequestID, "persona", in.PersonaLabel, "model", in.ModelID)

	req, err := prompt.Resolve(in.PersonaLabel, in.ModelID, in.Temperature, in.Query)
	if err != nil {
		res.Err = err
		log.Warn("submission rejected", "err", err)
		s.publish(ctx, log, in, res, start)
		return res
	}
	res.Request = req

	messages, err := prompt.Compose(req)
	if err != nil {
		res.Err = err
		log.Error("compose failed", "err", err)
		s.publish(ctx, log, in, res, start)
		return res
	}
	res.SystemPrompt = messages.System()

	answer, err := s.invoker.Invoke(ctx, messages, req.ModelID, req.Temperature)
	if err != nil {
		res.Err = llm.Classify(err)
		log.Error("invocation failed", "err", err, "kind", llm.KindOf(res.Err).String())
		s.publish(ctx, log, in, res, start)
		return res
	}
	res.Answer = answer
	log.Info("invocation succeeded", "duration_ms", s.now().Sub(start).Milliseconds(), "answer_len", len(answer))
	s.publish(ctx, log, in, res, start)
	return res
}

func (s *Service) publish(ctx context.Context, log *slog.Logger, in Input, res Result, start time.Time) {
	ev := events.InvocationEvent{
		RequestID:   res.RequestID,
		Persona:     in.PersonaLabel,
		Model:       in.ModelID,
		Temperature: in.Temperature,
		Outcome:     outcome(res),
		DurationMS:  s.now().Sub(start).Milliseconds(),
		At:          start.UTC(),
	}
	if res.Err != nil && ev.Outcome == events.OutcomeFailed {
		ev.ErrorKind = llm.KindOf(res.Err).String()
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Warn("failed to publish invocation event", "err", err)
	}
}

func outcome(res Result) events.Outcome {
	switch {
	case res.Err == nil:
		return events.OutcomeAnswered
	case errors.Is(res.Err, prompt.ErrEmptyQuery), errors.Is(res.Err, prompt.ErrInvalidConfiguration):
		return events.OutcomeRejected
	default:
		return events.OutcomeFailed
	}
}
