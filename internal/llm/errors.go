package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/openai/openai-go/v3"
)

// Kind classifies invocation failures.
type Kind int

const (
	Unknown Kind = iota
	TransportError
	AuthError
	ProviderError
)

func (k Kind) String() string {
	switch k {
	case TransportError:
		return "transport"
	case AuthError:
		return "auth"
	case ProviderError:
		return "provider"
	default:
		return "unknown"
	}
}

// InvocationError wraps any failure of a model call.
type InvocationError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *InvocationError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

func (e *InvocationError) Unwrap() error { return e.Err }

// KindOf reports the kind of err, or Unknown if it is not an InvocationError.
func KindOf(err error) Kind {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return Unknown
}

// Classify converts an arbitrary error into an InvocationError. Errors that
// already are InvocationErrors pass through unchanged.
func Classify(err error) *InvocationError {
	if err == nil {
		return nil
	}
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &InvocationError{Kind: AuthError, Err: err}
		default:
			return &InvocationError{Kind: ProviderError, Err: err}
		}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.As(err, &netErr):
		return &InvocationError{Kind: TransportError, Err: err}
	}
	return &InvocationError{Kind: Unknown, Err: err}
}
