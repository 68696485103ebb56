package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expert-prompt/internal/prompt"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"finish_reason": "stop",
		"message": {"role": "assistant", "content": %q}
	}]
}`

func newInvoker(t *testing.T, url string, timeout time.Duration) *OpenAIInvoker {
	t.Helper()
	inv, err := NewOpenAIInvoker("sk-test", OpenAIOptions{BaseURL: url + "/", Timeout: timeout})
	require.NoError(t, err)
	return inv
}

func testMessages() prompt.MessageSequence {
	return prompt.MessageSequence{
		{Role: prompt.RoleSystem, Text: "You are a health advisor."},
		{Role: prompt.RoleHuman, Text: "I can't sleep lately, what should I do?"},
	}
}

func TestOpenAIInvokerSuccess(t *testing.T) {
	answer := "Try a consistent sleep schedule; consult a doctor if this persists."
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fmt.Sprintf(completionBody, answer)))
	}))
	defer srv.Close()

	out, err := newInvoker(t, srv.URL, 0).Invoke(context.Background(), testMessages(), "gpt-4o-mini", 0.5)
	require.NoError(t, err)
	assert.Equal(t, answer, out)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 0.5, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "You are a health advisor.", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "I can't sleep lately, what should I do?", got.Messages[1].Content)
}

func TestOpenAIInvokerErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, AuthError},
		{"forbidden", http.StatusForbidden, `{"error":{"message":"forbidden","type":"invalid_request_error"}}`, AuthError},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"requests"}}`, ProviderError},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, ProviderError},
		{"no choices", http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`, ProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newInvoker(t, srv.URL, 0).Invoke(context.Background(), testMessages(), "gpt-4o", 0.2)
			require.Error(t, err)

			var ie *InvocationError
			require.True(t, errors.As(err, &ie), "expected InvocationError, got %T", err)
			assert.Equal(t, tt.wantKind, ie.Kind)
			assert.Equal(t, int32(1), calls.Load(), "invoker must not retry")
		})
	}
}

func TestOpenAIInvokerTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newInvoker(t, url, 0).Invoke(context.Background(), testMessages(), "gpt-4o-mini", 0.5)
	require.Error(t, err)
	assert.Equal(t, TransportError, KindOf(err))
}

func TestOpenAIInvokerTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newInvoker(t, srv.URL, 50*time.Millisecond).Invoke(context.Background(), testMessages(), "gpt-4o-mini", 0.5)
	require.Error(t, err)
	assert.Equal(t, TransportError, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewOpenAIInvokerRequiresKey(t *testing.T) {
	_, err := NewOpenAIInvoker("", OpenAIOptions{})
	require.Error(t, err)
	assert.Equal(t, AuthError, KindOf(err))
}

func TestNilOpenAIInvoker(t *testing.T) {
	var inv *OpenAIInvoker
	_, err := inv.Invoke(context.Background(), testMessages(), "gpt-4o-mini", 0.5)
	assert.Error(t, err)
}
