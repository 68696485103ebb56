package llm

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"expert-prompt/internal/prompt"
)

var errNoChoices = errors.New("openai: no choices returned")

// OpenAIInvoker calls the OpenAI Chat Completions API.
type OpenAIInvoker struct {
	client  *openai.Client
	timeout time.Duration
}

// OpenAIOptions tunes the client. Zero values mean api.openai.com and no timeout.
type OpenAIOptions struct {
	BaseURL string
	Timeout time.Duration
}

// NewOpenAIInvoker builds an invoker bound to apiKey. The SDK's automatic
// retries are disabled so every submission is a single attempt.
func NewOpenAIInvoker(apiKey string, opts OpenAIOptions) (*OpenAIInvoker, error) {
	if apiKey == "" {
		return nil, &InvocationError{Kind: AuthError, Message: "api key required"}
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	cli := openai.NewClient(reqOpts...)
	return &OpenAIInvoker{
		client:  &cli,
		timeout: opts.Timeout,
	}, nil
}

func (c *OpenAIInvoker) Invoke(ctx context.Context, messages prompt.MessageSequence, modelID string, temperature float64) (string, error) {
	if c == nil || c.client == nil {
		return "", &InvocationError{Kind: Unknown, Message: "nil openai client"}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelID),
		Messages:    buildMessages(messages),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", Classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &InvocationError{Kind: ProviderError, Err: errNoChoices}
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(messages prompt.MessageSequence) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case prompt.RoleSystem:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(m.Text),
					},
				},
			})
		default:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(m.Text),
					},
				},
			})
		}
	}
	return out
}
