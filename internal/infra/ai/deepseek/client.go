package deepseek

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

const maxTokens = 2048

// Client calls a DeepSeek chat-completion endpoint over the OpenAI-compatible
// wire format. Every call carries its own hard timeout, independent of the
// caller's deadline.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "deepseek-chat"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, timeout: timeout}
}

// Complete implements analysis.ChatClient. Timeouts surface as
// analysis.ErrProviderTimeout so the breaker and router can tell them apart
// from other provider failures.
func (c *Client) Complete(ctx context.Context, messages []analysis.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: chat completion after %s", analysis.ErrProviderTimeout, c.timeout)
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %s", analysis.ErrProvider, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", analysis.ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", analysis.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
