// Package llm wraps an Azure OpenAI chat deployment.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"github.com/liliang-cn/azrag/internal/domain"
)

// Config holds the Azure OpenAI deployment parameters
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

// Client sends single-turn chat completions to one deployment
type Client struct {
	client     openai.Client
	deployment string
}

// NewClient creates a client. Retries are disabled; every call is
// attempted exactly once.
func NewClient(cfg Config, opts ...option.RequestOption) (*Client, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.Deployment == "" || cfg.APIVersion == "" {
		return nil, errors.New("endpoint, api key, deployment and api version are required")
	}

	base := []option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	return &Client{
		client:     openai.NewClient(append(base, opts...)...),
		deployment: cfg.Deployment,
	}, nil
}

// Deployment returns the configured deployment name
func (c *Client) Deployment() string {
	return c.deployment
}

// Complete sends prompt as a single user message and returns the reply text
// verbatim. maxTokens <= 0 leaves the limit to the service.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
