package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domain "github.com/bryanwahyu/media-analysis-bot/internal/domain/analysis"
)

// Groq exposes an OpenAI-compatible API, so the stock client works with a
// swapped base URL.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

const DefaultModel = "llama-3.2-11b-vision-preview"

// Fixed request parameters, not user-tunable.
const (
	temperature = 0.7
	maxTokens   = 1000
)

const promptPrefix = "Please analyze this image and answer: "

type Client struct {
	api   *openai.Client
	model string
}

// NewClient takes the credential explicitly; there is no ambient secret state.
func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = baseURL
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Ask sends one user turn with two content parts, the instruction-prefixed
// question followed by the image as an inline data URI, and returns the first
// choice's text. One blocking call, no retries.
func (c *Client) Ask(ctx context.Context, payload, query string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", domain.ErrEmptyPayload
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: promptPrefix + query,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + payload,
						},
					},
				},
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", domain.ErrQuotaExceeded
		}
		return "", fmt.Errorf("vision query failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.ErrNoCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
