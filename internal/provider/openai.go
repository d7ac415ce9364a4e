// Package provider adapts hosted completion APIs to chat.Generator.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/muhammadolammi/resumeclone/internal/chat"
)

const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAI answers through the chat completions endpoint.
type OpenAI struct {
	apiKey string
	client openai.Client
}

// NewOpenAI builds a client for baseURL. The SDK's own retries are disabled;
// chat.WithRetry owns retrying.
func NewOpenAI(apiKey, baseURL string, timeout time.Duration) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &OpenAI{
		apiKey: apiKey,
		client: openai.NewClient(opts...),
	}
}

// Generate sends one chat completion request and returns the first choice.
func (c *OpenAI) Generate(ctx context.Context, req chat.Request) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OPENAI_API_KEY is not set")
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
		Temperature: openai.Float(float64(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case chat.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case chat.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai status %d: %s", apiErr.StatusCode, apiErrorMessage(apiErr))
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai response has no choices")
	}
	message := resp.Choices[0].Message
	if !message.JSON.Content.Valid() {
		return "", errors.New("openai response has no message content")
	}
	return message.Content, nil
}

// apiErrorMessage prefers the API's own message and falls back to the raw
// error body, truncated.
func apiErrorMessage(apiErr *openai.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	raw := apiErr.RawJSON()
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(raw), &envelope) == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return truncate(raw, 400)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
