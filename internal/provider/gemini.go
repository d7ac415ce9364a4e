package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"

	"github.com/muhammadolammi/resumeclone/internal/chat"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates answers through an adk model.
type Gemini struct {
	llm     model.LLM
	timeout time.Duration
}

func NewGemini(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*Gemini, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	llm, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	g := NewGeminiFromLLM(llm)
	g.timeout = timeout
	return g, nil
}

func NewGeminiFromLLM(llm model.LLM) *Gemini {
	return &Gemini{llm: llm}
}

func (g *Gemini) Generate(ctx context.Context, req chat.Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var answer strings.Builder
	for resp, err := range g.llm.GenerateContent(ctx, llmRequest(req), false) {
		if err != nil {
			return "", fmt.Errorf("gemini request failed: %w", err)
		}
		if resp == nil || resp.Content == nil {
			continue
		}
		for _, part := range resp.Content.Parts {
			if part != nil {
				answer.WriteString(part.Text)
			}
		}
	}
	if answer.Len() == 0 {
		return "", errors.New("empty response from gemini")
	}
	return answer.String(), nil
}

// llmRequest moves system turns into the system instruction and maps the
// assistant role to gemini's "model" role.
func llmRequest(req chat.Request) *model.LLMRequest {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
		Temperature:     genai.Ptr(req.Temperature),
	}

	var system []*genai.Part
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case chat.RoleSystem:
			system = append(system, genai.NewPartFromText(m.Content))
		case chat.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: system}
	}

	return &model.LLMRequest{
		Model:    req.Model,
		Contents: contents,
		Config:   cfg,
	}
}
