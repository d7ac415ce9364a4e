// Package chat answers questions about the résumé by forwarding the fixed
// system context plus a window of the caller's history to a completion
// provider.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// HistoryWindow is how many trailing turns of history reach the provider.
	HistoryWindow = 20
	MaxTokens     = 500
	Temperature   = 0.7

	EmptyMessageReply = "Please ask me a question about my professional background!"
)

// Session holds the immutable system context and the provider. It keeps no
// conversation state: history is passed in on every call and never retained,
// so one Session can serve any number of concurrent conversations.
type Session struct {
	systemContext string
	generator     Generator
	model         string
	logger        zerolog.Logger
}

func NewSession(systemContext string, generator Generator, model string, logger zerolog.Logger) *Session {
	return &Session{
		systemContext: systemContext,
		generator:     generator,
		model:         model,
		logger:        logger,
	}
}

// Context returns the system context sent with every call.
func (s *Session) Context() string {
	return s.systemContext
}

// Respond returns the assistant's answer to message. Provider failures are
// returned as an "Error: ..." answer instead of an error value.
func (s *Session) Respond(ctx context.Context, message string, history []Turn) string {
	if strings.TrimSpace(message) == "" {
		return EmptyMessageReply
	}

	req := Request{
		Model:       s.model,
		Messages:    s.messages(message, history),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}

	answer, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Str("model", s.model).Int("messages", len(req.Messages)).Msg("completion failed")
		return fmt.Sprintf("Error: %v. Please check your API key and try again.", err)
	}
	return answer
}

// Reset returns the empty history a caller should replace its own with.
func (s *Session) Reset() []Turn {
	return []Turn{}
}

// messages assembles system + trailing window of history + user message.
func (s *Session) messages(message string, history []Turn) []Turn {
	window := Window(history)
	messages := make([]Turn, 0, 1+len(window)+1)
	messages = append(messages, Turn{Role: RoleSystem, Content: s.systemContext})
	messages = append(messages, window...)
	messages = append(messages, Turn{Role: RoleUser, Content: message})
	return messages
}

// Window returns a copy of the last HistoryWindow turns of history.
func Window(history []Turn) []Turn {
	start := max(len(history)-HistoryWindow, 0)
	window := make([]Turn, len(history)-start)
	copy(window, history[start:])
	return window
}
