package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/muhammadolammi/resumeclone/internal/chat"
	"github.com/muhammadolammi/resumeclone/internal/config"
	"github.com/muhammadolammi/resumeclone/internal/provider"
)

// GetGenerator builds the completion provider selected in cfg, wrapped with
// the configured retries. A provider that cannot be built does not stop
// startup: every call then fails with the construction error and the chat
// shows it as an error answer.
func GetGenerator(ctx context.Context, cfg config.Config, logger zerolog.Logger) chat.Generator {
	var gen chat.Generator
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := provider.NewGemini(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.RequestTimeout)
		if err != nil {
			logger.Warn().Err(err).Msg("gemini provider unavailable")
			gen = chat.GeneratorFunc(func(context.Context, chat.Request) (string, error) {
				return "", err
			})
		} else {
			gen = g
		}
	default:
		gen = provider.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.RequestTimeout)
	}
	return chat.WithRetry(gen, cfg.Retries, cfg.RetryBackoff)
}
