// Package config reads the application settings from a .env file and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/muhammadolammi/resumeclone/internal/document"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	ResumePath string
	PromptPath string

	Provider       string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	GoogleAPIKey   string
	GeminiModel    string
	RequestTimeout time.Duration
	Retries        int
	RetryBackoff   time.Duration

	HTTPAddr  string
	ChatTitle string
	ChatIntro string

	DBURL       string
	RabbitMQURL string

	// R2 is only used when ResumeObjectKey is set.
	R2              document.R2Config
	ResumeObjectKey string

	LogLevel string
}

func defaults(v *viper.Viper) {
	v.SetDefault("RESUME_PATH", "resume.pdf")
	v.SetDefault("PROMPT_PATH", "prompt.md")
	v.SetDefault("COMPLETION_PROVIDER", ProviderOpenAI)
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("COMPLETION_TIMEOUT", "60s")
	v.SetDefault("COMPLETION_RETRIES", 0)
	v.SetDefault("COMPLETION_RETRY_BACKOFF", "500ms")
	v.SetDefault("HTTP_ADDR", "127.0.0.1:7860")
	v.SetDefault("CHAT_TITLE", "Chat with my resume")
	v.SetDefault("CHAT_INTRO", "Ask me anything about my professional background, skills, experience, or projects. I'll answer based on my resume!")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads .env (when present) and the environment. It only fails on
// values that cannot be used at all; a missing API key is reported through
// APIKey instead.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	cfg := Config{
		ResumePath:     v.GetString("RESUME_PATH"),
		PromptPath:     v.GetString("PROMPT_PATH"),
		Provider:       strings.ToLower(strings.TrimSpace(v.GetString("COMPLETION_PROVIDER"))),
		OpenAIAPIKey:   v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:  v.GetString("OPENAI_BASE_URL"),
		OpenAIModel:    v.GetString("OPENAI_MODEL"),
		GoogleAPIKey:   v.GetString("GOOGLE_API_KEY"),
		GeminiModel:    v.GetString("GEMINI_MODEL"),
		RequestTimeout: v.GetDuration("COMPLETION_TIMEOUT"),
		Retries:        v.GetInt("COMPLETION_RETRIES"),
		RetryBackoff:   v.GetDuration("COMPLETION_RETRY_BACKOFF"),
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		ChatTitle:      v.GetString("CHAT_TITLE"),
		ChatIntro:      v.GetString("CHAT_INTRO"),
		DBURL:          v.GetString("DB_URL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		R2: document.R2Config{
			AccountID: v.GetString("R2_ACCCOUNT_ID"),
			Bucket:    v.GetString("R2_BUCKET"),
			AccessKey: v.GetString("R2_ACCESS_KEY"),
			SecretKey: v.GetString("R2_SECRET_KEY"),
		},
		ResumeObjectKey: v.GetString("RESUME_OBJECT_KEY"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}

	if cfg.Provider != ProviderOpenAI && cfg.Provider != ProviderGemini {
		return Config{}, fmt.Errorf("unknown COMPLETION_PROVIDER %q (want %s or %s)", cfg.Provider, ProviderOpenAI, ProviderGemini)
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("COMPLETION_TIMEOUT must be positive")
	}
	if cfg.ResumeObjectKey != "" {
		if cfg.R2.AccountID == "" || cfg.R2.Bucket == "" || cfg.R2.AccessKey == "" || cfg.R2.SecretKey == "" {
			return Config{}, fmt.Errorf("RESUME_OBJECT_KEY requires R2_ACCCOUNT_ID, R2_BUCKET, R2_ACCESS_KEY and R2_SECRET_KEY")
		}
	}
	return cfg, nil
}

// APIKey returns the credential for the selected provider.
func (c Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GoogleAPIKey
	}
	return c.OpenAIAPIKey
}

// APIKeyName is the environment variable APIKey reads.
func (c Config) APIKeyName() string {
	if c.Provider == ProviderGemini {
		return "GOOGLE_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// Model is the model identifier sent with every completion request.
func (c Config) Model() string {
	if c.Provider == ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenAIModel
}
