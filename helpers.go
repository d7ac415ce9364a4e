package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/resumeclone/internal/chat"
	"github.com/muhammadolammi/resumeclone/internal/config"
	"github.com/muhammadolammi/resumeclone/internal/document"
	"github.com/muhammadolammi/resumeclone/internal/persona"
	"github.com/muhammadolammi/resumeclone/internal/transcript"
)

// newApp loads the resume and persona once and builds the session. Only a
// resume that cannot be loaded is fatal.
func newApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	if cfg.APIKey() == "" {
		logger.Warn().Msgf("⚠️  %s not found in environment variables! Every answer will be an error until it is set (a .env file works).", cfg.APIKeyName())
	}

	resume, err := loadResume(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("Resume loaded successfully!")
	logger.Info().Msgf("📄 Resume preview: %s...", preview(resume, 200))

	prompt, fromFile := persona.LoadPrompt(cfg.PromptPath)
	if !fromFile {
		logger.Info().Str("path", cfg.PromptPath).Msg("prompt file not found, using the built-in persona")
	}

	session := chat.NewSession(
		persona.BuildContext(prompt, resume),
		GetGenerator(ctx, cfg, logger),
		cfg.Model(),
		logger,
	)
	return &App{
		Config:  cfg,
		Logger:  logger,
		Resume:  resume,
		Persona: prompt,
		Session: session,
	}, nil
}

func loadResume(ctx context.Context, cfg config.Config) (string, error) {
	if cfg.ResumeObjectKey == "" {
		return document.Load(cfg.ResumePath)
	}
	client, err := document.NewR2Client(ctx, cfg.R2)
	if err != nil {
		return "", err
	}
	return document.LoadFromR2(ctx, client, cfg.R2.Bucket, cfg.ResumeObjectKey)
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// openRecorders connects the transcript sinks named in cfg. A sink that
// cannot be reached is logged and left out; chatting never depends on it.
func openRecorders(cfg config.Config, logger zerolog.Logger) *Recorders {
	recorders := &Recorders{}
	var multi transcript.Multi

	if cfg.DBURL != "" {
		rec, closer, err := openPostgres(cfg.DBURL)
		if err != nil {
			logger.Warn().Err(err).Msg("transcripts will not be saved to postgres")
		} else {
			multi = append(multi, rec)
			recorders.Archive = rec
			recorders.closers = append(recorders.closers, namedCloser{"postgres", closer})
		}
	}

	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn().Err(err).Msg("error connecting to RabbitMQ, exchanges will not be published")
		} else if rec, err := transcript.NewAMQPRecorder(conn); err != nil {
			logger.Warn().Err(err).Msg("exchanges will not be published")
			conn.Close()
		} else {
			multi = append(multi, rec)
			recorders.closers = append(recorders.closers, namedCloser{"rabbitmq", conn.Close})
		}
	}

	switch len(multi) {
	case 0:
		recorders.Recorder = transcript.Nop{}
	case 1:
		recorders.Recorder = multi[0]
	default:
		recorders.Recorder = multi
	}
	return recorders
}

func openPostgres(dbURL string) (*transcript.PostgresRecorder, func() error, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("error reaching db: %w", err)
	}
	return transcript.NewPostgresRecorder(db), db.Close, nil
}
