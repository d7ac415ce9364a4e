package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/muhammadolammi/resumeclone/internal/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		cfg      config.Config
		logger   zerolog.Logger
	)

	root := &cobra.Command{
		Use:           "resumeclone",
		Short:         "Chat with a resume",
		Long:          "Answers questions in the first person using only the text of a resume, through a hosted LLM.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger, err = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			return err
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (default: $LOG_LEVEL or info)")

	serve := newServeCmd(&cfg, &logger)
	root.RunE = serve.RunE
	root.AddCommand(
		serve,
		newAskCmd(&cfg, &logger),
		newContextCmd(&cfg, &logger),
	)
	return root
}

func newLogger(out io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
