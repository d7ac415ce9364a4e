package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/muhammadolammi/resumeclone/internal/config"
	"github.com/muhammadolammi/resumeclone/internal/web"
)

func newServeCmd(cfg *config.Config, logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().Msg("🚀 Starting chat...")
			app, err := newApp(ctx, *cfg, *logger)
			if err != nil {
				logger.Error().Err(err).Msg("❌ Error creating chat interface")
				return err
			}

			recorders := openRecorders(*cfg, *logger)
			defer recorders.Close(*logger)

			server := web.NewServer(app.Session, recorders.Recorder, web.Config{
				Title:   cfg.ChatTitle,
				Intro:   cfg.ChatIntro,
				Archive: recorders.Archive,
			}, *logger)

			return serve(ctx, cfg.HTTPAddr, server.Handler(), *logger)
		},
	}
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", "http://"+addr).Msg("✨ Launching chat interface")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
