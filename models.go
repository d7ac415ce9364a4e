package main

import (
	"github.com/rs/zerolog"

	"github.com/muhammadolammi/resumeclone/internal/chat"
	"github.com/muhammadolammi/resumeclone/internal/config"
	"github.com/muhammadolammi/resumeclone/internal/transcript"
)

// App is everything a command needs once startup has succeeded.
type App struct {
	Config  config.Config
	Logger  zerolog.Logger
	Resume  string
	Persona string
	Session *chat.Session
}

// Recorders are the optional transcript sinks opened by serve. Archive is
// set only when postgres is reachable.
type Recorders struct {
	Recorder transcript.Recorder
	Archive  transcript.Archive
	closers  []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func (r *Recorders) Close(logger zerolog.Logger) {
	for _, c := range r.closers {
		if err := c.close(); err != nil {
			logger.Warn().Err(err).Str("sink", c.name).Msg("failed to close transcript sink")
		}
	}
}
