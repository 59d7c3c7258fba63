package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"io"
	"os"
)

const (
	AgentNameField   = "agent"
	ActorIDField     = "actor"
	CycleField       = "cycle"
	SubmissionField  = "submission"
	CorrelationField = "correlation"
)

func NewGlobal(level string, pretty bool) error {
	return NewGlobalTo(os.Stderr, level, pretty)
}

// NewGlobalTo is NewGlobal with an explicit destination, used when stderr
// belongs to the terminal UI.
func NewGlobalTo(w io.Writer, level string, pretty bool) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(l)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr})
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}
	return nil
}
