package ui

import (
	"context"
	"github.com/rs/zerolog/log"
	"idea-dashboard/pkg/data"
	"idea-dashboard/pkg/logger"
	"idea-dashboard/pkg/messages"
	"idea-dashboard/pkg/models"
)

// RunHeadless logs commits and status changes until ctx is done or the
// subscription closes. It stands in for the terminal UI when stdout is not
// a terminal.
func RunHeadless(ctx context.Context, dash Dashboard) {
	events, unsubscribe := dash.Subscribe()
	defer unsubscribe()
	roster := dash.Roster()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			logEvent(roster, ev)
		}
	}
}

func logEvent(roster models.Roster, ev messages.Event) {
	switch e := ev.(type) {
	case messages.SnapshotCommitted:
		for _, a := range roster {
			lines := data.Lines(data.SanitizeLog(e.Snapshot[a.ID]))
			last := e.Snapshot.Display(a.ID, e.Loading)
			if n := len(lines); n > 0 {
				last = lines[n-1]
			}
			log.Info().
				Uint64(logger.CycleField, e.Cycle).
				Str(logger.AgentNameField, a.ID).
				Int("lines", len(lines)).
				Msg(last)
		}
	case messages.LoadingChanged:
		log.Debug().Uint64(logger.CycleField, e.Cycle).Bool("loading", e.Loading).Msg("loading changed")
	case messages.StatusChanged:
		log.Info().Uint64(logger.SubmissionField, e.Status.Generation).Str("state", string(e.Status.State)).Msg(e.Status.Text)
	}
}
