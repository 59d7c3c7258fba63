package actor

import (
	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"idea-dashboard/internal/agents/poller/handler"
	"idea-dashboard/pkg/logger"
	"idea-dashboard/pkg/messages"
)

// fetcher is a short-lived child that performs one agent's request for one
// cycle and reports back to the poller.
type fetcher struct {
	handler *handler.Handler
}

func (f *fetcher) Receive(ac actor.Context) {
	switch msg := ac.Message().(type) {
	case messages.FetchLog:
		res := f.handler.Fetch(msg.Ctx, msg.Agent)
		if res.Err != nil {
			log.Debug().
				Str(logger.AgentNameField, msg.Agent.ID).
				Uint64(logger.CycleField, msg.Cycle).
				Err(res.Err).
				Msg("log fetch failed")
		}
		ac.Send(ac.Parent(), messages.LogFetched{Cycle: msg.Cycle, Result: res})
		ac.Stop(ac.Self())
	}
}
