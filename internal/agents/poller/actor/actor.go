package actor

import (
	"context"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"idea-dashboard/internal/agents/poller/handler"
	"idea-dashboard/pkg/logger"
	"idea-dashboard/pkg/messages"
	"idea-dashboard/pkg/models"
	"time"
)

type batch struct {
	results map[string]models.LogResult
	started time.Time
}

// Poller keeps one log tail per roster agent. Each cycle fans out one fetch
// child per agent and commits the merged snapshot only once every fetch of
// that cycle has settled.
type Poller struct {
	handler   *handler.Handler
	roster    models.Roster
	hooks     []messages.Hook
	maxBatch  int
	ctx       context.Context
	cancel    context.CancelFunc
	snapshot  models.Snapshot
	lastCycle uint64
	committed uint64
	inflight  map[uint64]*batch
}

type Option func(*Poller)

// WithHook registers a hook called after every commit.
func WithHook(h messages.Hook) Option {
	return func(p *Poller) {
		p.hooks = append(p.hooks, h)
	}
}

// WithMaxInFlight overrides how many cycles may await results at once.
func WithMaxInFlight(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.maxBatch = n
		}
	}
}

func New(h *handler.Handler, roster models.Roster, opts ...Option) actor.Actor {
	p := &Poller{
		handler:  h,
		roster:   roster,
		maxBatch: models.MaxInFlightCycles,
		inflight: map[uint64]*batch{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (agent *Poller) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "poller"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
		agent.ctx, agent.cancel = context.WithCancel(context.Background())
		agent.runPollCycle(ac, l)
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
		if agent.cancel != nil {
			agent.cancel()
		}
	case *actor.Stopped:
		l.Debug().Msg("stopped actor and its children")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case *actor.Terminated:
		l.Debug().Msg("child actor terminated")
	case messages.PollTick:
		agent.runPollCycle(ac, l)
	case messages.Refresh:
		l.Debug().Msgf("Refresh received: %s", msg.Reason)
		agent.runPollCycle(ac, l)
	case messages.LogFetched:
		agent.settle(msg, l)
	case messages.GetSnapshot:
		ac.Respond(models.PollerState{
			Snapshot: agent.snapshot.Clone(),
			Loading:  agent.loading(),
			Cycle:    agent.committed,
			InFlight: len(agent.inflight),
		})
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}

func (agent *Poller) runPollCycle(ac actor.Context, l zerolog.Logger) {
	if agent.ctx == nil || agent.ctx.Err() != nil {
		return
	}
	// A hung back end would otherwise pile up one batch of requests per tick.
	if len(agent.inflight) >= agent.maxBatch {
		l.Warn().Int("inflight", len(agent.inflight)).Msg("poll cycle skipped, previous cycles still in flight")
		return
	}
	agent.lastCycle++
	cycle := agent.lastCycle
	b := &batch{
		results: make(map[string]models.LogResult, len(agent.roster)),
		started: time.Now(),
	}
	agent.inflight[cycle] = b
	l.Debug().Uint64(logger.CycleField, cycle).Int("inflight", len(agent.inflight)).Msg("poll cycle started")

	if len(agent.roster) == 0 {
		agent.commit(cycle, b, l)
		return
	}

	props := actor.PropsFromProducer(func() actor.Actor { return &fetcher{handler: agent.handler} })
	for _, a := range agent.roster {
		child := ac.Spawn(props)
		ac.Send(child, messages.FetchLog{Ctx: agent.ctx, Cycle: cycle, Agent: a})
	}
}

func (agent *Poller) settle(msg messages.LogFetched, l zerolog.Logger) {
	b, ok := agent.inflight[msg.Cycle]
	if !ok {
		return
	}
	b.results[msg.Result.AgentID] = msg.Result
	if len(b.results) < len(agent.roster) {
		return
	}
	agent.commit(msg.Cycle, b, l)
}

func (agent *Poller) commit(cycle uint64, b *batch, l zerolog.Logger) {
	delete(agent.inflight, cycle)
	if agent.ctx.Err() != nil {
		l.Debug().Uint64(logger.CycleField, cycle).Msg("dropping batch after shutdown")
		return
	}
	// A newer cycle already committed; this one would move the view back.
	if cycle < agent.committed {
		l.Debug().Uint64(logger.CycleField, cycle).Uint64("committed", agent.committed).Msg("dropping stale batch")
		if !agent.loading() {
			agent.publish(messages.LoadingChanged{Cycle: agent.committed, Loading: false})
		}
		return
	}

	agent.snapshot = models.BuildSnapshot(agent.roster, b.results)
	agent.committed = cycle
	l.Debug().
		Uint64(logger.CycleField, cycle).
		Dur("took", time.Since(b.started)).
		Msg("snapshot committed")

	agent.publish(messages.SnapshotCommitted{
		Cycle:    cycle,
		Snapshot: agent.snapshot.Clone(),
		Loading:  agent.loading(),
	})
}

func (agent *Poller) publish(ev messages.Event) {
	for _, h := range agent.hooks {
		h(ev)
	}
}

func (agent *Poller) loading() bool {
	return len(agent.inflight) > 0
}
