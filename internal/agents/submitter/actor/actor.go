package actor

import (
	"context"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"idea-dashboard/internal/agents/submitter/handler"
	"idea-dashboard/pkg/logger"
	"idea-dashboard/pkg/messages"
	"idea-dashboard/pkg/models"
)

// Submitter owns the orchestration status. Submissions are never queued;
// each one gets a new generation and only the latest generation may move
// the visible status to a terminal state.
type Submitter struct {
	handler    *handler.Handler
	poller     *actor.PID
	hooks      []messages.Hook
	ctx        context.Context
	cancel     context.CancelFunc
	status     models.Status
	generation uint64
}

type Option func(*Submitter)

// WithHook registers a hook called on every status change.
func WithHook(h messages.Hook) Option {
	return func(s *Submitter) {
		s.hooks = append(s.hooks, h)
	}
}

// New builds a submitter that asks poller for one extra cycle after each
// successful response. poller may be nil.
func New(h *handler.Handler, poller *actor.PID, opts ...Option) actor.Actor {
	s := &Submitter{
		handler: h,
		poller:  poller,
		status:  models.IdleStatus(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (agent *Submitter) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "submitter"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
		agent.ctx, agent.cancel = context.WithCancel(context.Background())
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
	case messages.Submit:
		agent.submit(ac, msg, l)
	case messages.SubmissionDone:
		agent.done(ac, msg, l)
	case messages.GetStatus:
		ac.Respond(agent.status)
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}

func (agent *Submitter) submit(ac actor.Context, msg messages.Submit, l zerolog.Logger) {
	idea, err := models.ValidateIdea(msg.Idea)
	if err != nil {
		l.Warn().Err(err).Msg("refusing submission")
		if ac.Sender() != nil {
			ac.Respond(err)
		}
		return
	}

	agent.generation++
	id := uuid.New()
	l.Info().
		Uint64(logger.SubmissionField, agent.generation).
		Str(logger.CorrelationField, id.String()).
		Msg("submitting idea")
	agent.setStatus(models.PendingStatus(agent.generation))

	child := ac.Spawn(actor.PropsFromProducer(func() actor.Actor { return &request{handler: agent.handler} }))
	ac.Send(child, messages.SendIdea{Ctx: agent.ctx, Generation: agent.generation, CorrelationID: id, Idea: idea})
	if ac.Sender() != nil {
		ac.Respond(agent.generation)
	}
}

func (agent *Submitter) done(ac actor.Context, msg messages.SubmissionDone, l zerolog.Logger) {
	l = l.With().
		Uint64(logger.SubmissionField, msg.Generation).
		Str(logger.CorrelationField, msg.CorrelationID.String()).
		Logger()
	if agent.ctx.Err() != nil {
		return
	}
	if msg.Generation != agent.generation {
		l.Debug().Uint64("latest", agent.generation).Msg("discarding stale orchestration response")
		return
	}

	if msg.Err != nil {
		l.Error().Err(msg.Err).Msg("orchestration request failed")
		agent.setStatus(models.ErrorStatus(msg.Generation, msg.Err))
		return
	}

	l.Info().Msg("orchestration response received")
	agent.setStatus(models.ResponseStatus(msg.Generation, msg.Body))
	if agent.poller != nil {
		ac.Send(agent.poller, messages.Refresh{Reason: "orchestration response"})
	}
}

func (agent *Submitter) setStatus(s models.Status) {
	agent.status = s
	for _, h := range agent.hooks {
		h(messages.StatusChanged{Status: s})
	}
}
