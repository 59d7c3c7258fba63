package actor

import (
	"github.com/asynkron/protoactor-go/actor"
	"idea-dashboard/internal/agents/submitter/handler"
	"idea-dashboard/pkg/messages"
)

// request performs a single submission and reports the outcome to its parent.
type request struct {
	handler *handler.Handler
}

func (r *request) Receive(ac actor.Context) {
	switch msg := ac.Message().(type) {
	case messages.SendIdea:
		body, err := r.handler.Send(msg.Ctx, msg.CorrelationID, msg.Idea)
		ac.Send(ac.Parent(), messages.SubmissionDone{
			Generation:    msg.Generation,
			CorrelationID: msg.CorrelationID,
			Body:          body,
			Err:           err,
		})
		ac.Stop(ac.Self())
	}
}
