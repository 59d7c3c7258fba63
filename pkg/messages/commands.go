package messages

import (
	"context"
	"github.com/google/uuid"
	"idea-dashboard/pkg/models"
)

// PollTick starts a poll cycle. Sent by the timer and once at startup.
type PollTick struct{}

// Refresh requests one extra poll cycle outside the timer schedule.
type Refresh struct {
	Reason string
}

// FetchLog is handed to a fetch child for one agent of one cycle.
type FetchLog struct {
	Ctx   context.Context
	Cycle uint64
	Agent models.Agent
}

// LogFetched carries a settled fetch back to the poller.
type LogFetched struct {
	Cycle  uint64
	Result models.LogResult
}

type GetSnapshot struct{}

// Submit asks the submitter to send an idea to the orchestration endpoint.
type Submit struct {
	Idea string
}

// SendIdea is handed to a request child for one submission.
type SendIdea struct {
	Ctx           context.Context
	Generation    uint64
	CorrelationID uuid.UUID
	Idea          string
}

// SubmissionDone carries the orchestration outcome back to the submitter.
type SubmissionDone struct {
	Generation    uint64
	CorrelationID uuid.UUID
	Body          string
	Err           error
}

type GetStatus struct{}
