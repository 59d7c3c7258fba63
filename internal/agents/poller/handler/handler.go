package handler

import (
	"context"
	"idea-dashboard/pkg/models"
)

// LogFetcher returns the last lines of one agent's log.
type LogFetcher interface {
	FetchLog(ctx context.Context, agentID string, lines int) (string, error)
}

type Handler struct {
	fetcher LogFetcher
	lines   int
}

func New(fetcher LogFetcher, lines int) *Handler {
	if lines <= 0 {
		lines = models.LogWindow
	}
	return &Handler{
		fetcher: fetcher,
		lines:   lines,
	}
}

// Fetch never fails: a failed request is folded into the result so the
// batch it belongs to can still settle.
func (h *Handler) Fetch(ctx context.Context, agent models.Agent) models.LogResult {
	text, err := h.fetcher.FetchLog(ctx, agent.ID, h.lines)
	if err != nil {
		return models.LogResult{AgentID: agent.ID, Err: err}
	}
	return models.LogResult{AgentID: agent.ID, Text: text}
}
