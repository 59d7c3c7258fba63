package handler

import (
	"context"
	"github.com/google/uuid"
)

// Orchestrator sends one idea to the orchestration endpoint.
type Orchestrator interface {
	Orchestrate(ctx context.Context, correlationID uuid.UUID, idea string) (string, error)
}

type Handler struct {
	orchestrator Orchestrator
}

func New(orchestrator Orchestrator) *Handler {
	return &Handler{
		orchestrator: orchestrator,
	}
}

func (h *Handler) Send(ctx context.Context, correlationID uuid.UUID, idea string) (string, error) {
	return h.orchestrator.Orchestrate(ctx, correlationID, idea)
}
