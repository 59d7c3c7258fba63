package models

import "time"

const (
	// PollInterval is the fixed period between timer-driven poll cycles.
	PollInterval = 3000 * time.Millisecond
	// LogWindow is the number of trailing log lines requested per agent.
	LogWindow = 100
	// MaxInFlightCycles caps the poll batches awaiting results. Ticks that
	// arrive while the cap is reached are skipped.
	MaxInFlightCycles = 3
)

// Agent describes one participant of the orchestration whose log is shown.
type Agent struct {
	ID      string `json:"id"`
	Display string `json:"display"`
	Color   string `json:"color"`
}

// Roster is the ordered, immutable list of agents. Order is display order.
type Roster []Agent

// DefaultRoster returns the agents of the idea workflow.
func DefaultRoster() Roster {
	return Roster{
		{ID: "human-agent", Display: "Human Agent", Color: "#ffc800"},
		{ID: "idea-creator-agent", Display: "Creator Agent", Color: "#73f7dd"},
		{ID: "idea-critic-agent", Display: "Critic Agent", Color: "#f35b53"},
		{ID: "idea-finalizer-agent", Display: "Finalizer Agent", Color: "#d473f7"},
		{ID: "risk-estimator-agent", Display: "Risk Estimator", Color: "#6fa8dc"},
	}
}

func (r Roster) IDs() []string {
	ids := make([]string, 0, len(r))
	for _, a := range r {
		ids = append(ids, a.ID)
	}
	return ids
}

func (r Roster) Contains(id string) bool {
	for _, a := range r {
		if a.ID == id {
			return true
		}
	}
	return false
}
