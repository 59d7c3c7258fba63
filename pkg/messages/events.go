package messages

import "idea-dashboard/pkg/models"

// Event is published to subscribers of the dashboard.
type Event interface {
	EventType() string
}

// SnapshotCommitted is emitted after a poll batch has settled and replaced
// the visible snapshot.
type SnapshotCommitted struct {
	Cycle    uint64          `json:"cycle"`
	Snapshot models.Snapshot `json:"snapshot"`
	Loading  bool            `json:"loading"`
}

func (SnapshotCommitted) EventType() string { return "snapshot" }

// LoadingChanged is emitted when the Loading Flag changes without a commit,
// which happens when the last in-flight batch is dropped as stale.
type LoadingChanged struct {
	Cycle   uint64 `json:"cycle"`
	Loading bool   `json:"loading"`
}

func (LoadingChanged) EventType() string { return "loading" }

// StatusChanged is emitted on every orchestration status transition.
type StatusChanged struct {
	Status models.Status `json:"status"`
}

func (StatusChanged) EventType() string { return "status" }

// Hook receives events synchronously from the owning actor, in commit order.
type Hook func(Event)
