package models

const (
	LoadingPlaceholder = "Loading..."
	EmptyPlaceholder   = "No log."
)

// LogResult is the settled outcome of one agent's fetch within a cycle.
type LogResult struct {
	AgentID string
	Text    string
	Err     error
}

// Content is the text shown for the agent: the log body, or the error
// message when the fetch failed.
func (r LogResult) Content() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Text
}

// Snapshot maps agent id to the most recent log tail. A committed snapshot
// holds exactly one entry per roster agent and is never mutated after commit.
type Snapshot map[string]string

// BuildSnapshot assembles a snapshot from a settled batch. Agents missing
// from results are recorded with an empty body so every roster key exists.
func BuildSnapshot(roster Roster, results map[string]LogResult) Snapshot {
	s := make(Snapshot, len(roster))
	for _, a := range roster {
		res, ok := results[a.ID]
		if !ok {
			s[a.ID] = ""
			continue
		}
		s[a.ID] = res.Content()
	}
	return s
}

func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	c := make(Snapshot, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Placeholder picks the text for an agent that has nothing to show yet.
func Placeholder(loading bool) string {
	if loading {
		return LoadingPlaceholder
	}
	return EmptyPlaceholder
}

// Display returns the text to render for agentID.
func (s Snapshot) Display(agentID string, loading bool) string {
	if text := s[agentID]; text != "" {
		return text
	}
	return Placeholder(loading)
}

// PollerState is what the poller reports to readers.
type PollerState struct {
	Snapshot Snapshot `json:"snapshot"`
	Loading  bool     `json:"loading"`
	Cycle    uint64   `json:"cycle"`
	InFlight int      `json:"in_flight"`
}
