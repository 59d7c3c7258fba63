package models

import (
	"errors"
	"strings"
)

type State string

const (
	Idle    State = "idle"
	Pending State = "pending"
	Done    State = "done"
	Failed  State = "failed"
)

const (
	startingText = "Starting..."
	responseText = "Response: "
	errorText    = "Error: "
)

var ErrEmptyIdea = errors.New("idea text is required")

// Status is the lifecycle of the latest orchestration submission.
type Status struct {
	State      State  `json:"state"`
	Text       string `json:"text"`
	Generation uint64 `json:"generation"`
}

func IdleStatus() Status {
	return Status{State: Idle}
}

func PendingStatus(gen uint64) Status {
	return Status{State: Pending, Text: startingText, Generation: gen}
}

func ResponseStatus(gen uint64, body string) Status {
	return Status{State: Done, Text: responseText + body, Generation: gen}
}

func ErrorStatus(gen uint64, err error) Status {
	return Status{State: Failed, Text: errorText + err.Error(), Generation: gen}
}

// Terminal reports whether the submission has finished.
func (s Status) Terminal() bool {
	return s.State == Done || s.State == Failed
}

// ValidateIdea trims the idea and rejects it when nothing is left.
func ValidateIdea(idea string) (string, error) {
	trimmed := strings.TrimSpace(idea)
	if trimmed == "" {
		return "", ErrEmptyIdea
	}
	return trimmed, nil
}
