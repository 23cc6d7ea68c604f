package appointment

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is matched by every *InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// Event triggers a lifecycle transition.
type Event string

const (
	EventStart    Event = "start"
	EventFinalize Event = "finalize"
	EventCancel   Event = "cancel"
	// EventNoShow is raised outside the agenda. It is accepted here so that
	// every collaborator checks the same table.
	EventNoShow Event = "no-show"
)

// Guard carries the facts a transition may depend on.
type Guard struct {
	// HasNote is true when the consultation has a non-empty subjective note.
	HasNote bool
}

// InvalidTransitionError reports a rejected transition.
type InvalidTransitionError struct {
	From   Status
	Event  Event
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("cannot %s appointment in status %q", e.Event, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target is ErrInvalidTransition.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type edge struct {
	from  Status
	event Event
}

var transitions = map[edge]Status{
	{StatusScheduled, EventStart}:     StatusInProgress,
	{StatusInProgress, EventFinalize}: StatusFinished,
	{StatusScheduled, EventCancel}:    StatusCancelled,
	{StatusScheduled, EventNoShow}:    StatusNoShow,
	{StatusInProgress, EventNoShow}:   StatusNoShow,
}

// Transition returns the status reached from `from` on event, or an
// *InvalidTransitionError. It never coerces: unknown pairs are rejected.
func Transition(from Status, event Event, guard Guard) (Status, error) {
	to, ok := transitions[edge{from, event}]
	if !ok {
		reason := ""
		switch {
		case from.IsTerminal():
			reason = "status is terminal"
		case event == EventCancel && from == StatusInProgress:
			reason = "consultation already started"
		}
		return "", &InvalidTransitionError{From: from, Event: event, Reason: reason}
	}
	if event == EventFinalize && !guard.HasNote {
		return "", &InvalidTransitionError{From: from, Event: event, Reason: "a subjective note is required"}
	}
	return to, nil
}

// Allowed returns the events accepted from s, in a fixed order.
func Allowed(s Status) []Event {
	var out []Event
	for _, ev := range []Event{EventStart, EventFinalize, EventCancel, EventNoShow} {
		if _, ok := transitions[edge{s, ev}]; ok {
			out = append(out, ev)
		}
	}
	return out
}
