// Package complaint is the per-user complaint intake state machine.
package complaint

import "combain-support-bot/internal/models"

type Event int

const (
	// EventComplaintDetected: the classifier flagged a message as a complaint.
	EventComplaintDetected Event = iota
	// EventComplainCommand: the user sent /complain.
	EventComplainCommand
	// EventDetailsForwarded: the detail text reached the operator.
	EventDetailsForwarded
	// EventReclassified: the detail text was re-checked and is not a complaint.
	EventReclassified
	// EventForwardFailed: the operator notification could not be sent.
	EventForwardFailed
)

type Action int

const (
	ActionNone Action = iota
	ActionAskDetails
	ActionConfirm
	ActionAskClarify
	ActionAskResend
)

// Transition is the whole state machine. Pairs not listed keep the state.
func Transition(st models.State, ev Event) (models.State, Action) {
	switch st {
	case models.StateIdle:
		switch ev {
		case EventComplaintDetected, EventComplainCommand:
			return models.StateAwaitingDetails, ActionAskDetails
		}
	case models.StateAwaitingDetails:
		switch ev {
		case EventComplainCommand:
			return models.StateAwaitingDetails, ActionAskDetails
		case EventDetailsForwarded:
			return models.StateIdle, ActionConfirm
		case EventReclassified:
			return models.StateIdle, ActionAskClarify
		case EventForwardFailed:
			return models.StateAwaitingDetails, ActionAskResend
		}
	}
	return st, ActionNone
}

// Store is the slice of the session store the tracker needs.
type Store interface {
	State(userID int64) models.State
	SetState(userID int64, st models.State)
}

type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Pending reports whether the next message from the user is complaint detail.
func (t *Tracker) Pending(userID int64) bool {
	return t.store.State(userID) == models.StateAwaitingDetails
}

// Apply runs ev through Transition and stores the new state.
func (t *Tracker) Apply(userID int64, ev Event) Action {
	cur := t.store.State(userID)
	next, action := Transition(cur, ev)
	if next != cur {
		t.store.SetState(userID, next)
	}
	return action
}
