package models

type State int

const (
	StateIdle State = iota
	StateAwaitingDetails
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDetails:
		return "awaiting_details"
	default:
		return "unknown"
	}
}
