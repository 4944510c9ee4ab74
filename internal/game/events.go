package game

import (
	"go-match/internal/state"
)

type EventKind int

const (
	EventStarted EventKind = iota
	EventTick
	EventPairResolved
	EventMismatchCleared
	EventGameCompleted
	EventRestarted
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventTick:
		return "tick"
	case EventPairResolved:
		return "pairResolved"
	case EventMismatchCleared:
		return "mismatchCleared"
	case EventGameCompleted:
		return "gameCompleted"
	case EventRestarted:
		return "restarted"
	default:
		return "unknown"
	}
}

// Event is what the session reports to the presentation layer. Fields that do
// not apply to a kind are left zero.
type Event struct {
	Kind           EventKind
	Outcome        state.Outcome
	Moves          int
	ElapsedSeconds int
	ActivePlayer   int
	Scores         []int
	Winners        []int
}

// Listener receives session events on the goroutine that caused them.
type Listener func(Event)
