package state

import (
	"go-match/internal/board"
)

// Pending reports whether a mismatched pair is waiting to be hidden again.
func (s State) Pending() bool {
	return s.FSM.Current() == "pairExposed"
}

// Cleared reports whether every card on the board has been matched.
func (s State) Cleared() bool {
	return s.FSM.Current() == "cleared"
}

// Started reports whether Init has been called.
func (s State) Started() bool {
	return s.FSM.Current() != "start"
}

// PendingPair returns the mismatched pair awaiting resolution.
func (s State) PendingPair() ([2]int, bool) {
	if !s.Pending() {
		return [2]int{-1, -1}, false
	}
	return [2]int{s.Exposed[0], s.Exposed[1]}, true
}

// ExposedPositions returns a copy of the currently exposed, unresolved positions.
func (s State) ExposedPositions() []int {
	out := make([]int, len(s.Exposed))
	copy(out, s.Exposed)
	return out
}

// IsSelectable reports whether a selection at pos would be accepted.
func (s State) IsSelectable(pos int) bool {
	if !s.Started() || s.Pending() || s.Cleared() {
		return false
	}
	card := s.Board.Card(pos)
	return card != nil && card.Exposure == board.Hidden
}

// IsFaceUp reports whether the card at pos should be drawn face up.
func (s State) IsFaceUp(pos int) bool {
	card := s.Board.Card(pos)
	return card != nil && card.Exposure != board.Hidden
}
