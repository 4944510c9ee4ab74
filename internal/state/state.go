package state

import (
	"context"
	"errors"
	"go-match/internal/board"

	"github.com/looplab/fsm"
)

// OutcomeKind describes what a single selection did to the board.
type OutcomeKind int

const (
	Ignored OutcomeKind = iota
	Revealed
	Matched
	Mismatch
)

func (k OutcomeKind) String() string {
	switch k {
	case Ignored:
		return "ignored"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	case Mismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Outcome is returned for every selection. Pair holds the two positions in
// selection order for Matched and Mismatch; for Revealed only Pair[0] is set.
type Outcome struct {
	Kind OutcomeKind
	Pair [2]int
}

// Resolved reports whether the outcome completed a pair of selections.
func (o Outcome) Resolved() bool {
	return o.Kind == Matched || o.Kind == Mismatch
}

var errNotSelectable = errors.New("card not selectable")

// State tracks exposure for one board. At most two cards are exposed and
// unresolved at any time; while two are exposed after a mismatch, every
// selection is ignored until ResolveMismatch is called.
type State struct {
	Board   *board.Board
	Exposed []int
	Moves   int
	FSM     *fsm.FSM

	outcome Outcome
}

func NewState(b *board.Board) *State {
	s := &State{
		Board: b,
	}

	s.FSM = fsm.NewFSM(
		"start",
		getStateTransitions(),
		getStateCallbacks(s),
	)

	return s
}

// Init moves the machine out of its start state. Selections before Init are
// ignored.
func (s *State) Init() {
	_ = s.FSM.Event(context.Background(), "initGame")
}

// Select exposes the card at pos and, when it is the second exposed card,
// resolves the pair.
func (s *State) Select(pos int) Outcome {
	s.outcome = Outcome{Kind: Ignored, Pair: [2]int{-1, -1}}

	// Selecting while a mismatched pair is still showing, or after the board
	// is cleared, has no transition and comes back as an error.
	if err := s.FSM.Event(context.Background(), "reveal", pos); err != nil {
		return Outcome{Kind: Ignored, Pair: [2]int{-1, -1}}
	}
	return s.outcome
}

// ResolveMismatch hides a pending mismatched pair again. It returns false if
// pair is not the pair currently awaiting resolution.
func (s *State) ResolveMismatch(pair [2]int) bool {
	if !s.Pending() || s.Exposed[0] != pair[0] || s.Exposed[1] != pair[1] {
		return false
	}
	return s.FSM.Event(context.Background(), "conceal") == nil
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "initGame", Src: []string{"start"}, Dst: "idle"},

		// Selection
		{Name: "reveal", Src: []string{"idle"}, Dst: "oneExposed"},
		{Name: "reveal", Src: []string{"oneExposed"}, Dst: "comparing"},

		// Pair resolution
		{Name: "match", Src: []string{"comparing"}, Dst: "idle"},
		{Name: "clear", Src: []string{"comparing"}, Dst: "cleared"},
		{Name: "mismatch", Src: []string{"comparing"}, Dst: "pairExposed"},
		{Name: "conceal", Src: []string{"pairExposed"}, Dst: "idle"},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"before_reveal": func(ctx context.Context, e *fsm.Event) {
			pos := -1
			if len(e.Args) > 0 {
				if p, ok := e.Args[0].(int); ok {
					pos = p
				}
			}

			card := s.Board.Card(pos)
			if card == nil || card.Exposure != board.Hidden {
				e.Cancel(errNotSelectable)
				return
			}

			card.Exposure = board.Revealed
			s.Exposed = append(s.Exposed, pos)
		},
		"enter_oneExposed": func(ctx context.Context, e *fsm.Event) {
			s.outcome = Outcome{Kind: Revealed, Pair: [2]int{s.Exposed[0], -1}}
		},
		"enter_comparing": func(ctx context.Context, e *fsm.Event) {
			pair := [2]int{s.Exposed[0], s.Exposed[1]}
			s.Moves++

			first := s.Board.Card(pair[0])
			second := s.Board.Card(pair[1])

			if first.Identity != second.Identity {
				s.outcome = Outcome{Kind: Mismatch, Pair: pair}
				e.FSM.Event(ctx, "mismatch")
				return
			}

			first.Exposure = board.Matched
			second.Exposure = board.Matched
			s.Exposed = s.Exposed[:0]
			s.outcome = Outcome{Kind: Matched, Pair: pair}

			if s.Board.AllMatched() {
				e.FSM.Event(ctx, "clear")
				return
			}
			e.FSM.Event(ctx, "match")
		},
		"before_conceal": func(ctx context.Context, e *fsm.Event) {
			for _, pos := range s.Exposed {
				s.Board.Cards[pos].Exposure = board.Hidden
			}
			s.Exposed = s.Exposed[:0]
		},
	}
}
