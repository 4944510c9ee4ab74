package game

import (
	"go-match/internal/board"
	"go-match/internal/state"
)

// Game encapsulates one board and its turn logic, independent of the UI.
type Game struct {
	Board *board.Board
	State *state.State
}

// NewGame initializes a new game instance.
func NewGame(b *board.Board) *Game {
	return &Game{
		Board: b,
		State: state.NewState(b),
	}
}

// Init initializes the game state.
func (g *Game) Init() {
	g.State.Init()
}

// HandleSelect processes a card selection.
func (g *Game) HandleSelect(pos int) state.Outcome {
	return g.State.Select(pos)
}

// HandleResolve hides a mismatched pair once its display delay is over.
func (g *Game) HandleResolve(pair [2]int) bool {
	return g.State.ResolveMismatch(pair)
}

func (g *Game) Moves() int {
	return g.State.Moves
}

func (g *Game) IsCleared() bool {
	return g.State.Cleared()
}
