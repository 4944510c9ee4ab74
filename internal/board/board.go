package board

import (
	"errors"
	"fmt"
	"math/rand"
)

const (
	MinSide = 2
	MaxSide = 10
)

// ErrInvalidConfiguration is returned when the grid dimensions are out of
// bounds or would leave an unpaired card.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Exposure is the face state of a single card.
type Exposure int

const (
	Hidden Exposure = iota
	Revealed
	Matched
)

func (e Exposure) String() string {
	switch e {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Card is one tile on the board. Exactly one other card shares its Identity.
type Card struct {
	Identity string
	Position int
	Exposure Exposure
}

type Board struct {
	Rows  int
	Cols  int
	Cards []Card
}

// Validate checks grid dimensions without building anything.
func Validate(rows, cols int) error {
	if rows < MinSide || rows > MaxSide || cols < MinSide || cols > MaxSide {
		return fmt.Errorf("%w: %dx%d, each side must be between %d and %d",
			ErrInvalidConfiguration, rows, cols, MinSide, MaxSide)
	}
	if (rows*cols)%2 != 0 {
		return fmt.Errorf("%w: %dx%d has an odd number of cards", ErrInvalidConfiguration, rows, cols)
	}
	return nil
}

// Generate builds a shuffled board of rows*cols cards. Identities are taken
// from pool in order, wrapping around when the pool is smaller than the number
// of pairs needed.
func Generate(rows, cols int, pool []string, rng *rand.Rand) (*Board, error) {
	if err := Validate(rows, cols); err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: empty identity pool", ErrInvalidConfiguration)
	}

	total := rows * cols
	pairs := total / 2

	cards := make([]Card, total)
	for i := 0; i < pairs; i++ {
		id := pool[i%len(pool)]
		cards[i] = Card{Identity: id}
		cards[i+pairs] = Card{Identity: id}
	}

	shuffle(cards, rng)

	for i := range cards {
		cards[i].Position = i
	}

	return &Board{Rows: rows, Cols: cols, Cards: cards}, nil
}

// shuffle is a Fisher-Yates shuffle walking down from the last card.
func shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Pairs returns the number of pairs on the board.
func (b *Board) Pairs() int {
	return len(b.Cards) / 2
}

// At returns the card at the given row and column, or nil when out of range.
func (b *Board) At(row, col int) *Card {
	if row < 0 || row >= b.Rows || col < 0 || col >= b.Cols {
		return nil
	}
	return &b.Cards[row*b.Cols+col]
}

// Card returns the card at pos, or nil when out of range.
func (b *Board) Card(pos int) *Card {
	if pos < 0 || pos >= len(b.Cards) {
		return nil
	}
	return &b.Cards[pos]
}

func (b *Board) MatchedCount() int {
	n := 0
	for _, c := range b.Cards {
		if c.Exposure == Matched {
			n++
		}
	}
	return n
}

func (b *Board) MatchedPairs() int {
	return b.MatchedCount() / 2
}

// AllMatched reports whether every card on the board has been matched.
func (b *Board) AllMatched() bool {
	return b.MatchedCount() == len(b.Cards)
}
