package game

import (
	"errors"
	"go-match/internal/board"
	"go-match/internal/clock"
	"go-match/internal/config"
	"go-match/internal/scoring"
	"go-match/internal/state"
	"math/rand"
	"testing"
	"time"
)

func newTestSession(mode config.Mode) (*Session, *clock.Manual, *[]Event) {
	sched := clock.NewManual()
	s := NewSession(Options{
		Mode:          mode,
		MismatchDelay: time.Second,
		Pool:          []string{"A", "B", "C", "D", "E", "F"},
		Rand:          rand.New(rand.NewSource(1)),
	}, sched, scoring.NewMemoryStorage())

	events := &[]Event{}
	s.Subscribe(func(e Event) { *events = append(*events, e) })
	return s, sched, events
}

// positionsOf maps each identity to its two positions on the board.
func positionsOf(b *board.Board) map[string][]int {
	out := map[string][]int{}
	for _, c := range b.Cards {
		out[c.Identity] = append(out[c.Identity], c.Position)
	}
	return out
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestSession_StartAndValidation(t *testing.T) {
	s, _, _ := newTestSession(config.SinglePlayer)

	if s.Status() != NotStarted {
		t.Fatalf("New session should be NotStarted, got %s", s.Status())
	}

	err := s.Start(3, 3)
	if !errors.Is(err, board.ErrInvalidConfiguration) {
		t.Fatalf("Expected ErrInvalidConfiguration for 3x3, got %v", err)
	}
	if s.Status() != NotStarted {
		t.Errorf("Rejected start should leave NotStarted, got %s", s.Status())
	}

	if err := s.Start(3, 4); err != nil {
		t.Fatalf("Start(3, 4) failed: %v", err)
	}
	if s.Status() != InProgress {
		t.Errorf("Expected InProgress, got %s", s.Status())
	}
	if len(s.CurrentGame.Board.Cards) != 12 || s.CurrentGame.Board.Pairs() != 6 {
		t.Errorf("Expected 12 cards and 6 pairs, got %d cards", len(s.CurrentGame.Board.Cards))
	}
	if s.ID == "" {
		t.Error("Started session should have an id")
	}

	if err := s.Start(2, 2); !errors.Is(err, ErrSessionActive) {
		t.Errorf("Expected ErrSessionActive, got %v", err)
	}
}

func TestSession_SelectBeforeStart(t *testing.T) {
	s, _, _ := newTestSession(config.SinglePlayer)

	if out := s.Select(0); out.Kind != state.Ignored {
		t.Errorf("Expected Ignored before start, got %s", out.Kind)
	}
	if s.Moves() != 0 {
		t.Errorf("Expected 0 moves, got %d", s.Moves())
	}
}

func TestSession_TwoMatchesCompleteTwoByTwo(t *testing.T) {
	s, sched, events := newTestSession(config.SinglePlayer)
	s.Options.Pool = []string{"A", "B"}

	if err := s.Start(2, 2); err != nil {
		t.Fatal(err)
	}
	pos := positionsOf(s.CurrentGame.Board)

	s.Select(pos["A"][0])
	out := s.Select(pos["A"][1])
	if out.Kind != state.Matched {
		t.Fatalf("Expected Matched, got %s", out.Kind)
	}
	if s.Moves() != 1 {
		t.Errorf("Expected 1 move, got %d", s.Moves())
	}
	if s.Status() != InProgress {
		t.Errorf("Expected InProgress after first pair, got %s", s.Status())
	}

	sched.Advance(2 * time.Second)

	s.Select(pos["B"][0])
	out = s.Select(pos["B"][1])
	if out.Kind != state.Matched {
		t.Fatalf("Expected Matched, got %s", out.Kind)
	}
	if s.Moves() != 2 {
		t.Errorf("Expected 2 moves, got %d", s.Moves())
	}
	if s.Status() != Completed {
		t.Fatalf("Expected Completed, got %s", s.Status())
	}

	if countEvents(*events, EventGameCompleted) != 1 {
		t.Fatalf("Expected one GameCompleted event, got %d", countEvents(*events, EventGameCompleted))
	}
	last := (*events)[len(*events)-1]
	if last.Kind != EventGameCompleted || last.Moves != 2 || last.ElapsedSeconds != 2 {
		t.Errorf("Unexpected completion event: %+v", last)
	}
	if last.Scores != nil {
		t.Errorf("Single player completion should carry no scores, got %v", last.Scores)
	}

	// Clock stops on completion.
	sched.Advance(5 * time.Second)
	if s.ElapsedSeconds != 2 {
		t.Errorf("Clock should stop at completion, elapsed %d", s.ElapsedSeconds)
	}
	if sched.Pending() != 0 {
		t.Errorf("Expected no armed timers after completion, got %d", sched.Pending())
	}

	// Result recorded for this board size.
	if s.Results.Attempts("2x2") != 1 {
		t.Errorf("Expected 1 recorded result, got %d", s.Results.Attempts("2x2"))
	}
	if best := s.Results.Best("2x2"); best == nil || best.Moves != 2 || best.ID != s.ID {
		t.Errorf("Unexpected best result: %+v", best)
	}

	// Selections after completion are ignored.
	if out := s.Select(pos["A"][0]); out.Kind != state.Ignored {
		t.Errorf("Expected Ignored after completion, got %s", out.Kind)
	}
}

func TestSession_MismatchDelayAndAlternation(t *testing.T) {
	s, sched, events := newTestSession(config.TwoPlayer)
	s.Options.Pool = []string{"A", "B"}

	if err := s.Start(2, 2); err != nil {
		t.Fatal(err)
	}
	pos := positionsOf(s.CurrentGame.Board)
	a, b := pos["A"][0], pos["B"][0]

	s.Select(a)
	out := s.Select(b)
	if out.Kind != state.Mismatch {
		t.Fatalf("Expected Mismatch, got %s", out.Kind)
	}
	if s.Moves() != 1 {
		t.Errorf("Expected 1 move, got %d", s.Moves())
	}
	// The turn passes immediately, before the cards are hidden.
	if s.ActivePlayer != 1 {
		t.Errorf("Expected player 2 to be active, got index %d", s.ActivePlayer)
	}
	if s.Players[0].Score != 0 {
		t.Errorf("Mismatch should not score, got %d", s.Players[0].Score)
	}

	// Nothing accepted while the pair is showing.
	if out := s.Select(pos["A"][1]); out.Kind != state.Ignored {
		t.Errorf("Expected Ignored during mismatch delay, got %s", out.Kind)
	}

	cards := s.CurrentGame.Board.Cards
	sched.Advance(999 * time.Millisecond)
	if cards[a].Exposure != board.Revealed || cards[b].Exposure != board.Revealed {
		t.Fatal("Cards should stay revealed until the delay is over")
	}

	sched.Advance(time.Millisecond)
	if cards[a].Exposure != board.Hidden || cards[b].Exposure != board.Hidden {
		t.Fatal("Cards should be hidden after the delay")
	}
	if countEvents(*events, EventMismatchCleared) != 1 {
		t.Errorf("Expected one MismatchCleared event, got %d", countEvents(*events, EventMismatchCleared))
	}

	if out := s.Select(a); out.Kind != state.Revealed {
		t.Errorf("Expected Revealed after the delay, got %s", out.Kind)
	}
}

func TestSession_TwoPlayerScoring(t *testing.T) {
	s, _, events := newTestSession(config.TwoPlayer)
	s.Options.Pool = []string{"A", "B", "C"}

	if err := s.Start(2, 3); err != nil {
		t.Fatal(err)
	}
	pos := positionsOf(s.CurrentGame.Board)

	// Player 1 matches A, turn passes anyway.
	s.Select(pos["A"][0])
	s.Select(pos["A"][1])
	if s.Players[0].Score != 1 || s.ActivePlayer != 1 {
		t.Fatalf("After P1 match: scores %v, active %d", s.Scores(), s.ActivePlayer)
	}

	// Player 2 matches B.
	s.Select(pos["B"][0])
	s.Select(pos["B"][1])
	if s.Players[1].Score != 1 || s.ActivePlayer != 0 {
		t.Fatalf("After P2 match: scores %v, active %d", s.Scores(), s.ActivePlayer)
	}

	// Player 1 matches C and wins.
	s.Select(pos["C"][0])
	s.Select(pos["C"][1])
	if s.Status() != Completed {
		t.Fatalf("Expected Completed, got %s", s.Status())
	}

	scores := s.Scores()
	if len(scores) != 2 || scores[0] != 2 || scores[1] != 1 {
		t.Errorf("Expected scores [2 1], got %v", scores)
	}
	winners := s.Winners()
	if len(winners) != 1 || winners[0] != 0 {
		t.Errorf("Expected player 1 to win, got %v", winners)
	}

	last := (*events)[len(*events)-1]
	if last.Kind != EventGameCompleted || len(last.Scores) != 2 || last.Scores[0] != 2 {
		t.Errorf("Unexpected completion event: %+v", last)
	}
}

func TestSession_SinglePlayerNoAlternation(t *testing.T) {
	s, _, _ := newTestSession(config.SinglePlayer)
	s.Options.Pool = []string{"A", "B"}

	if err := s.Start(2, 2); err != nil {
		t.Fatal(err)
	}
	pos := positionsOf(s.CurrentGame.Board)

	s.Select(pos["A"][0])
	s.Select(pos["A"][1])

	if len(s.Players) != 1 || s.ActivePlayer != 0 {
		t.Errorf("Single player should never alternate, active %d", s.ActivePlayer)
	}
	if s.Players[0].Score != 0 {
		t.Errorf("Single player is not scored, got %d", s.Players[0].Score)
	}
	if s.Winners() != nil {
		t.Errorf("Single player has no winners, got %v", s.Winners())
	}
}

func TestSession_Clock(t *testing.T) {
	s, sched, events := newTestSession(config.SinglePlayer)

	sched.Advance(3 * time.Second)
	if s.ElapsedSeconds != 0 {
		t.Errorf("Clock should not run before start, got %d", s.ElapsedSeconds)
	}

	if err := s.Start(4, 4); err != nil {
		t.Fatal(err)
	}
	sched.Advance(3500 * time.Millisecond)
	if s.ElapsedSeconds != 3 {
		t.Errorf("Expected 3 elapsed seconds, got %d", s.ElapsedSeconds)
	}
	if countEvents(*events, EventTick) != 3 {
		t.Errorf("Expected 3 tick events, got %d", countEvents(*events, EventTick))
	}

	s.Restart()
	sched.Advance(5 * time.Second)
	if s.ElapsedSeconds != 0 {
		t.Errorf("Restart should reset and stop the clock, got %d", s.ElapsedSeconds)
	}
	if countEvents(*events, EventTick) != 3 {
		t.Errorf("No ticks expected after restart, got %d", countEvents(*events, EventTick))
	}
}

func TestSession_RestartDuringMismatch(t *testing.T) {
	s, sched, _ := newTestSession(config.TwoPlayer)
	s.Options.Pool = []string{"A", "B"}

	if err := s.Start(2, 2); err != nil {
		t.Fatal(err)
	}
	pos := positionsOf(s.CurrentGame.Board)
	s.Select(pos["A"][0])
	s.Select(pos["B"][0])

	s.Restart()
	if s.Status() != NotStarted {
		t.Fatalf("Expected NotStarted after restart, got %s", s.Status())
	}
	if s.CurrentGame != nil {
		t.Error("Restart should discard the board")
	}
	if s.ActivePlayer != 0 || s.Moves() != 0 {
		t.Errorf("Restart should reset turn and moves, active %d moves %d", s.ActivePlayer, s.Moves())
	}

	// Start again; the stale flip-back must not touch the new board.
	if err := s.Start(2, 2); err != nil {
		t.Fatal(err)
	}
	pos = positionsOf(s.CurrentGame.Board)
	s.Select(pos["A"][0])
	sched.Advance(2 * time.Second)

	if s.CurrentGame.Board.Cards[pos["A"][0]].Exposure != board.Revealed {
		t.Error("Card on the new board should still be revealed")
	}
}

func TestSession_RestartFromCompleted(t *testing.T) {
	s, _, events := newTestSession(config.SinglePlayer)
	s.Options.Pool = []string{"A", "B"}

	// Restart before any game is a no-op.
	s.Restart()
	if countEvents(*events, EventRestarted) != 0 {
		t.Error("Restart from NotStarted should not emit")
	}

	s.Start(2, 2)
	pos := positionsOf(s.CurrentGame.Board)
	for _, id := range []string{"A", "B"} {
		s.Select(pos[id][0])
		s.Select(pos[id][1])
	}
	if s.Status() != Completed {
		t.Fatalf("Expected Completed, got %s", s.Status())
	}

	s.Restart()
	if s.Status() != NotStarted {
		t.Errorf("Expected NotStarted, got %s", s.Status())
	}
	if countEvents(*events, EventRestarted) != 1 {
		t.Errorf("Expected one Restarted event, got %d", countEvents(*events, EventRestarted))
	}
	if err := s.Start(2, 2); err != nil {
		t.Errorf("Start after restart failed: %v", err)
	}
}

func TestSession_SetMode(t *testing.T) {
	s, _, _ := newTestSession(config.SinglePlayer)

	if !s.SetMode(config.TwoPlayer) {
		t.Fatal("SetMode should work before start")
	}
	if len(s.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(s.Players))
	}

	s.Start(2, 2)
	if s.SetMode(config.SinglePlayer) {
		t.Error("SetMode should be refused during a game")
	}
	if s.Mode != config.TwoPlayer {
		t.Errorf("Mode should be unchanged, got %s", s.Mode)
	}
}

func TestSession_TieHasTwoWinners(t *testing.T) {
	s, _, _ := newTestSession(config.TwoPlayer)
	s.Options.Pool = []string{"A", "B"}

	s.Start(2, 2)
	pos := positionsOf(s.CurrentGame.Board)
	for _, id := range []string{"A", "B"} {
		s.Select(pos[id][0])
		s.Select(pos[id][1])
	}

	winners := s.Winners()
	if len(winners) != 2 {
		t.Errorf("Expected a tie, got winners %v with scores %v", winners, s.Scores())
	}
}
