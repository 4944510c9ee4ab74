package game

import (
	"context"
	"errors"
	"fmt"
	"go-match/internal/board"
	"go-match/internal/clock"
	"go-match/internal/config"
	"go-match/internal/scoring"
	"go-match/internal/state"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog"
)

// ErrSessionActive is returned by Start when a game is already running or
// finished and has not been restarted.
var ErrSessionActive = errors.New("session already started")

type Status int

const (
	NotStarted Status = iota
	InProgress
	Completed
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "notStarted"
	case InProgress:
		return "inProgress"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

type Options struct {
	Mode          config.Mode
	MismatchDelay time.Duration
	Pool          []string
	Rand          *rand.Rand
	Logger        zerolog.Logger
}

type Player struct {
	Name  string
	Score int
}

// Session owns one game at a time: mode, players, clock and lifecycle.
// All methods, and every scheduled callback, must run on the same goroutine.
type Session struct {
	ID             string
	Mode           config.Mode
	Players        []Player
	ActivePlayer   int
	ElapsedSeconds int
	Rows           int
	Cols           int
	CurrentGame    *Game
	Options        Options
	Results        *scoring.Scoring
	FSM            *fsm.FSM
	Log            zerolog.Logger

	sched      clock.Scheduler
	rng        *rand.Rand
	tick       clock.Timer
	pending    clock.Timer
	generation int
	listeners  []Listener
}

func NewSession(opts Options, sched clock.Scheduler, storage scoring.ResultStorage) *Session {
	if opts.Mode == "" {
		opts.Mode = config.SinglePlayer
	}
	if len(opts.Pool) == 0 {
		opts.Pool = board.DefaultPool
	}
	if opts.MismatchDelay < 0 {
		opts.MismatchDelay = 0
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		Mode:    opts.Mode,
		Options: opts,
		Results: scoring.InitScoring(storage),
		Log:     opts.Logger,
		sched:   sched,
		rng:     rng,
	}
	s.resetPlayers()

	s.FSM = fsm.NewFSM(
		"notStarted",
		fsm.Events{
			{Name: "start", Src: []string{"notStarted"}, Dst: "inProgress"},
			{Name: "complete", Src: []string{"inProgress"}, Dst: "completed"},
			{Name: "restart", Src: []string{"inProgress", "completed"}, Dst: "notStarted"},
		},
		fsm.Callbacks{
			"enter_inProgress": func(ctx context.Context, e *fsm.Event) {
				s.armTick()
				s.Log.Info().
					Str("session", s.ID).
					Str("mode", string(s.Mode)).
					Int("rows", s.Rows).
					Int("cols", s.Cols).
					Msg("game started")
				s.emit(Event{Kind: EventStarted, ActivePlayer: s.ActivePlayer})
			},
			"enter_completed": func(ctx context.Context, e *fsm.Event) {
				s.stopTimers()
				s.recordResult()
				s.Log.Info().
					Str("session", s.ID).
					Int("moves", s.Moves()).
					Int("elapsed", s.ElapsedSeconds).
					Ints("scores", s.Scores()).
					Msg("game completed")
				s.emit(Event{
					Kind:           EventGameCompleted,
					Moves:          s.Moves(),
					ElapsedSeconds: s.ElapsedSeconds,
					Scores:         s.Scores(),
					Winners:        s.Winners(),
				})
			},
			"enter_notStarted": func(ctx context.Context, e *fsm.Event) {
				s.stopTimers()
				s.generation++
				s.Log.Info().Str("session", s.ID).Str("from", e.Src).Msg("game restarted")
				s.CurrentGame = nil
				s.ElapsedSeconds = 0
				s.resetPlayers()
				s.emit(Event{Kind: EventRestarted})
			},
		},
	)

	return s
}

// Subscribe registers l for all future events.
func (s *Session) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Session) Status() Status {
	switch s.FSM.Current() {
	case "inProgress":
		return InProgress
	case "completed":
		return Completed
	default:
		return NotStarted
	}
}

// Start builds a new board and starts the clock.
func (s *Session) Start(rows, cols int) error {
	if s.Status() != NotStarted {
		return ErrSessionActive
	}

	b, err := board.Generate(rows, cols, s.Options.Pool, s.rng)
	if err != nil {
		s.Log.Warn().Err(err).Int("rows", rows).Int("cols", cols).Msg("rejected grid size")
		return fmt.Errorf("start game: %w", err)
	}

	s.generation++
	s.ID = uuid.NewString()
	s.Rows, s.Cols = rows, cols
	s.ElapsedSeconds = 0
	s.resetPlayers()

	g := NewGame(b)
	g.Init()
	s.CurrentGame = g

	return s.FSM.Event(context.Background(), "start")
}

// Restart abandons the current game and returns to NotStarted.
func (s *Session) Restart() {
	if s.Status() == NotStarted {
		return
	}
	_ = s.FSM.Event(context.Background(), "restart")
}

// Select forwards a card selection to the current game. Selections outside
// an in-progress game are ignored.
func (s *Session) Select(pos int) state.Outcome {
	if s.Status() != InProgress || s.CurrentGame == nil {
		return state.Outcome{Kind: state.Ignored, Pair: [2]int{-1, -1}}
	}

	out := s.CurrentGame.HandleSelect(pos)
	if out.Resolved() {
		s.onPairResolved(out)
	}
	return out
}

// onPairResolved applies scoring and turn order for a completed pair of
// selections. The turn passes after every pair in two-player mode, matched or
// not, and it passes before a mismatched pair is hidden again.
func (s *Session) onPairResolved(out state.Outcome) {
	scorer := s.ActivePlayer
	if s.Mode == config.TwoPlayer {
		if out.Kind == state.Matched {
			s.Players[s.ActivePlayer].Score++
		}
		s.ActivePlayer = (s.ActivePlayer + 1) % len(s.Players)
	}

	s.Log.Debug().
		Str("session", s.ID).
		Str("outcome", out.Kind.String()).
		Ints("pair", out.Pair[:]).
		Int("player", scorer).
		Int("moves", s.Moves()).
		Msg("pair resolved")

	s.emit(Event{
		Kind:           EventPairResolved,
		Outcome:        out,
		Moves:          s.Moves(),
		ElapsedSeconds: s.ElapsedSeconds,
		ActivePlayer:   s.ActivePlayer,
		Scores:         s.Scores(),
	})

	if out.Kind == state.Mismatch {
		s.scheduleConceal(out.Pair)
	}

	if s.CurrentGame.IsCleared() {
		_ = s.FSM.Event(context.Background(), "complete")
	}
}

func (s *Session) scheduleConceal(pair [2]int) {
	gen := s.generation
	s.pending = s.sched.AfterFunc(s.Options.MismatchDelay, func() {
		if gen != s.generation || s.CurrentGame == nil {
			return
		}
		s.pending = nil
		if s.CurrentGame.HandleResolve(pair) {
			s.emit(Event{
				Kind:         EventMismatchCleared,
				Outcome:      state.Outcome{Kind: state.Mismatch, Pair: pair},
				Moves:        s.Moves(),
				ActivePlayer: s.ActivePlayer,
			})
		}
	})
}

func (s *Session) armTick() {
	gen := s.generation
	s.tick = s.sched.AfterFunc(time.Second, func() {
		if gen != s.generation || s.Status() != InProgress {
			return
		}
		s.ElapsedSeconds++
		s.emit(Event{Kind: EventTick, ElapsedSeconds: s.ElapsedSeconds, Moves: s.Moves()})
		s.armTick()
	})
}

func (s *Session) stopTimers() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) recordResult() {
	if s.Results == nil {
		return
	}
	_, err := s.Results.Record(scoring.ResultEntry{
		ID:             s.ID,
		Board:          scoring.BoardKey(s.Rows, s.Cols),
		Mode:           string(s.Mode),
		Moves:          s.Moves(),
		ElapsedSeconds: s.ElapsedSeconds,
		Scores:         s.Scores(),
	})
	if err != nil {
		s.Log.Error().Err(err).Str("session", s.ID).Msg("record result")
	}
}

func (s *Session) emit(e Event) {
	for _, l := range s.listeners {
		l(e)
	}
}

func (s *Session) resetPlayers() {
	n := 1
	if s.Mode == config.TwoPlayer {
		n = 2
	}
	s.Players = make([]Player, n)
	for i := range s.Players {
		s.Players[i].Name = fmt.Sprintf("Player %d", i+1)
	}
	s.ActivePlayer = 0
}

// Moves returns the number of completed pairs of selections.
func (s *Session) Moves() int {
	if s.CurrentGame == nil {
		return 0
	}
	return s.CurrentGame.Moves()
}

// Scores returns per-player scores in two-player mode and nil otherwise.
func (s *Session) Scores() []int {
	if s.Mode != config.TwoPlayer {
		return nil
	}
	scores := make([]int, len(s.Players))
	for i, p := range s.Players {
		scores[i] = p.Score
	}
	return scores
}

// Winners returns the indices of the players with the highest score. Both
// players are returned on a tie. Single-player sessions have no winners.
func (s *Session) Winners() []int {
	if s.Mode != config.TwoPlayer {
		return nil
	}
	best := -1
	var winners []int
	for i, p := range s.Players {
		switch {
		case p.Score > best:
			best = p.Score
			winners = []int{i}
		case p.Score == best:
			winners = append(winners, i)
		}
	}
	return winners
}

// SetMode switches between single and two-player play. It only applies
// before a game starts.
func (s *Session) SetMode(m config.Mode) bool {
	if s.Status() != NotStarted {
		return false
	}
	s.Mode = m
	s.Options.Mode = m
	s.resetPlayers()
	return true
}
