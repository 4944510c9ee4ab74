package main

import (
	"flag"
	"fmt"

	"go-match/internal/board"
	"go-match/internal/clock"
	"go-match/internal/config"
	"go-match/internal/game"
	"go-match/internal/logging"
	"go-match/internal/scoring"
	"math/rand"
	"os"
	"strconv"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const invalidGridMessage = "Invalid grid size! Ensure the total number of cards is even and values are between 2 and 10."

type LocalState struct {
	Session *game.Session
	Inputs  []textinput.Model // rows, cols
	Focus   int
	Cursor  int
	Err     string
	Summary string
	Help    help.Model
	Width   int
}

func initialModel(sess *game.Session, rows, cols int) *LocalState {
	s := &LocalState{
		Session: sess,
		Help:    help.New(),
	}

	for i, v := range []int{rows, cols} {
		ti := textinput.New()
		ti.CharLimit = 2
		ti.Width = 3
		ti.Prompt = ""
		ti.SetValue(strconv.Itoa(v))
		if i == 0 {
			ti.Focus()
		}
		s.Inputs = append(s.Inputs, ti)
	}

	sess.Subscribe(s.onSessionEvent)
	return s
}

// onSessionEvent runs inside Update, so it can touch the model directly.
func (s *LocalState) onSessionEvent(e game.Event) {
	switch e.Kind {
	case game.EventStarted:
		s.Cursor = 0
		s.Summary = ""
		s.Err = ""
	case game.EventGameCompleted:
		s.Summary = completionSummary(s.Session, e)
	case game.EventRestarted:
		s.Summary = ""
	}
}

func (s *LocalState) Init() tea.Cmd {
	return textinput.Blink
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clock.FireMsg:
		msg.Fire()
		return s, nil
	case tea.WindowSizeMsg:
		s.Width = msg.Width
		s.Help.Width = msg.Width
		return s, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			s.Session.Restart()
			return s, tea.Quit
		}
		if s.Session.Status() == game.NotStarted {
			return s.updateSetup(msg)
		}
		return s.updatePlay(msg)
	}

	if s.Session.Status() == game.NotStarted {
		var cmd tea.Cmd
		s.Inputs[s.Focus], cmd = s.Inputs[s.Focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LocalState) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Next):
		s.Inputs[s.Focus].Blur()
		s.Focus = (s.Focus + 1) % len(s.Inputs)
		return s, s.Inputs[s.Focus].Focus()

	case key.Matches(msg, keys.Mode):
		mode := config.TwoPlayer
		if s.Session.Mode == config.TwoPlayer {
			mode = config.SinglePlayer
		}
		s.Session.SetMode(mode)
		return s, nil

	case key.Matches(msg, keys.Start):
		s.startGame()
		return s, nil
	}

	// Only digits reach the grid size inputs.
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return s, nil
			}
		}
	}

	var cmd tea.Cmd
	s.Inputs[s.Focus], cmd = s.Inputs[s.Focus].Update(msg)
	return s, cmd
}

func (s *LocalState) startGame() {
	rows, errRows := strconv.Atoi(s.Inputs[0].Value())
	cols, errCols := strconv.Atoi(s.Inputs[1].Value())
	if errRows != nil || errCols != nil {
		s.Err = invalidGridMessage
		return
	}
	if err := s.Session.Start(rows, cols); err != nil {
		s.Err = invalidGridMessage
		return
	}
}

func (s *LocalState) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Restart) {
		s.Session.Restart()
		return s, s.Inputs[s.Focus].Focus()
	}

	g := s.Session.CurrentGame
	if g == nil {
		return s, nil
	}
	rows, cols := g.Board.Rows, g.Board.Cols
	row, col := s.Cursor/cols, s.Cursor%cols

	switch {
	case key.Matches(msg, keys.Up):
		row = (row - 1 + rows) % rows
	case key.Matches(msg, keys.Down):
		row = (row + 1) % rows
	case key.Matches(msg, keys.Left):
		col = (col - 1 + cols) % cols
	case key.Matches(msg, keys.Right):
		col = (col + 1) % cols
	case key.Matches(msg, keys.Select):
		s.Session.Select(s.Cursor)
		return s, nil
	}
	s.Cursor = row*cols + col
	return s, nil
}

type strictIntFlag int

func (i *strictIntFlag) String() string {
	return fmt.Sprint(int(*i))
}

func (i *strictIntFlag) Set(s string) error {
	if s == "true" {
		return fmt.Errorf("value required (format: -flag=value)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*i = strictIntFlag(v)
	return nil
}

func (i *strictIntFlag) IsBoolFlag() bool { return true }

type modeFlag config.Mode

func (m *modeFlag) String() string {
	return string(*m)
}

func (m *modeFlag) Set(s string) error {
	if s == "true" {
		*m = modeFlag(config.TwoPlayer)
		return nil
	}
	parsed, err := config.ParseMode(s)
	if err != nil {
		return err
	}
	*m = modeFlag(parsed)
	return nil
}

func (m *modeFlag) IsBoolFlag() bool { return true }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// defaults come from the environment
	rows := strictIntFlag(cfg.Rows)
	cols := strictIntFlag(cfg.Cols)
	mode := modeFlag(cfg.Mode)
	seed := cfg.Seed
	delay := cfg.MismatchDelay
	logFile := cfg.LogFile

	flag.Var(&rows, "rows", "Number of rows (2-10)")
	flag.Var(&rows, "r", "Number of rows (shorthand)")

	flag.Var(&cols, "cols", "Number of columns (2-10)")
	flag.Var(&cols, "c", "Number of columns (shorthand)")

	flag.Var(&mode, "two", "Two players taking turns on one keyboard")
	flag.Var(&mode, "2p", "Two players (shorthand)")

	flag.Int64Var(&seed, "seed", seed, "Shuffle seed (0 picks one from the clock)")
	flag.DurationVar(&delay, "delay", delay, "How long a mismatched pair stays face up")
	flag.StringVar(&logFile, "log", logFile, "Write logs to this file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [identity files or directories...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "    -r, --rows=N           Number of rows, 2 to 10 (default %d)\n", cfg.Rows)
		fmt.Fprintf(os.Stderr, "    -c, --cols=N           Number of columns, 2 to 10 (default %d)\n", cfg.Cols)
		fmt.Fprintf(os.Stderr, "   -2p, --two              Two players taking turns\n")
		fmt.Fprintf(os.Stderr, "        --seed=N           Shuffle seed\n")
		fmt.Fprintf(os.Stderr, "        --delay=1s         Mismatch display time\n")
		fmt.Fprintf(os.Stderr, "        --log=FILE         Write logs to FILE\n")
		fmt.Fprintf(os.Stderr, "    -h, --help             Show this help message\n")
	}

	flag.Parse()

	cfg.Rows, cfg.Cols = int(rows), int(cols)
	cfg.Mode = config.Mode(mode)
	cfg.Seed = seed
	cfg.MismatchDelay = delay
	cfg.LogFile = logFile

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := cfg.Validate(); err != nil {
		// Not fatal: the setup screen lets the player fix it.
		logger.Warn().Err(err).Msg("configured grid rejected")
	}

	pool := board.DefaultPool
	poolPaths := flag.Args()
	if len(poolPaths) == 0 {
		poolPaths = cfg.PoolPaths
	}
	if len(poolPaths) > 0 {
		ids, err := game.LoadIdentities(poolPaths)
		if err != nil {
			fmt.Printf("Error loading identities: %v\n", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			fmt.Println("Error loading identities: no identities found in provided paths")
			os.Exit(1)
		}
		pool = ids
	}

	sched := clock.NewProgram()
	sess := game.NewSession(game.Options{
		Mode:          cfg.Mode,
		MismatchDelay: cfg.MismatchDelay,
		Pool:          pool,
		Rand:          rand.New(rand.NewSource(cfg.RandSeed(time.Now()))),
		Logger:        logger,
	}, sched, scoring.NewMemoryStorage())

	model := initialModel(sess, cfg.Rows, cfg.Cols)

	p := tea.NewProgram(model)
	sched.Attach(p)
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited")
		fmt.Printf("Error starting the program: %v\n", err)
	}
}
