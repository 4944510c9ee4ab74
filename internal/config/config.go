package config

import (
	"errors"
	"fmt"
	"go-match/internal/board"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Mode selects single-player or hot-seat two-player play.
type Mode string

const (
	SinglePlayer Mode = "single"
	TwoPlayer    Mode = "two"
)

// ParseMode accepts the spellings used on the command line and in .env files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "1", "one", "1p":
		return SinglePlayer, nil
	case "two", "2", "2p", "multi", "multiplayer":
		return TwoPlayer, nil
	}
	return "", fmt.Errorf("unknown mode %q (use single or two)", s)
}

// UnmarshalText lets env parse MEMGAME_MODE directly into a Mode.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type Config struct {
	Rows          int           `env:"MEMGAME_ROWS" envDefault:"4"`
	Cols          int           `env:"MEMGAME_COLS" envDefault:"4"`
	Mode          Mode          `env:"MEMGAME_MODE" envDefault:"single"`
	MismatchDelay time.Duration `env:"MEMGAME_MISMATCH_DELAY" envDefault:"1s"`
	Seed          int64         `env:"MEMGAME_SEED" envDefault:"0"`
	LogFile       string        `env:"MEMGAME_LOG_FILE"`
	LogLevel      string        `env:"MEMGAME_LOG_LEVEL" envDefault:"info"`
	PoolPaths     []string      `env:"MEMGAME_POOL" envSeparator:","`
}

// Load reads an optional .env file from the working directory and then the
// environment.
func Load() (Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit .env paths. Missing files are skipped.
func LoadFiles(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the grid and timing settings.
func (c Config) Validate() error {
	if err := board.Validate(c.Rows, c.Cols); err != nil {
		return err
	}
	if c.MismatchDelay < 0 {
		return fmt.Errorf("mismatch delay must not be negative, got %s", c.MismatchDelay)
	}
	return nil
}

// RandSeed returns the configured seed, or now when the seed is 0.
func (c Config) RandSeed(now time.Time) int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return now.UnixNano()
}
