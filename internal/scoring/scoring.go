package scoring

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Scoring records finished games and answers best-result questions per
// board size.
type Scoring struct {
	storage ResultStorage // The interface for loading/saving results.
	last    *ResultEntry
	now     func() time.Time
}

// InitScoring creates a new Scoring object backed by storage.
func InitScoring(storage ResultStorage) *Scoring {
	return &Scoring{
		storage: storage,
		now:     time.Now,
	}
}

// BoardKey names a board size, e.g. "4x4".
func BoardKey(rows, cols int) string {
	return fmt.Sprintf("%dx%d", rows, cols)
}

// Record stores a finished game and returns the stored entry with its ID and
// timestamp filled in.
func (s *Scoring) Record(entry ResultEntry) (ResultEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = s.now().Format(time.RFC3339)
	}
	entry.Scores = append([]int(nil), entry.Scores...)

	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return entry, fmt.Errorf("could not load results for saving: %w", err)
	}

	allEntries = append(allEntries, entry)
	if err := s.storage.SaveAll(allEntries); err != nil {
		return entry, fmt.Errorf("could not save results: %w", err)
	}

	s.last = &entry
	return entry, nil
}

// History loads the results for one board size.
func (s *Scoring) History(board string) (ResultHistory, error) {
	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return ResultHistory{}, fmt.Errorf("could not load result history: %w", err)
	}

	// Filter entries for the requested board.
	filtered := []ResultEntry{}
	for _, entry := range allEntries {
		if entry.Board == board {
			filtered = append(filtered, entry)
		}
	}

	h := ResultHistory{
		Entries:  filtered,
		Attempts: len(filtered),
	}
	for i := range h.Entries {
		if h.BestEntry == nil || h.Entries[i].Better(*h.BestEntry) {
			h.BestEntry = &h.Entries[i]
		}
	}
	if s.last != nil && s.last.Board == board {
		h.CurrentGame = s.last
	}
	return h, nil
}

// Last returns the most recently recorded entry, or nil.
func (s *Scoring) Last() *ResultEntry {
	return s.last
}

// Accessor methods for result history, delegating to the history object.
func (s *Scoring) Best(board string) *ResultEntry {
	h, err := s.History(board)
	if err != nil {
		return nil
	}
	return h.GetBestEntry()
}

func (s *Scoring) Attempts(board string) int {
	h, err := s.History(board)
	if err != nil {
		return 0
	}
	return h.Attempts
}

// GotBestResult reports whether the most recent game is the best so far on
// its board size.
func (s *Scoring) GotBestResult() bool {
	if s.last == nil {
		return false
	}
	h, err := s.History(s.last.Board)
	if err != nil {
		return false
	}
	return h.GotBestResult()
}

func (s *Scoring) GetNEntries(board string, n int) []ResultEntry {
	h, err := s.History(board)
	if err != nil {
		return nil
	}
	return h.GetNEntries(n)
}
