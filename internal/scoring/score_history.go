package scoring

import (
	"sort"
)

// ResultHistory holds the finished games for one board size, plus the result
// of the game that was just recorded.
type ResultHistory struct {
	Entries     []ResultEntry
	BestEntry   *ResultEntry
	CurrentGame *ResultEntry
	Attempts    int
}

// ResultEntry is a single finished game.
type ResultEntry struct {
	ID             string `json:"id"`
	Board          string `json:"board"`
	Mode           string `json:"mode"`
	Moves          int    `json:"moves"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
	Scores         []int  `json:"scores"`
	Timestamp      string `json:"timestamp"`
}

// Better reports whether e beats other: fewer moves first, then less time.
func (e ResultEntry) Better(other ResultEntry) bool {
	if e.Moves != other.Moves {
		return e.Moves < other.Moves
	}
	return e.ElapsedSeconds < other.ElapsedSeconds
}

// GetBestEntry returns the best entry from the history.
func (rh ResultHistory) GetBestEntry() *ResultEntry {
	return rh.BestEntry
}

// GetNEntries returns the top N entries, best first.
func (rh ResultHistory) GetNEntries(n int) []ResultEntry {
	// Make a copy to avoid modifying the original slice.
	entriesCopy := make([]ResultEntry, len(rh.Entries))
	copy(entriesCopy, rh.Entries)

	sort.SliceStable(entriesCopy, func(i, j int) bool {
		return entriesCopy[i].Better(entriesCopy[j])
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

// GotBestResult checks if the current game is at least as good as every
// earlier game on the same board size.
func (rh ResultHistory) GotBestResult() bool {
	if rh.CurrentGame == nil {
		return false
	}
	for _, e := range rh.Entries {
		if e.ID == rh.CurrentGame.ID {
			continue
		}
		if e.Better(*rh.CurrentGame) {
			return false
		}
	}
	return true
}
