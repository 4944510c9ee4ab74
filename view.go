package main

import (
	"fmt"
	"strings"
	"unicode"

	"go-match/internal/board"
	"go-match/internal/config"
	"go-match/internal/game"
	"go-match/internal/scoring"

	"github.com/charmbracelet/lipgloss"
)

var (
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Red for a mismatched pair
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green for matched cards
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Color for the status line
	boldStyle    = lipgloss.NewStyle().Bold(true)
	hiddenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cardBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	cursorBorder = cardBorder.BorderForeground(lipgloss.Color("12"))
)

const maxCardText = 10

func (s *LocalState) View() string {
	if s.Session.Status() == game.NotStarted {
		return s.viewSetup()
	}
	return s.viewGame()
}

func (s *LocalState) viewSetup() string {
	var b strings.Builder

	b.WriteString(boldStyle.Render("MEMORY MATCH") + "\n\n")
	b.WriteString(fmt.Sprintf("Rows:    %s\n", s.Inputs[0].View()))
	b.WriteString(fmt.Sprintf("Columns: %s\n", s.Inputs[1].View()))

	players := "1 player"
	if s.Session.Mode == config.TwoPlayer {
		players = "2 players (hot seat)"
	}
	b.WriteString(fmt.Sprintf("Mode:    %s\n", players))

	if s.Err != "" {
		b.WriteString("\n" + redStyle.Render(s.Err) + "\n")
	}

	b.WriteString("\n" + s.Help.View(setupKeys{keys}))
	return b.String()
}

func (s *LocalState) viewGame() string {
	g := s.Session.CurrentGame
	if g == nil {
		return ""
	}

	display := s.RenderBoard() + "\n"
	display += scoreStyle.Render(statusLine(s.Session)) + "\n"

	if s.Summary != "" {
		display += "\n" + greenStyle.Render(s.Summary) + "\n"
	}

	display += "\n" + s.Help.View(playKeys{keys})
	return display
}

// RenderBoard draws the grid with every card padded to the longest identity.
func (s *LocalState) RenderBoard() string {
	g := s.Session.CurrentGame
	width := cardTextWidth(g.Board)
	pending, hasPending := g.State.PendingPair()

	rows := make([]string, 0, g.Board.Rows)
	for r := 0; r < g.Board.Rows; r++ {
		cells := make([]string, 0, g.Board.Cols)
		for c := 0; c < g.Board.Cols; c++ {
			card := g.Board.At(r, c)

			text := strings.Repeat("?", 3)
			style := hiddenStyle
			switch card.Exposure {
			case board.Revealed:
				text = displayIdentity(card.Identity)
				style = lipgloss.NewStyle()
				if hasPending && (card.Position == pending[0] || card.Position == pending[1]) {
					style = redStyle
				}
			case board.Matched:
				text = displayIdentity(card.Identity)
				style = greenStyle
			}
			text = style.Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, text))

			border := cardBorder
			if card.Position == s.Cursor && s.Session.Status() == game.InProgress {
				border = cursorBorder
			}
			cells = append(cells, border.Render(text))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func statusLine(sess *game.Session) string {
	line := "MOVES: " + fmt.Sprint(sess.Moves()) + " | " +
		"TIME: " + formatTime(sess.ElapsedSeconds)

	if sess.Mode == config.TwoPlayer {
		for i, p := range sess.Players {
			line += fmt.Sprintf(" | %s: %d", p.Name, p.Score)
			if i == sess.ActivePlayer && sess.Status() == game.InProgress {
				line += " ◀"
			}
		}
		if sess.Status() == game.InProgress {
			line += " | TURN: " + sess.Players[sess.ActivePlayer].Name
		}
	} else if g := sess.CurrentGame; g != nil {
		line += fmt.Sprintf(" | PAIRS: %d/%d", g.Board.MatchedPairs(), g.Board.Pairs())
	}
	return line
}

func completionSummary(sess *game.Session, e game.Event) string {
	var summary string
	if sess.Mode == config.TwoPlayer {
		summary = fmt.Sprintf("Game completed! Player 1: %d, Player 2: %d", e.Scores[0], e.Scores[1])
		if len(e.Winners) == 1 {
			summary += fmt.Sprintf("\n%s wins!", sess.Players[e.Winners[0]].Name)
		} else {
			summary += "\nIt's a tie!"
		}
	} else {
		summary = fmt.Sprintf("Game completed in %d moves and %s!", e.Moves, formatTime(e.ElapsedSeconds))
	}

	boardKey := scoring.BoardKey(sess.Rows, sess.Cols)
	if sess.Results.GotBestResult() && sess.Results.Attempts(boardKey) > 1 {
		summary += "\nNew best for " + boardKey + "!"
	}
	if best := sess.Results.Best(boardKey); best != nil {
		summary += fmt.Sprintf("\nBest on %s this run: %d moves in %s (%d played)",
			boardKey, best.Moves, formatTime(best.ElapsedSeconds), sess.Results.Attempts(boardKey))
	}
	summary += "\nPress r to play again."
	return summary
}

func formatTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func cardTextWidth(b *board.Board) int {
	width := 3
	for _, c := range b.Cards {
		if l := len([]rune(displayIdentity(c.Identity))); l > width {
			width = l
		}
	}
	return width
}

func displayIdentity(id string) string {
	r := []rune(capitalize(id))
	if len(r) > maxCardText {
		r = r[:maxCardText]
	}
	return string(r)
}

func capitalize(word string) string {
	r := []rune(word)
	if len(r) == 0 {
		return word
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
