// Package share renders a finished game as spoiler-free text.
package share

import (
	"fmt"
	"strings"

	"svw.info/ordl/internal/domain"
)

const (
	correctCell = "🟩"
	wrongCell   = "🟥"
	siteURL     = "ordl.io"
)

// Data is everything the share text is built from.
type Data struct {
	PuzzleNumber int
	Attempts     []domain.Attempt
	Won          bool
	Streak       int
	// Practice marks archive plays; they never show a streak.
	Practice bool
}

// GridRows renders one row per attempt, one cell per position.
func GridRows(attempts []domain.Attempt) []string {
	rows := make([]string, 0, len(attempts))
	for _, a := range attempts {
		var b strings.Builder
		for _, ok := range a {
			if ok {
				b.WriteString(correctCell)
			} else {
				b.WriteString(wrongCell)
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}

// Text returns the message a player pastes after finishing.
func Text(d Data) string {
	score := fmt.Sprintf("X/%d", domain.MaxGuesses)
	if d.Won {
		score = fmt.Sprintf("%d/%d", len(d.Attempts), domain.MaxGuesses)
	}
	label := fmt.Sprintf("Ordl #%d", d.PuzzleNumber)
	if d.Practice {
		label = fmt.Sprintf("Ordl Practice #%d", d.PuzzleNumber)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", label, score)
	b.WriteString(strings.Join(GridRows(d.Attempts), "\n"))
	if !d.Practice && d.Streak > 1 {
		fmt.Fprintf(&b, "\n🔥 %d day streak!", d.Streak)
	}
	b.WriteString("\n\n" + siteURL)
	return b.String()
}
