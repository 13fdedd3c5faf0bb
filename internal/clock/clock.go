// Package clock maps wall-clock instants onto puzzle days.
//
// A puzzle day starts at a fixed UTC rollover hour rather than midnight, so
// every player in every timezone shares the same puzzle. The current time is
// always passed in; nothing here reads the system clock.
package clock

import (
	"fmt"
	"time"

	"svw.info/ordl/internal/domain"
)

const (
	day = 24 * time.Hour

	// DayKeyLayout formats a puzzle day as YYYY-MM-DD.
	DayKeyLayout = "2006-01-02"
)

type Clock struct {
	launch   time.Time // UTC midnight of the launch date
	rollover time.Duration
}

// New returns a clock for puzzles launched on the UTC date of launch that
// roll over at rolloverHour UTC.
func New(launch time.Time, rolloverHour int) *Clock {
	return &Clock{
		launch:   midnight(launch.UTC()),
		rollover: time.Duration(rolloverHour) * time.Hour,
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// puzzleDay is the UTC date now falls on once shifted back by the rollover.
func (c *Clock) puzzleDay(now time.Time) time.Time {
	return midnight(now.UTC().Add(-c.rollover))
}

// CurrentPuzzleNumber returns the 1-based puzzle number active at now.
// Instants before launch map to puzzle 1.
func (c *Clock) CurrentPuzzleNumber(now time.Time) int {
	days := int(c.puzzleDay(now).Sub(c.launch) / day)
	return max(1, days+1)
}

// MaxArchivePuzzle is the newest puzzle playable from the archive.
// Today's puzzle is never part of it.
func (c *Clock) MaxArchivePuzzle(now time.Time) int {
	return max(0, c.CurrentPuzzleNumber(now)-1)
}

func (c *Clock) IsValidArchivePuzzle(n int, now time.Time) bool {
	return n >= 1 && n <= c.MaxArchivePuzzle(now)
}

// TimeUntilNextPuzzle returns the countdown to the next rollover instant.
func (c *Clock) TimeUntilNextPuzzle(now time.Time) domain.Countdown {
	now = now.UTC()
	next := midnight(now).Add(c.rollover)
	if !now.Before(next) {
		next = next.Add(day)
	}
	diff := max(0, next.Sub(now))
	return domain.Countdown{
		Hours:   int(diff / time.Hour),
		Minutes: int(diff % time.Hour / time.Minute),
		Seconds: int(diff % time.Minute / time.Second),
	}
}

// PuzzleDayKey is the storage key of the puzzle day at now. It names the same
// date CurrentPuzzleNumber counts from.
func (c *Clock) PuzzleDayKey(now time.Time) string {
	return c.puzzleDay(now).Format(DayKeyLayout)
}

// DaysBetween returns the whole days from one day key to another.
func DaysBetween(from, to string) (int, error) {
	f, err := time.Parse(DayKeyLayout, from)
	if err != nil {
		return 0, fmt.Errorf("parse day key %q: %w", from, err)
	}
	t, err := time.Parse(DayKeyLayout, to)
	if err != nil {
		return 0, fmt.Errorf("parse day key %q: %w", to, err)
	}
	return int(t.Sub(f) / day), nil
}
