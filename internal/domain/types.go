package domain

import "time"

const (
	// EventsPerPuzzle is the number of events a player orders each day.
	EventsPerPuzzle = 6
	// MaxGuesses is the number of attempts before a game is lost.
	MaxGuesses = 4
)

// Event is a single historical event from the corpus.
type Event struct {
	ID       string `json:"id" validate:"required"`
	Text     string `json:"event" validate:"required"`
	Emoji    string `json:"emoji" validate:"required"`
	Year     int    `json:"year" validate:"required"`
	FullDate string `json:"fullDate" validate:"required"`

	// Curation tags, only read by the corpus validator.
	Familiarity  string `json:"familiarity,omitempty" validate:"omitempty,oneof=high medium low"`
	Category     string `json:"category,omitempty"`
	RelatedGroup string `json:"relatedGroup,omitempty"`

	// Date is FullDate parsed at corpus load.
	Date time.Time `json:"-"`
}

// PublicEvent is what a player sees before the game is over: no dates.
type PublicEvent struct {
	ID    string `json:"id"`
	Text  string `json:"event"`
	Emoji string `json:"emoji"`
}

// Attempt holds per-position correctness of one submitted order.
type Attempt []bool

// Correct counts the positions that were right.
func (a Attempt) Correct() int {
	n := 0
	for _, ok := range a {
		if ok {
			n++
		}
	}
	return n
}

// GameState is the persisted progress of one puzzle.
type GameState struct {
	PuzzleNumber    int       `json:"puzzleNumber"`
	CurrentOrder    []string  `json:"currentOrder"`
	LockedPositions []int     `json:"lockedPositions"`
	Attempts        []Attempt `json:"attempts"`
	Completed       bool      `json:"completed"`
	Won             bool      `json:"won"`
}

// Status derives the game status from the completion flags.
func (g *GameState) Status() Status {
	switch {
	case g.Completed && g.Won:
		return Won
	case g.Completed:
		return Lost
	default:
		return Playing
	}
}

// IsLocked reports whether position i has been confirmed correct.
func (g *GameState) IsLocked(i int) bool {
	for _, p := range g.LockedPositions {
		if p == i {
			return true
		}
	}
	return false
}

// Stats are the cross-session statistics of the daily game.
type Stats struct {
	GamesPlayed    int     `json:"gamesPlayed"`
	GamesWon       int     `json:"gamesWon"`
	CurrentStreak  int     `json:"currentStreak"`
	MaxStreak      int     `json:"maxStreak"`
	LastPlayedDate *string `json:"lastPlayedDate"`
	// GuessDistribution[k] counts wins in k+1 guesses.
	GuessDistribution [MaxGuesses]int `json:"guessDistribution"`
}

// Countdown is the time left until the next puzzle.
type Countdown struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// IDs returns the event ids in order.
func IDs(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

// Public strips dates from events.
func Public(events []Event) []PublicEvent {
	out := make([]PublicEvent, len(events))
	for i, e := range events {
		out[i] = PublicEvent{ID: e.ID, Text: e.Text, Emoji: e.Emoji}
	}
	return out
}
