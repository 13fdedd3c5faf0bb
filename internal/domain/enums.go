package domain

import "fmt"

// Status is the state of a single puzzle game.
type Status int

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "playing"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "playing":
		*s = Playing
	case "won":
		*s = Won
	case "lost":
		*s = Lost
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// Mode selects which storage slot a game lives in.
type Mode int

const (
	Daily   Mode = iota // today's live puzzle; counts towards stats
	Archive             // any earlier puzzle; never counts towards stats
)

func (m Mode) String() string {
	if m == Archive {
		return "archive"
	}
	return "daily"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
