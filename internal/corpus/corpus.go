// Package corpus loads the static collection of historical events puzzles are
// cut from.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"svw.info/ordl/data"
	"svw.info/ordl/internal/domain"
)

// dateLayouts are tried in order when parsing an event's fullDate.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2006",
	"2006-01-02",
	time.RFC3339,
}

// ParseFullDate parses a corpus date such as "November 9, 1989". A date
// without a day, such as "March 1918", is the first of that month.
func ParseFullDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// Corpus is an immutable, ordered list of events.
type Corpus struct {
	events []domain.Event
}

// New validates events and fills in their parsed dates.
func New(events []domain.Event) (*Corpus, error) {
	if len(events) < domain.EventsPerPuzzle {
		return nil, fmt.Errorf("corpus has %d events, need at least %d", len(events), domain.EventsPerPuzzle)
	}
	seen := make(map[string]int, len(events))
	out := make([]domain.Event, len(events))
	for i, e := range events {
		if e.ID == "" {
			return nil, fmt.Errorf("event %d: missing id", i)
		}
		if j, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("event %d: duplicate id %q (first at %d)", i, e.ID, j)
		}
		seen[e.ID] = i
		d, err := ParseFullDate(e.FullDate)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.ID, err)
		}
		e.Date = d
		out[i] = e
	}
	return &Corpus{events: out}, nil
}

// Load decodes a JSON array of events.
func Load(r io.Reader) (*Corpus, error) {
	var events []domain.Event
	dec := json.NewDecoder(r)
	if err := dec.Decode(&events); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return New(events)
}

// LoadFile loads a corpus from a JSON file on disk.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Default loads the corpus embedded in the binary.
func Default() (*Corpus, error) {
	if len(data.Events) == 0 {
		return nil, errors.New("embedded corpus is empty")
	}
	return Load(bytes.NewReader(data.Events))
}

// Open loads path if set, the embedded corpus otherwise.
func Open(path string) (*Corpus, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	return LoadFile(path)
}

// Events returns the events in corpus order. The slice must not be modified.
func (c *Corpus) Events() []domain.Event { return c.events }

func (c *Corpus) Len() int { return len(c.events) }

// TotalPuzzles is the number of complete puzzles; trailing events that do not
// fill a puzzle are unreachable.
func (c *Corpus) TotalPuzzles() int { return len(c.events) / domain.EventsPerPuzzle }
