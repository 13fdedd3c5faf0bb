// Package selector cuts puzzles out of the corpus and derives the scrambled
// order every player is shown.
package selector

import (
	"sort"

	"svw.info/ordl/internal/corpus"
	"svw.info/ordl/internal/domain"
)

// DefaultShuffleConstant multiplies the puzzle number into the shuffle seed.
// Clients that shuffle locally must use the same value.
const DefaultShuffleConstant = 31337

type Selector struct {
	corpus   *corpus.Corpus
	constant int64
}

func New(c *corpus.Corpus, shuffleConstant int64) *Selector {
	if shuffleConstant == 0 {
		shuffleConstant = DefaultShuffleConstant
	}
	return &Selector{corpus: c, constant: shuffleConstant}
}

// TotalPuzzles is the length of one cycle through the corpus.
func (s *Selector) TotalPuzzles() int { return s.corpus.TotalPuzzles() }

// Index returns the zero-based corpus puzzle puzzle n maps to. Puzzle numbers
// wrap around once the corpus is exhausted.
func (s *Selector) Index(n int) int {
	total := s.corpus.TotalPuzzles()
	idx := (n - 1) % total
	if idx < 0 {
		idx += total
	}
	return idx
}

// EventsForPuzzle returns puzzle n's events in corpus order.
func (s *Selector) EventsForPuzzle(n int) []domain.Event {
	start := s.Index(n) * domain.EventsPerPuzzle
	out := make([]domain.Event, domain.EventsPerPuzzle)
	copy(out, s.corpus.Events()[start:start+domain.EventsPerPuzzle])
	return out
}

// Seed is the shuffle seed for puzzle n.
func (s *Selector) Seed(n int) int64 { return int64(n) * s.constant }

// ShuffledPuzzle returns puzzle n in the order players first see it.
func (s *Selector) ShuffledPuzzle(n int) []domain.Event {
	return Shuffle(s.EventsForPuzzle(n), s.Seed(n))
}

// Solution returns puzzle n in chronological order.
func (s *Selector) Solution(n int) []domain.Event {
	return TrueOrder(s.EventsForPuzzle(n))
}

// TrueOrder sorts events oldest first. Events on the same date keep their
// relative order.
func TrueOrder(events []domain.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
