// Package scorer grades submitted orders and drives a game from Playing to
// Won or Lost.
//
// Functions here assume well-formed input: an order of exactly the puzzle's
// ids. Callers validate submissions before scoring them.
package scorer

import (
	"errors"
	"fmt"
	"slices"

	"svw.info/ordl/internal/domain"
)

var (
	ErrGameOver       = errors.New("game is already over")
	ErrLockedPosition = errors.New("position is locked")
	ErrOutOfRange     = errors.New("position out of range")
	ErrInconsistent   = errors.New("inconsistent game state")
)

// Score marks each position whose id matches the true order.
func Score(submitted, truth []string) domain.Attempt {
	out := make(domain.Attempt, len(truth))
	for i := range truth {
		out[i] = i < len(submitted) && submitted[i] == truth[i]
	}
	return out
}

// IsWin reports whether every position is correct.
func IsWin(a domain.Attempt) bool {
	if len(a) == 0 {
		return false
	}
	for _, ok := range a {
		if !ok {
			return false
		}
	}
	return true
}

// NewGame starts a game in the given presentation order.
func NewGame(puzzleNumber int, order []string) *domain.GameState {
	return &domain.GameState{
		PuzzleNumber:    puzzleNumber,
		CurrentOrder:    slices.Clone(order),
		LockedPositions: []int{},
		Attempts:        []domain.Attempt{},
	}
}

// Status is the current state of gs.
func Status(gs *domain.GameState) domain.Status { return gs.Status() }

// Submit scores order against truth and advances the game.
func Submit(gs *domain.GameState, order, truth []string) (domain.Attempt, error) {
	if gs.Completed {
		return nil, ErrGameOver
	}
	if err := keepsLocks(gs, order); err != nil {
		return nil, err
	}

	attempt := Score(order, truth)
	gs.CurrentOrder = slices.Clone(order)
	gs.Attempts = append(gs.Attempts, attempt)
	for i, ok := range attempt {
		if ok && !gs.IsLocked(i) {
			gs.LockedPositions = append(gs.LockedPositions, i)
		}
	}
	slices.Sort(gs.LockedPositions)

	switch {
	case IsWin(attempt):
		gs.Completed, gs.Won = true, true
	case len(gs.Attempts) >= domain.MaxGuesses:
		gs.Completed = true
	}
	return attempt, nil
}

// keepsLocks rejects an order that changes the id at any locked position.
func keepsLocks(gs *domain.GameState, order []string) error {
	for _, p := range gs.LockedPositions {
		if p >= len(order) || p >= len(gs.CurrentOrder) || order[p] != gs.CurrentOrder[p] {
			return ErrLockedPosition
		}
	}
	return nil
}

func playable(gs *domain.GameState, idx ...int) error {
	if gs.Completed {
		return ErrGameOver
	}
	for _, i := range idx {
		if i < 0 || i >= len(gs.CurrentOrder) {
			return ErrOutOfRange
		}
	}
	return nil
}

// Swap exchanges two unlocked positions.
func Swap(gs *domain.GameState, i, j int) error {
	if err := playable(gs, i, j); err != nil {
		return err
	}
	if gs.IsLocked(i) || gs.IsLocked(j) {
		return ErrLockedPosition
	}
	gs.CurrentOrder[i], gs.CurrentOrder[j] = gs.CurrentOrder[j], gs.CurrentOrder[i]
	return nil
}

// Move takes the event at from and reinserts it at to, shifting the events in
// between. No locked position may lie in the affected range.
func Move(gs *domain.GameState, from, to int) error {
	if err := playable(gs, from, to); err != nil {
		return err
	}
	lo, hi := min(from, to), max(from, to)
	for i := lo; i <= hi; i++ {
		if gs.IsLocked(i) {
			return ErrLockedPosition
		}
	}
	id := gs.CurrentOrder[from]
	order := slices.Delete(slices.Clone(gs.CurrentOrder), from, from+1)
	gs.CurrentOrder = slices.Insert(order, to, id)
	return nil
}

// Reorder replaces the whole arrangement. Locked positions must keep their ids.
func Reorder(gs *domain.GameState, order []string) error {
	if gs.Completed {
		return ErrGameOver
	}
	if err := keepsLocks(gs, order); err != nil {
		return err
	}
	gs.CurrentOrder = slices.Clone(order)
	return nil
}

// Verify checks that gs is a state Submit could have produced for a puzzle
// whose true order is truth.
func Verify(gs *domain.GameState, truth []string) error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...))
	}

	if len(gs.CurrentOrder) != len(truth) {
		return bad("order has %d ids, want %d", len(gs.CurrentOrder), len(truth))
	}
	seen := make(map[string]bool, len(truth))
	for _, id := range truth {
		seen[id] = false
	}
	for _, id := range gs.CurrentOrder {
		used, ok := seen[id]
		if !ok || used {
			return bad("order is not a permutation of the puzzle")
		}
		seen[id] = true
	}

	for i, p := range gs.LockedPositions {
		if p < 0 || p >= len(truth) {
			return bad("locked position %d out of range", p)
		}
		if slices.Contains(gs.LockedPositions[:i], p) {
			return bad("position %d locked twice", p)
		}
		if gs.CurrentOrder[p] != truth[p] {
			return bad("locked position %d holds %q", p, gs.CurrentOrder[p])
		}
	}

	if len(gs.Attempts) > domain.MaxGuesses {
		return bad("%d attempts", len(gs.Attempts))
	}
	won := false
	for i, a := range gs.Attempts {
		if len(a) != len(truth) {
			return bad("attempt %d has %d positions", i+1, len(a))
		}
		if won {
			return bad("attempt %d after a win", i+1)
		}
		won = IsWin(a)
	}
	completed := won || len(gs.Attempts) == domain.MaxGuesses
	if gs.Completed != completed || gs.Won != won {
		return bad("completed=%t won=%t after %d attempts", gs.Completed, gs.Won, len(gs.Attempts))
	}
	return nil
}
