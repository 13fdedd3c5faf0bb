// Package progress persists in-progress games and the player's statistics.
//
// Stored data is never trusted: unreadable records fall back to defaults and
// records for another puzzle are dropped. Only failures of the underlying
// key-value store are reported as errors.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"svw.info/ordl/internal/clock"
	"svw.info/ordl/internal/domain"
	"svw.info/ordl/internal/ports"
)

type Store struct {
	kv     ports.KV
	clock  *clock.Clock
	logger *slog.Logger
	ns     string
}

func New(kv ports.KV, c *clock.Clock, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, clock: c, logger: logger}
}

// Player returns a view of the store scoped to one player. Ids must not
// contain '/'.
func (s *Store) Player(id string) *Store {
	cp := *s
	cp.ns = playerPrefix + id + "/"
	cp.logger = s.logger.With("player", id)
	return &cp
}

func (s *Store) key(k string) string { return s.ns + k }

// LoadGame returns the saved game in slot key if it belongs to puzzleNumber.
// Missing, unreadable and stale entries all yield nil; stale ones are deleted.
func (s *Store) LoadGame(ctx context.Context, key string, puzzleNumber int) (*domain.GameState, error) {
	raw, err := s.kv.Get(ctx, s.key(key))
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", key, err)
	}

	var gs domain.GameState
	if err := json.Unmarshal(raw, &gs); err != nil || len(gs.CurrentOrder) != domain.EventsPerPuzzle {
		s.logger.Warn("discarding unreadable game state", "key", key, "err", err)
		return nil, nil
	}
	if gs.PuzzleNumber != puzzleNumber {
		s.logger.Debug("discarding stale game state", "key", key, "saved", gs.PuzzleNumber, "want", puzzleNumber)
		if err := s.kv.Delete(ctx, s.key(key)); err != nil {
			return nil, fmt.Errorf("clear stale game %s: %w", key, err)
		}
		return nil, nil
	}
	if gs.LockedPositions == nil {
		gs.LockedPositions = []int{}
	}
	if gs.Attempts == nil {
		gs.Attempts = []domain.Attempt{}
	}
	return &gs, nil
}

// SaveGame writes gs to slot key, replacing what was there.
func (s *Store) SaveGame(ctx context.Context, key string, gs *domain.GameState) error {
	raw, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}
	if err := s.kv.Put(ctx, s.key(key), raw); err != nil {
		return fmt.Errorf("save game %s: %w", key, err)
	}
	return nil
}

func (s *Store) ClearGame(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.key(key))
}

// LoadStats returns the player's stats as of now, with the streak reset if
// the last daily game is more than a day old.
func (s *Store) LoadStats(ctx context.Context, now time.Time) (domain.Stats, error) {
	raw, err := s.kv.Get(ctx, s.key(StatsKey))
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Stats{}, nil
	}
	if err != nil {
		return domain.Stats{}, fmt.Errorf("load stats: %w", err)
	}

	// Records written before guessDistribution existed decode with it zeroed.
	var st domain.Stats
	if err := json.Unmarshal(raw, &st); err != nil {
		s.logger.Warn("discarding unreadable stats", "err", err)
		return domain.Stats{}, nil
	}
	s.decay(&st, now)
	normalize(&st)
	return st, nil
}

func (s *Store) decay(st *domain.Stats, now time.Time) {
	if st.LastPlayedDate == nil {
		return
	}
	gap, err := clock.DaysBetween(*st.LastPlayedDate, s.clock.PuzzleDayKey(now))
	if err != nil {
		s.logger.Warn("ignoring unreadable lastPlayedDate", "value", *st.LastPlayedDate)
		return
	}
	if gap > 1 {
		st.CurrentStreak = 0
	}
}

// normalize repairs counters a hand-edited or damaged record may violate.
func normalize(st *domain.Stats) {
	st.GamesPlayed = max(0, st.GamesPlayed)
	st.GamesWon = min(max(0, st.GamesWon), st.GamesPlayed)
	st.CurrentStreak = max(0, st.CurrentStreak)
	st.MaxStreak = max(st.MaxStreak, st.CurrentStreak)
	sum := 0
	for i := range st.GuessDistribution {
		st.GuessDistribution[i] = max(0, st.GuessDistribution[i])
		sum += st.GuessDistribution[i]
	}
	// Every counted guess needs a win; trim the slowest buckets first.
	for i := len(st.GuessDistribution) - 1; i >= 0 && sum > st.GamesWon; i-- {
		cut := min(st.GuessDistribution[i], sum-st.GamesWon)
		st.GuessDistribution[i] -= cut
		sum -= cut
	}
}

// RecordCompletion folds one finished daily game into the stats and persists
// them. It must be called once per daily game and never for archive games.
func (s *Store) RecordCompletion(ctx context.Context, now time.Time, won bool, guesses int) (domain.Stats, error) {
	st, err := s.LoadStats(ctx, now)
	if err != nil {
		return domain.Stats{}, err
	}

	st.GamesPlayed++
	if won {
		st.GamesWon++
		st.CurrentStreak++
		st.MaxStreak = max(st.MaxStreak, st.CurrentStreak)
		if guesses >= 1 && guesses <= domain.MaxGuesses {
			st.GuessDistribution[guesses-1]++
		}
	} else {
		st.CurrentStreak = 0
	}
	today := s.clock.PuzzleDayKey(now)
	st.LastPlayedDate = &today

	raw, err := json.Marshal(st)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("encode stats: %w", err)
	}
	if err := s.kv.Put(ctx, s.key(StatsKey), raw); err != nil {
		return domain.Stats{}, fmt.Errorf("save stats: %w", err)
	}
	return st, nil
}
