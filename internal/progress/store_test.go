package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/ordl/internal/clock"
	"svw.info/ordl/internal/domain"
	"svw.info/ordl/internal/infrastructure/storage"
	"svw.info/ordl/internal/ports"
)

var launch = time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC)

// noon on the given puzzle day.
func day(d int) time.Time { return launch.AddDate(0, 0, d).Add(12 * time.Hour) }

func newStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	return New(kv, clock.New(launch, 3), nil), kv
}

func sampleGame(n int) *domain.GameState {
	return &domain.GameState{
		PuzzleNumber:    n,
		CurrentOrder:    []string{"a", "b", "c", "d", "e", "f"},
		LockedPositions: []int{0, 5},
		Attempts:        []domain.Attempt{{true, false, false, false, false, true}},
	}
}

func TestKeysNeverAlias(t *testing.T) {
	keys := map[string]bool{StatsKey: true, TodayKey: true}
	for n := 1; n <= 100; n++ {
		k := ArchiveKey(n)
		assert.False(t, keys[k], k)
		keys[k] = true
	}
	assert.Equal(t, TodayKey, GameKey(domain.Daily, 7))
	assert.Equal(t, "ordl-archive-7", GameKey(domain.Archive, 7))
}

func TestGameRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	gs := sampleGame(8)
	require.NoError(t, s.SaveGame(ctx, TodayKey, gs))
	got, err := s.LoadGame(ctx, TodayKey, 8)
	require.NoError(t, err)
	assert.Equal(t, gs, got)

	// Saving again is idempotent.
	require.NoError(t, s.SaveGame(ctx, TodayKey, gs))
	got, err = s.LoadGame(ctx, TodayKey, 8)
	require.NoError(t, err)
	assert.Len(t, got.Attempts, 1)
}

func TestStaleGameIsDiscarded(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveGame(ctx, TodayKey, sampleGame(7)))
	got, err := s.LoadGame(ctx, TodayKey, 8)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = kv.Get(ctx, TodayKey)
	assert.ErrorIs(t, err, ports.ErrNotFound, "stale entry should be cleared")

	got, err = s.LoadGame(ctx, TodayKey, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCorruptGameIsAbsent(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, TodayKey, []byte("{oops")))
	got, err := s.LoadGame(ctx, TodayKey, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, kv.Put(ctx, TodayKey, []byte(`{"puzzleNumber":1,"currentOrder":["a"]}`)))
	got, err = s.LoadGame(ctx, TodayKey, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMissingGameIsAbsent(t *testing.T) {
	s, _ := newStore(t)
	got, err := s.LoadGame(context.Background(), ArchiveKey(3), 3)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPlayersAreIsolated(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()

	alice, bob := s.Player("alice"), s.Player("bob")
	require.NoError(t, alice.SaveGame(ctx, TodayKey, sampleGame(2)))

	got, err := bob.LoadGame(ctx, TodayKey, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = kv.Get(ctx, "player/alice/ordl-today")
	assert.NoError(t, err)
	_, err = kv.Get(ctx, TodayKey)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestLoadStatsDefaults(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()

	st, err := s.LoadStats(ctx, day(3))
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, st)

	require.NoError(t, kv.Put(ctx, StatsKey, []byte("not json")))
	st, err = s.LoadStats(ctx, day(3))
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, st)
}

func TestLoadStatsMigratesMissingDistribution(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()

	legacy := `{"gamesPlayed":5,"gamesWon":4,"currentStreak":2,"maxStreak":3,"lastPlayedDate":"2025-12-22"}`
	require.NoError(t, kv.Put(ctx, StatsKey, []byte(legacy)))

	st, err := s.LoadStats(ctx, day(3))
	require.NoError(t, err)
	assert.Equal(t, [4]int{0, 0, 0, 0}, st.GuessDistribution)
	assert.Equal(t, 5, st.GamesPlayed)
	assert.Equal(t, 4, st.GamesWon)
	assert.Equal(t, 2, st.CurrentStreak)
}

func TestStreakDecay(t *testing.T) {
	cases := []struct {
		name       string
		lastPlayed string
		streak     int
	}{
		{"same day", "2025-12-25", 4},
		{"yesterday", "2025-12-24", 4},
		{"two days ago", "2025-12-23", 0},
		{"six days ago", "2025-12-19", 0},
		{"unreadable date", "last tuesday", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, kv := newStore(t)
			ctx := context.Background()
			rec := `{"gamesPlayed":9,"gamesWon":8,"currentStreak":4,"maxStreak":6,"lastPlayedDate":"` + tc.lastPlayed + `","guessDistribution":[1,2,3,2]}`
			require.NoError(t, kv.Put(ctx, StatsKey, []byte(rec)))

			st, err := s.LoadStats(ctx, day(6)) // puzzle day 2025-12-25
			require.NoError(t, err)
			assert.Equal(t, tc.streak, st.CurrentStreak)
			assert.Equal(t, 6, st.MaxStreak)
		})
	}
}

func TestStreakDecayUsesPuzzleDay(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, StatsKey, []byte(`{"currentStreak":2,"maxStreak":2,"lastPlayedDate":"2025-12-20"}`)))

	// 02:30 UTC on the 22nd still belongs to the 21st's puzzle.
	early := time.Date(2025, 12, 22, 2, 30, 0, 0, time.UTC)
	st, err := s.LoadStats(ctx, early)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentStreak)

	late := time.Date(2025, 12, 22, 3, 30, 0, 0, time.UTC)
	st, err = s.LoadStats(ctx, late)
	require.NoError(t, err)
	assert.Equal(t, 0, st.CurrentStreak)
}

func TestLoadStatsRepairsInvariants(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, StatsKey, []byte(`{"gamesPlayed":2,"gamesWon":5,"currentStreak":3,"maxStreak":1,"guessDistribution":[-1,1,0,0]}`)))

	st, err := s.LoadStats(ctx, day(1))
	require.NoError(t, err)
	assert.Equal(t, 2, st.GamesWon)
	assert.Equal(t, 3, st.MaxStreak)
	assert.Equal(t, [4]int{0, 1, 0, 0}, st.GuessDistribution)
}

func TestLoadStatsTrimsDistributionToWins(t *testing.T) {
	cases := []struct {
		record string
		want   [domain.MaxGuesses]int
	}{
		{`{"gamesPlayed":1,"gamesWon":1,"guessDistribution":[5,5,5,5]}`, [domain.MaxGuesses]int{1, 0, 0, 0}},
		{`{"gamesPlayed":9,"gamesWon":6,"guessDistribution":[2,2,2,2]}`, [domain.MaxGuesses]int{2, 2, 2, 0}},
		{`{"gamesPlayed":3,"gamesWon":0,"guessDistribution":[0,1,0,0]}`, [domain.MaxGuesses]int{}},
	}
	for _, tc := range cases {
		s, kv := newStore(t)
		ctx := context.Background()
		require.NoError(t, kv.Put(ctx, StatsKey, []byte(tc.record)))

		st, err := s.LoadStats(ctx, day(1))
		require.NoError(t, err)
		assert.Equal(t, tc.want, st.GuessDistribution, tc.record)
	}
}

func TestRecordCompletion(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	st, err := s.RecordCompletion(ctx, day(0), true, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 1, st.GamesWon)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.MaxStreak)
	assert.Equal(t, [4]int{0, 1, 0, 0}, st.GuessDistribution)
	require.NotNil(t, st.LastPlayedDate)
	assert.Equal(t, "2025-12-19", *st.LastPlayedDate)

	st, err = s.RecordCompletion(ctx, day(1), true, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentStreak)
	assert.Equal(t, 2, st.MaxStreak)
	assert.Equal(t, [4]int{0, 1, 0, 1}, st.GuessDistribution)

	st, err = s.RecordCompletion(ctx, day(2), false, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, st.GamesPlayed)
	assert.Equal(t, 2, st.GamesWon)
	assert.Equal(t, 0, st.CurrentStreak)
	assert.Equal(t, 2, st.MaxStreak)
	assert.Equal(t, [4]int{0, 1, 0, 1}, st.GuessDistribution)

	// A gap resets the streak before the new win is counted.
	st, err = s.RecordCompletion(ctx, day(3), true, 1)
	require.NoError(t, err)
	st, err = s.RecordCompletion(ctx, day(7), true, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 2, st.MaxStreak)
	assert.Equal(t, [4]int{1, 1, 0, 1}, st.GuessDistribution, "out of range guess count is not recorded")
	assert.Equal(t, 5, st.GamesPlayed)
	assert.Equal(t, "2025-12-26", *st.LastPlayedDate)

	reloaded, err := s.LoadStats(ctx, day(7))
	require.NoError(t, err)
	assert.Equal(t, st, reloaded)
}

type failingKV struct{ ports.KV }

var errDisk = errors.New("disk on fire")

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errDisk }

func TestBackendErrorsSurface(t *testing.T) {
	s := New(failingKV{storage.NewMemory()}, clock.New(launch, 3), nil)
	ctx := context.Background()

	_, err := s.LoadStats(ctx, day(1))
	assert.ErrorIs(t, err, errDisk)
	_, err = s.LoadGame(ctx, TodayKey, 1)
	assert.ErrorIs(t, err, errDisk)
	_, err = s.RecordCompletion(ctx, day(1), true, 1)
	assert.ErrorIs(t, err, errDisk)
}
