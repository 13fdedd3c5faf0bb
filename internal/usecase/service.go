package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"svw.info/ordl/internal/clock"
	"svw.info/ordl/internal/domain"
	"svw.info/ordl/internal/metrics"
	"svw.info/ordl/internal/ports"
	"svw.info/ordl/internal/progress"
	"svw.info/ordl/internal/scorer"
	"svw.info/ordl/internal/selector"
	"svw.info/ordl/internal/share"
	"svw.info/ordl/internal/validator"
)

var (
	ErrInvalidPuzzle      = errors.New("invalid puzzle number")
	ErrPuzzleNotAvailable = errors.New("this puzzle is not available yet")
	ErrGameInProgress     = errors.New("game is still in progress")
)

// TodayID selects the current puzzle wherever a puzzle id is accepted.
const TodayID = "today"

const lockStripes = 64

type Service struct {
	Clock    *clock.Clock
	Selector *selector.Selector
	Progress *progress.Store
	Metrics  ports.Metrics
	Logger   *slog.Logger
	// Now is the wall clock; tests replace it.
	Now func() time.Time

	// Play-loop mutations of one player are serialized so a game can only
	// complete, and be recorded in stats, once.
	locks [lockStripes]sync.Mutex
}

func NewService(c *clock.Clock, sel *selector.Selector, st *progress.Store, m ports.Metrics, logger *slog.Logger) *Service {
	if m == nil {
		m = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Clock: c, Selector: sel, Progress: st, Metrics: m, Logger: logger, Now: time.Now}
}

// ResolvePuzzle turns a puzzle id into a number and the slot it is played in.
func (u *Service) ResolvePuzzle(id string, now time.Time) (int, domain.Mode, error) {
	today := u.Clock.CurrentPuzzleNumber(now)
	id = strings.TrimSpace(id)
	if id == TodayID {
		return today, domain.Daily, nil
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		u.Metrics.Rejected("invalid_id")
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPuzzle, id)
	}
	if n > today {
		u.Metrics.Rejected("future")
		return 0, 0, fmt.Errorf("%w: #%d", ErrPuzzleNotAvailable, n)
	}
	if n == today {
		return n, domain.Daily, nil
	}
	return n, domain.Archive, nil
}

type PuzzleView struct {
	PuzzleNumber int                  `json:"puzzleNumber"`
	TodaysPuzzle int                  `json:"todaysPuzzle"`
	IsToday      bool                 `json:"isToday"`
	Events       []domain.PublicEvent `json:"events"`
}

// Puzzle returns puzzle id in its shuffled order, without dates.
func (u *Service) Puzzle(_ context.Context, id string) (PuzzleView, error) {
	now := u.Now()
	n, mode, err := u.ResolvePuzzle(id, now)
	if err != nil {
		return PuzzleView{}, err
	}
	u.Metrics.PuzzleServed(mode == domain.Daily)
	return PuzzleView{
		PuzzleNumber: n,
		TodaysPuzzle: u.Clock.CurrentPuzzleNumber(now),
		IsToday:      mode == domain.Daily,
		Events:       domain.Public(u.Selector.ShuffledPuzzle(n)),
	}, nil
}

type PositionResult struct {
	ID       string `json:"id"`
	Correct  bool   `json:"correct"`
	Position int    `json:"position"`
}

type CheckResult struct {
	PuzzleNumber int              `json:"puzzleNumber"`
	Results      []PositionResult `json:"results"`
	Attempt      domain.Attempt   `json:"attempt"`
	AllCorrect   bool             `json:"allCorrect"`
}

// Check scores order against puzzle id without touching any saved game.
func (u *Service) Check(_ context.Context, id string, order []string) (CheckResult, error) {
	n, _, err := u.ResolvePuzzle(id, u.Now())
	if err != nil {
		return CheckResult{}, err
	}
	events := u.Selector.EventsForPuzzle(n)
	if err := validator.Submission(order, events); err != nil {
		u.Metrics.Rejected("malformed")
		return CheckResult{}, err
	}
	attempt := scorer.Score(order, domain.IDs(selector.TrueOrder(events)))
	results := make([]PositionResult, len(order))
	for i, eid := range order {
		results[i] = PositionResult{ID: eid, Correct: attempt[i], Position: i}
	}
	win := scorer.IsWin(attempt)
	u.Metrics.Checked(win)
	return CheckResult{PuzzleNumber: n, Results: results, Attempt: attempt, AllCorrect: win}, nil
}

type SolutionView struct {
	PuzzleNumber int            `json:"puzzleNumber"`
	Events       []domain.Event `json:"events"`
}

// Solution returns puzzle id in chronological order with dates.
func (u *Service) Solution(_ context.Context, id string) (SolutionView, error) {
	n, _, err := u.ResolvePuzzle(id, u.Now())
	if err != nil {
		return SolutionView{}, err
	}
	return SolutionView{PuzzleNumber: n, Events: u.Selector.Solution(n)}, nil
}

func (u *Service) Countdown() domain.Countdown {
	return u.Clock.TimeUntilNextPuzzle(u.Now())
}

type ArchiveView struct {
	TodaysPuzzle     int   `json:"todaysPuzzle"`
	MaxArchivePuzzle int   `json:"maxArchivePuzzle"`
	Puzzles          []int `json:"puzzles"`
}

// Archive lists the replayable puzzles, newest first.
func (u *Service) Archive() ArchiveView {
	now := u.Now()
	last := u.Clock.MaxArchivePuzzle(now)
	nums := make([]int, 0, last)
	for n := last; n >= 1; n-- {
		nums = append(nums, n)
	}
	return ArchiveView{
		TodaysPuzzle:     u.Clock.CurrentPuzzleNumber(now),
		MaxArchivePuzzle: last,
		Puzzles:          nums,
	}
}

// GameView is a player's game together with the events in their current
// arrangement. Dates are only included once the game is over.
type GameView struct {
	PuzzleNumber int                  `json:"puzzleNumber"`
	Mode         domain.Mode          `json:"mode"`
	Status       domain.Status        `json:"status"`
	State        *domain.GameState    `json:"state"`
	Events       []domain.PublicEvent `json:"events"`
	Solution     []domain.Event       `json:"solution,omitempty"`
}

type SubmitResult struct {
	GameView
	Attempt domain.Attempt `json:"attempt"`
	// Stats is set when this submission finished a daily game.
	Stats *domain.Stats `json:"stats,omitempty"`
}

type game struct {
	n      int
	mode   domain.Mode
	key    string
	events []domain.Event
	store  *progress.Store
	state  *domain.GameState
}

func (u *Service) store(player string) *progress.Store {
	if player == "" {
		return u.Progress
	}
	return u.Progress.Player(player)
}

func (u *Service) lock(player string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(player))
	mu := &u.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// open loads the player's game for id, starting a fresh one if none is saved.
func (u *Service) open(ctx context.Context, player, id string, now time.Time) (*game, error) {
	n, mode, err := u.ResolvePuzzle(id, now)
	if err != nil {
		return nil, err
	}
	g := &game{
		n:      n,
		mode:   mode,
		key:    progress.GameKey(mode, n),
		events: u.Selector.EventsForPuzzle(n),
		store:  u.store(player),
	}
	g.state, err = g.store.LoadGame(ctx, g.key, n)
	if err != nil {
		return nil, err
	}
	if g.state != nil {
		if err := scorer.Verify(g.state, domain.IDs(selector.TrueOrder(g.events))); err != nil {
			u.Logger.Warn("discarding saved game", "puzzle", n, "mode", mode, "err", err)
			g.state = nil
		}
	}
	if g.state == nil {
		g.state = scorer.NewGame(n, domain.IDs(u.Selector.ShuffledPuzzle(n)))
		if err := g.store.SaveGame(ctx, g.key, g.state); err != nil {
			return nil, err
		}
		u.Logger.Debug("started game", "puzzle", n, "mode", mode)
	}
	return g, nil
}

func (u *Service) view(g *game) GameView {
	byID := make(map[string]domain.Event, len(g.events))
	for _, e := range g.events {
		byID[e.ID] = e
	}
	arranged := make([]domain.Event, 0, len(g.state.CurrentOrder))
	for _, id := range g.state.CurrentOrder {
		arranged = append(arranged, byID[id])
	}
	v := GameView{
		PuzzleNumber: g.n,
		Mode:         g.mode,
		Status:       g.state.Status(),
		State:        g.state,
		Events:       domain.Public(arranged),
	}
	if g.state.Completed {
		v.Solution = selector.TrueOrder(g.events)
	}
	return v
}

// Start resumes the player's game for id, or starts it.
func (u *Service) Start(ctx context.Context, player, id string) (GameView, error) {
	defer u.lock(player)()
	g, err := u.open(ctx, player, id, u.Now())
	if err != nil {
		return GameView{}, err
	}
	return u.view(g), nil
}

// Reorder saves a new arrangement without submitting it.
func (u *Service) Reorder(ctx context.Context, player, id string, order []string) (GameView, error) {
	defer u.lock(player)()
	g, err := u.open(ctx, player, id, u.Now())
	if err != nil {
		return GameView{}, err
	}
	if err := validator.Submission(order, g.events); err != nil {
		u.Metrics.Rejected("malformed")
		return GameView{}, err
	}
	if err := scorer.Reorder(g.state, order); err != nil {
		u.Metrics.Rejected(rejectReason(err))
		return GameView{}, err
	}
	if err := g.store.SaveGame(ctx, g.key, g.state); err != nil {
		return GameView{}, err
	}
	return u.view(g), nil
}

// Submit scores order as the player's next attempt. Finishing a daily game
// records it in the player's stats; archive games never do.
func (u *Service) Submit(ctx context.Context, player, id string, order []string) (SubmitResult, error) {
	defer u.lock(player)()
	now := u.Now()
	g, err := u.open(ctx, player, id, now)
	if err != nil {
		return SubmitResult{}, err
	}
	if err := validator.Submission(order, g.events); err != nil {
		u.Metrics.Rejected("malformed")
		return SubmitResult{}, err
	}

	truth := domain.IDs(selector.TrueOrder(g.events))
	attempt, err := scorer.Submit(g.state, order, truth)
	if err != nil {
		u.Metrics.Rejected(rejectReason(err))
		return SubmitResult{}, err
	}
	if err := g.store.SaveGame(ctx, g.key, g.state); err != nil {
		return SubmitResult{}, err
	}
	u.Metrics.Submitted(g.mode.String(), attempt.Correct())

	res := SubmitResult{GameView: u.view(g), Attempt: attempt}
	if !g.state.Completed {
		return res, nil
	}

	guesses := len(g.state.Attempts)
	u.Metrics.Completed(g.mode.String(), g.state.Won, guesses)
	u.Logger.Info("game completed", "puzzle", g.n, "mode", g.mode, "won", g.state.Won, "guesses", guesses)
	if g.mode == domain.Daily {
		st, err := g.store.RecordCompletion(ctx, now, g.state.Won, guesses)
		if err != nil {
			return SubmitResult{}, err
		}
		res.Stats = &st
	}
	return res, nil
}

func (u *Service) Stats(ctx context.Context, player string) (domain.Stats, error) {
	return u.store(player).LoadStats(ctx, u.Now())
}

// Share renders a finished game. It fails with ErrGameInProgress until the
// game is over.
func (u *Service) Share(ctx context.Context, player, id string) (string, error) {
	defer u.lock(player)()
	now := u.Now()
	g, err := u.open(ctx, player, id, now)
	if err != nil {
		return "", err
	}
	if !g.state.Completed {
		return "", ErrGameInProgress
	}
	d := share.Data{
		PuzzleNumber: g.n,
		Attempts:     g.state.Attempts,
		Won:          g.state.Won,
		Practice:     g.mode == domain.Archive,
	}
	if g.mode == domain.Daily {
		st, err := g.store.LoadStats(ctx, now)
		if err != nil {
			return "", err
		}
		d.Streak = st.CurrentStreak
	}
	return share.Text(d), nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, scorer.ErrGameOver):
		return "game_over"
	case errors.Is(err, scorer.ErrLockedPosition):
		return "locked"
	default:
		return "other"
	}
}
