package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtcap/fantasy-nba/internal/domain/player"
	"github.com/courtcap/fantasy-nba/internal/domain/playerscore"
	"github.com/courtcap/fantasy-nba/internal/domain/salary"
)

// SalaryService recomputes player salaries from recent fantasy production.
// The weekly batch fans out over a bounded worker pool; one player failing
// never aborts the run.
type SalaryService struct {
	playerRepo player.Repository
	scoreRepo  playerscore.Repository
	params     salary.Params
	workers    int
	logger     *slog.Logger
	now        func() time.Time
}

func NewSalaryService(
	playerRepo player.Repository,
	scoreRepo playerscore.Repository,
	params salary.Params,
	workers int,
	logger *slog.Logger,
) *SalaryService {
	if workers <= 0 {
		workers = 8
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SalaryService{
		playerRepo: playerRepo,
		scoreRepo:  scoreRepo,
		params:     params,
		workers:    workers,
		logger:     logger,
		now:        time.Now,
	}
}

// BatchResult summarizes one salary run. Updated+Skipped+Errored equals the
// number of players considered.
type BatchResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// PlayerSalaryUpdate reports a single recompute.
type PlayerSalaryUpdate struct {
	PlayerID    string
	OldSalary   int64
	NewSalary   int64
	AvgScore    float64
	GamesPlayed int
}

// RecalculateSalaries recomputes salaries for every active player, with all
// windows anchored at asOf. Players with fewer than the minimum scored games
// keep their current salary and count as skipped.
func (s *SalaryService) RecalculateSalaries(ctx context.Context, asOf time.Time) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SalaryService.RecalculateSalaries")
	defer span.End()

	if asOf.IsZero() {
		asOf = s.now()
	}

	players, err := s.playerRepo.List(ctx, player.ListFilter{ActiveOnly: true})
	if err != nil {
		return BatchResult{}, fmt.Errorf("list active players: %w", err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create salary worker pool: %w", err)
	}
	defer pool.Release()

	var (
		updated atomic.Int64
		skipped atomic.Int64
		errored atomic.Int64
		wg      sync.WaitGroup
	)

	started := s.now()
	for _, item := range players {
		if ctx.Err() != nil {
			break
		}

		item := item
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			update, err := s.recalculateOne(ctx, item, asOf)
			switch {
			case err == nil:
				updated.Add(1)
			case isInsufficientData(err):
				skipped.Add(1)
			default:
				errored.Add(1)
				s.logger.ErrorContext(ctx, "salary recompute failed",
					"player_id", item.ID,
					"error", err,
				)
				return
			}
			_ = update
		})
		if submitErr != nil {
			wg.Done()
			errored.Add(1)
		}
	}

	wg.Wait()

	result := BatchResult{
		Updated: int(updated.Load()),
		Skipped: int(skipped.Load()),
		Errored: int(errored.Load()),
	}

	s.logger.InfoContext(ctx, "salary batch finished",
		"players", len(players),
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errored", result.Errored,
		"duration", s.now().Sub(started).String(),
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("salary batch interrupted: %w", err)
	}

	return result, nil
}

// RecalculatePlayer recomputes one player's salary on demand.
func (s *SalaryService) RecalculatePlayer(ctx context.Context, playerID string) (PlayerSalaryUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SalaryService.RecalculatePlayer")
	defer span.End()

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerSalaryUpdate{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return PlayerSalaryUpdate{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return s.recalculateOne(ctx, item, s.now())
}

func (s *SalaryService) recalculateOne(ctx context.Context, item player.Player, asOf time.Time) (PlayerSalaryUpdate, error) {
	windowStart := asOf.UTC().AddDate(0, 0, -s.params.WindowDays)

	gamesPlayed, err := s.scoreRepo.CountByPlayerSince(ctx, item.ID, windowStart)
	if err != nil {
		return PlayerSalaryUpdate{}, fmt.Errorf("count scored games: %w", err)
	}

	recent, err := s.scoreRepo.ListRecentByPlayer(ctx, item.ID, windowStart, s.params.HistoryGames)
	if err != nil {
		return PlayerSalaryUpdate{}, fmt.Errorf("list recent scores: %w", err)
	}

	scores := make([]float64, 0, len(recent))
	for _, score := range recent {
		scores = append(scores, score.FantasyScore)
	}

	newSalary, ok := salary.Compute(scores, gamesPlayed, s.params)
	if !ok {
		return PlayerSalaryUpdate{}, fmt.Errorf("%w: player=%s games=%d min=%d",
			ErrInsufficientData, item.ID, len(scores), s.params.MinGames)
	}

	avg := 0.0
	for _, v := range scores {
		avg += v
	}
	avg /= float64(len(scores))

	if err := s.playerRepo.UpdateSalary(ctx, item.ID, newSalary, avg, gamesPlayed); err != nil {
		return PlayerSalaryUpdate{}, fmt.Errorf("persist salary: %w", err)
	}

	return PlayerSalaryUpdate{
		PlayerID:    item.ID,
		OldSalary:   item.Salary,
		NewSalary:   newSalary,
		AvgScore:    avg,
		GamesPlayed: gamesPlayed,
	}, nil
}
