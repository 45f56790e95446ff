package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/courtcap/fantasy-nba/internal/domain/league"
	"github.com/courtcap/fantasy-nba/internal/domain/playerscore"
	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	"github.com/courtcap/fantasy-nba/internal/domain/teamscore"
	"github.com/courtcap/fantasy-nba/internal/platform/logging"
)

// AggregationService rolls player daily scores up into team daily scores and
// serves leaderboards. Team totals count whoever is rostered at computation
// time; past totals are not rewritten when rosters change.
type AggregationService struct {
	leagueRepo    league.Repository
	teamRepo      roster.TeamRepository
	entryRepo     roster.EntryRepository
	scoreRepo     playerscore.Repository
	teamScoreRepo teamscore.Repository
	windowDays    int
	workers       int
	logger        *logging.Logger
	now           func() time.Time
}

func NewAggregationService(
	leagueRepo league.Repository,
	teamRepo roster.TeamRepository,
	entryRepo roster.EntryRepository,
	scoreRepo playerscore.Repository,
	teamScoreRepo teamscore.Repository,
	windowDays int,
	workers int,
	logger *logging.Logger,
) *AggregationService {
	if windowDays <= 0 {
		windowDays = 7
	}
	if workers <= 0 {
		workers = 8
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &AggregationService{
		leagueRepo:    leagueRepo,
		teamRepo:      teamRepo,
		entryRepo:     entryRepo,
		scoreRepo:     scoreRepo,
		teamScoreRepo: teamScoreRepo,
		windowDays:    windowDays,
		workers:       workers,
		logger:        logger,
		now:           time.Now,
	}
}

// AggregationResult summarizes one daily rollup run.
type AggregationResult struct {
	Teams   int `json:"teams"`
	Updated int `json:"updated"`
	Errored int `json:"errored"`
}

// ComputeTeamDailyScores recomputes every team's total for one game date
// across all leagues. Idempotent per (team, date).
func (s *AggregationService) ComputeTeamDailyScores(ctx context.Context, date time.Time) (AggregationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.ComputeTeamDailyScores")
	defer span.End()

	day := date.UTC().Truncate(24 * time.Hour)

	rows, err := s.scoreRepo.ListByDate(ctx, day)
	if err != nil {
		return AggregationResult{}, fmt.Errorf("list player scores date=%s: %w", day.Format("2006-01-02"), err)
	}
	scoreByPlayer := make(map[string]float64, len(rows))
	for _, row := range rows {
		scoreByPlayer[row.PlayerID] = row.FantasyScore
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return AggregationResult{}, fmt.Errorf("list leagues: %w", err)
	}

	teams := make([]roster.FantasyTeam, 0, 64)
	for _, lg := range leagues {
		leagueTeams, err := s.teamRepo.ListByLeague(ctx, lg.ID)
		if err != nil {
			return AggregationResult{}, fmt.Errorf("list teams league=%s: %w", lg.ID, err)
		}
		teams = append(teams, leagueTeams...)
	}

	var updated, errored atomic.Int64

	workers := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers)
	for _, team := range teams {
		team := team
		workers.Go(func(ctx context.Context) error {
			if err := s.computeOneTeam(ctx, team, day, scoreByPlayer); err != nil {
				errored.Add(1)
				s.logger.ErrorContext(ctx, "team daily score rollup failed",
					"team_id", team.ID,
					"date", day.Format("2006-01-02"),
					"error", err,
				)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return AggregationResult{}, fmt.Errorf("daily rollup interrupted: %w", err)
	}

	result := AggregationResult{
		Teams:   len(teams),
		Updated: int(updated.Load()),
		Errored: int(errored.Load()),
	}

	s.logger.InfoContext(ctx, "team daily scores computed",
		"date", day.Format("2006-01-02"),
		"teams", result.Teams,
		"updated", result.Updated,
		"errored", result.Errored,
	)

	return result, nil
}

func (s *AggregationService) computeOneTeam(ctx context.Context, team roster.FantasyTeam, day time.Time, scoreByPlayer map[string]float64) error {
	entries, err := s.entryRepo.ListByTeam(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("list roster entries: %w", err)
	}

	total := 0.0
	counted := 0
	for _, entry := range entries {
		if score, played := scoreByPlayer[entry.PlayerID]; played {
			total += score
			counted++
		}
	}
	total = math.Round(total*10) / 10

	return s.teamScoreRepo.Upsert(ctx, teamscore.DailyTeamScore{
		TeamID:       team.ID,
		ScoreDate:    day,
		Total:        total,
		PlayerCount:  counted,
		CalculatedAt: s.now().UTC(),
	})
}

// LeaderboardEntry is one ranked row. Equal totals share a rank (dense
// ranking, no gaps).
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	TeamID     string  `json:"teamId"`
	TeamName   string  `json:"teamName"`
	OwnerID    string  `json:"ownerId"`
	Total      float64 `json:"total"`
	ScoredDays int     `json:"scoredDays"`
	Average    float64 `json:"average"`
}

// LeaderboardWindowFor returns the scoring window for a league as of a
// moment: closed leagues accumulate since their start, open leagues over the
// trailing window.
func (s *AggregationService) LeaderboardWindowFor(lg league.League, asOf time.Time) (time.Time, time.Time) {
	to := asOf.UTC().Truncate(24 * time.Hour)
	if lg.Type == league.TypeClosed {
		return lg.StartsAt.UTC().Truncate(24 * time.Hour), to
	}
	return to.AddDate(0, 0, -s.windowDays), to
}

// Leaderboard ranks every team in a league. Open leagues rank over the
// trailing window; closed leagues rank since the league start.
func (s *AggregationService) Leaderboard(ctx context.Context, leagueID string) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.Leaderboard")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league_id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	from, to := s.LeaderboardWindowFor(lg, s.now())

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams league=%s: %w", leagueID, err)
	}

	entries := make([]LeaderboardEntry, 0, len(teams))
	for _, team := range teams {
		scores, err := s.teamScoreRepo.ListByTeamBetween(ctx, team.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("list team scores team=%s: %w", team.ID, err)
		}
		total := 0.0
		scoredDays := 0
		for _, score := range scores {
			total += score.Total
			if score.PlayerCount > 0 {
				scoredDays++
			}
		}
		average := 0.0
		if scoredDays > 0 {
			average = math.Round(total/float64(scoredDays)*10) / 10
		}
		entries = append(entries, LeaderboardEntry{
			TeamID:     team.ID,
			TeamName:   team.Name,
			OwnerID:    team.OwnerID,
			Total:      math.Round(total*10) / 10,
			ScoredDays: scoredDays,
			Average:    average,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		if entries[i].TeamName != entries[j].TeamName {
			return entries[i].TeamName < entries[j].TeamName
		}
		return entries[i].TeamID < entries[j].TeamID
	})

	rank := 0
	var prevTotal float64
	for idx := range entries {
		if idx == 0 || entries[idx].Total != prevTotal {
			rank++
		}
		entries[idx].Rank = rank
		prevTotal = entries[idx].Total
	}

	return entries, nil
}
