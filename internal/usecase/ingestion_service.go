package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/gamestats"
	"github.com/courtcap/fantasy-nba/internal/domain/player"
	"github.com/courtcap/fantasy-nba/internal/domain/playerscore"
	"github.com/courtcap/fantasy-nba/internal/domain/scoring"
	idgen "github.com/courtcap/fantasy-nba/internal/platform/id"
	"github.com/courtcap/fantasy-nba/internal/platform/logging"
)

// StatsProvider is the upstream box-score feed. The concrete client lives in
// external/nbastats; retries and circuit breaking are its concern, the
// ingestor only sees final results.
type StatsProvider interface {
	// ListGames returns the provider IDs of games played on the given date.
	ListGames(ctx context.Context, date time.Time) ([]string, error)
	// FetchBoxScore returns one normalized stat line per player in the game.
	FetchBoxScore(ctx context.Context, gameID string) ([]ExternalStatLine, error)
	// ListPlayers returns the full player catalog.
	ListPlayers(ctx context.Context) ([]ExternalPlayer, error)
}

type ExternalPlayer struct {
	ExternalID int64
	Name       string
	Position   string
	TeamCode   string
	IsActive   bool
}

type ExternalStatLine struct {
	PlayerExternalID int64
	PlayerName       string
	TeamCode         string
	GameDate         time.Time
	Stats            gamestats.CanonicalGameStats
}

// IngestResult counts stat lines, not games. A line is skipped when its
// player is unknown, errored when it fails validation or persistence.
type IngestResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errored   int `json:"errored"`
}

func (r *IngestResult) add(other IngestResult) {
	r.Processed += other.Processed
	r.Skipped += other.Skipped
	r.Errored += other.Errored
}

// IngestionService pulls box scores from the provider, normalizes them,
// scores them, and persists one row per (player, date). Re-ingesting the
// same game overwrites rather than duplicates.
type IngestionService struct {
	provider   StatsProvider
	playerRepo player.Repository
	scoreRepo  playerscore.Repository
	weights    scoring.Weights
	// InitialSalary is assigned to players first seen via SyncPlayers; the
	// weekly salary engine takes over once they have enough scored games.
	initialSalary int64
	idGen         idgen.Generator
	logger        *logging.Logger
	now           func() time.Time
}

func NewIngestionService(
	provider StatsProvider,
	playerRepo player.Repository,
	scoreRepo playerscore.Repository,
	weights scoring.Weights,
	initialSalary int64,
	idGen idgen.Generator,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		provider:      provider,
		playerRepo:    playerRepo,
		scoreRepo:     scoreRepo,
		weights:       weights,
		initialSalary: initialSalary,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

// IngestGame fetches and scores every stat line of one finished game.
func (s *IngestionService) IngestGame(ctx context.Context, gameID string) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return IngestResult{}, fmt.Errorf("%w: game_id is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return IngestResult{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	lines, err := s.provider.FetchBoxScore(ctx, gameID)
	if err != nil {
		return IngestResult{}, fmt.Errorf("fetch game lines game_id=%s: %w", gameID, err)
	}

	result := s.ingestLines(ctx, gameID, lines)

	s.logger.InfoContext(ctx, "game ingested",
		"game_id", gameID,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"errored", result.Errored,
	)

	return result, nil
}

// IngestDate ingests every game played on the given calendar date. One game
// failing outright does not abort the rest of the date.
func (s *IngestionService) IngestDate(ctx context.Context, date time.Time) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestDate")
	defer span.End()

	if s.provider == nil {
		return IngestResult{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	day := date.UTC().Truncate(24 * time.Hour)
	gameIDs, err := s.provider.ListGames(ctx, day)
	if err != nil {
		return IngestResult{}, fmt.Errorf("fetch game ids date=%s: %w", day.Format("2006-01-02"), err)
	}

	var total IngestResult
	for _, gameID := range gameIDs {
		if ctx.Err() != nil {
			return total, fmt.Errorf("date ingest interrupted: %w", ctx.Err())
		}

		result, err := s.IngestGame(ctx, gameID)
		if err != nil {
			total.Errored++
			s.logger.ErrorContext(ctx, "game ingest failed, continuing with remaining games",
				"game_id", gameID,
				"date", day.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		total.add(result)
	}

	s.logger.InfoContext(ctx, "date ingested",
		"date", day.Format("2006-01-02"),
		"games", len(gameIDs),
		"processed", total.Processed,
		"skipped", total.Skipped,
		"errored", total.Errored,
	)

	return total, nil
}

// SyncPlayers refreshes the player catalog from the provider roster feed.
// Existing players keep their salary and rolling aggregates; new players
// start at the configured initial salary.
func (s *IngestionService) SyncPlayers(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncPlayers")
	defer span.End()

	if s.provider == nil {
		return 0, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	externals, err := s.provider.ListPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch provider players: %w", err)
	}

	synced := 0
	for _, ext := range externals {
		if ext.ExternalID <= 0 || strings.TrimSpace(ext.Name) == "" {
			continue
		}

		position := player.Position(strings.ToUpper(strings.TrimSpace(ext.Position)))
		if !player.ValidPosition(position) {
			s.logger.WarnContext(ctx, "skip player with unknown position",
				"external_id", ext.ExternalID,
				"name", ext.Name,
				"position", ext.Position,
			)
			continue
		}

		item := player.Player{
			ExternalID: ext.ExternalID,
			Name:       strings.TrimSpace(ext.Name),
			Position:   position,
			TeamCode:   strings.ToUpper(strings.TrimSpace(ext.TeamCode)),
			IsActive:   ext.IsActive,
			Salary:     s.initialSalary,
		}

		if existing, found, err := s.playerRepo.GetByExternalID(ctx, ext.ExternalID); err != nil {
			return synced, fmt.Errorf("get player by external id %d: %w", ext.ExternalID, err)
		} else if found {
			item.ID = existing.ID
			item.Salary = existing.Salary
			item.AvgFantasyScore = existing.AvgFantasyScore
			item.GamesPlayedWindow = existing.GamesPlayedWindow
		} else {
			newID, err := s.idGen.NewID()
			if err != nil {
				return synced, fmt.Errorf("generate player id: %w", err)
			}
			item.ID = newID
		}

		if err := item.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid provider player",
				"external_id", ext.ExternalID,
				"error", err,
			)
			continue
		}
		if err := s.playerRepo.Upsert(ctx, item); err != nil {
			return synced, fmt.Errorf("upsert player external_id=%d: %w", ext.ExternalID, err)
		}
		synced++
	}

	s.logger.InfoContext(ctx, "player catalog synced", "received", len(externals), "synced", synced)

	return synced, nil
}

func (s *IngestionService) ingestLines(ctx context.Context, gameID string, lines []ExternalStatLine) IngestResult {
	var result IngestResult
	now := s.now().UTC()

	for _, line := range lines {
		if line.PlayerExternalID <= 0 {
			result.Errored++
			continue
		}

		item, found, err := s.playerRepo.GetByExternalID(ctx, line.PlayerExternalID)
		if err != nil {
			result.Errored++
			s.logger.ErrorContext(ctx, "resolve player for stat line failed",
				"game_id", gameID,
				"player_external_id", line.PlayerExternalID,
				"error", err,
			)
			continue
		}
		if !found {
			result.Skipped++
			s.logger.WarnContext(ctx, "skip stat line for unknown player",
				"game_id", gameID,
				"player_external_id", line.PlayerExternalID,
				"player_name", line.PlayerName,
			)
			continue
		}

		if err := line.Stats.Validate(); err != nil {
			result.Errored++
			s.logger.WarnContext(ctx, "drop invalid stat line",
				"game_id", gameID,
				"player_id", item.ID,
				"error", err,
			)
			continue
		}

		final, breakdown := scoring.Score(line.Stats, s.weights)
		score := playerscore.DailyPlayerScore{
			PlayerID:     item.ID,
			GameDate:     line.GameDate.UTC().Truncate(24 * time.Hour),
			Stats:        line.Stats,
			FantasyScore: final,
			Breakdown:    breakdown,
			CreatedAt:    now,
		}
		if err := s.scoreRepo.Upsert(ctx, score); err != nil {
			result.Errored++
			s.logger.ErrorContext(ctx, "persist daily score failed",
				"game_id", gameID,
				"player_id", item.ID,
				"error", err,
			)
			continue
		}
		result.Processed++
	}

	return result
}
