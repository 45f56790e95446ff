package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/gamestats"
	"github.com/courtcap/fantasy-nba/internal/domain/scoring"
	"github.com/courtcap/fantasy-nba/internal/infrastructure/repository/memory"
	"github.com/courtcap/fantasy-nba/internal/platform/logging"
)

type fakeStatsProvider struct {
	gamesByDate map[string][]string
	linesByGame map[string][]ExternalStatLine
	players     []ExternalPlayer
	failGames   map[string]error
}

func (p *fakeStatsProvider) ListGames(_ context.Context, date time.Time) ([]string, error) {
	return p.gamesByDate[date.Format("2006-01-02")], nil
}

func (p *fakeStatsProvider) FetchBoxScore(_ context.Context, gameID string) ([]ExternalStatLine, error) {
	if err, failed := p.failGames[gameID]; failed {
		return nil, err
	}
	return p.linesByGame[gameID], nil
}

func (p *fakeStatsProvider) ListPlayers(_ context.Context) ([]ExternalPlayer, error) {
	return p.players, nil
}

func statLine(externalID int64, date time.Time, points, rebounds int) ExternalStatLine {
	return ExternalStatLine{
		PlayerExternalID: externalID,
		GameDate:         date,
		Stats: gamestats.CanonicalGameStats{
			Minutes:             34,
			Points:              points,
			TotalRebounds:       rebounds,
			FieldGoalsMade:      points / 2,
			FieldGoalsAttempted: points,
		},
	}
}

func TestIngestionService_IngestGame(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	scoreRepo := memory.NewPlayerScoreRepository()
	gameDate := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

	provider := &fakeStatsProvider{
		linesByGame: map[string][]ExternalStatLine{
			"0022600512": {
				statLine(201939, gameDate, 32, 5), // Curry
				statLine(203999, gameDate, 24, 14), // Jokic
				statLine(999999, gameDate, 10, 2), // not in the pool
				{
					PlayerExternalID: 1628369, // Tatum, invalid line
					GameDate:         gameDate,
					Stats:            gamestats.CanonicalGameStats{Points: -3},
				},
			},
		},
	}

	service := NewIngestionService(
		provider,
		playerRepo,
		scoreRepo,
		scoring.DefaultWeights(),
		5_000_000,
		&sequenceIDGenerator{prefix: "player"},
		logging.NewNop(),
	)

	result, err := service.IngestGame(t.Context(), "0022600512")
	if err != nil {
		t.Fatalf("ingest game failed: %v", err)
	}
	if result.Processed != 2 || result.Skipped != 1 || result.Errored != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	score, found, err := scoreRepo.Get(t.Context(), "pg-curry", gameDate)
	if err != nil || !found {
		t.Fatalf("expected curry score row, found=%v err=%v", found, err)
	}
	if score.FantasyScore <= 0 {
		t.Fatalf("expected positive fantasy score, got %f", score.FantasyScore)
	}

	// Re-ingesting overwrites instead of duplicating.
	again, err := service.IngestGame(t.Context(), "0022600512")
	if err != nil {
		t.Fatalf("re-ingest failed: %v", err)
	}
	if again.Processed != 2 {
		t.Fatalf("expected idempotent re-ingest, got %+v", again)
	}
	count, err := scoreRepo.CountByPlayerSince(t.Context(), "pg-curry", gameDate.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row per (player, date), got %d", count)
	}
}

func TestIngestionService_IngestDate(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	scoreRepo := memory.NewPlayerScoreRepository()
	gameDate := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

	provider := &fakeStatsProvider{
		gamesByDate: map[string][]string{
			"2026-02-09": {"g-1", "g-2", "g-3"},
		},
		linesByGame: map[string][]ExternalStatLine{
			"g-1": {statLine(201939, gameDate, 30, 4)},
			"g-2": {statLine(203999, gameDate, 28, 12)},
		},
		failGames: map[string]error{
			"g-3": errors.New("provider timeout"),
		},
	}

	service := NewIngestionService(
		provider,
		playerRepo,
		scoreRepo,
		scoring.DefaultWeights(),
		5_000_000,
		&sequenceIDGenerator{prefix: "player"},
		logging.NewNop(),
	)

	result, err := service.IngestDate(t.Context(), gameDate)
	if err != nil {
		t.Fatalf("ingest date failed: %v", err)
	}
	if result.Processed != 2 {
		t.Fatalf("expected 2 processed lines, got %+v", result)
	}
	if result.Errored != 1 {
		t.Fatalf("expected failed game counted, not fatal, got %+v", result)
	}
}

func TestIngestionService_SyncPlayers(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	scoreRepo := memory.NewPlayerScoreRepository()

	provider := &fakeStatsProvider{
		players: []ExternalPlayer{
			// Existing player: salary must survive the sync.
			{ExternalID: 201939, Name: "Stephen Curry", Position: "PG", TeamCode: "GSW", IsActive: true},
			// New player: gets the initial salary.
			{ExternalID: 1641705, Name: "Victor Wembanyama", Position: "C", TeamCode: "SAS", IsActive: true},
			// Unknown position: skipped.
			{ExternalID: 777, Name: "Mystery Man", Position: "??", TeamCode: "UNK", IsActive: true},
		},
	}

	service := NewIngestionService(
		provider,
		playerRepo,
		scoreRepo,
		scoring.DefaultWeights(),
		5_000_000,
		&sequenceIDGenerator{prefix: "player"},
		logging.NewNop(),
	)

	synced, err := service.SyncPlayers(t.Context())
	if err != nil {
		t.Fatalf("sync players failed: %v", err)
	}
	if synced != 2 {
		t.Fatalf("expected 2 synced players, got %d", synced)
	}

	curry, found, err := playerRepo.GetByExternalID(t.Context(), 201939)
	if err != nil || !found {
		t.Fatalf("expected curry after sync, found=%v err=%v", found, err)
	}
	if curry.Salary != 16_500_000 {
		t.Fatalf("existing salary must survive sync, got %d", curry.Salary)
	}

	wemby, found, err := playerRepo.GetByExternalID(t.Context(), 1641705)
	if err != nil || !found {
		t.Fatalf("expected wembanyama after sync, found=%v err=%v", found, err)
	}
	if wemby.Salary != 5_000_000 {
		t.Fatalf("new player must start at the initial salary, got %d", wemby.Salary)
	}
}
