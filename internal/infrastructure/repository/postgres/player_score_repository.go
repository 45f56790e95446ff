package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/courtcap/fantasy-nba/internal/domain/playerscore"
	qb "github.com/courtcap/fantasy-nba/internal/platform/querybuilder"
)

type PlayerScoreRepository struct {
	db *sqlx.DB
}

var playerScoreSelectColumns = []string{
	"player_id",
	"game_date",
	"minutes",
	"points",
	"total_rebounds",
	"assists",
	"steals",
	"blocks",
	"turnovers",
	"personal_fouls",
	"field_goals_made",
	"field_goals_attempted",
	"three_pointers_made",
	"free_throws_made",
	"free_throws_attempted",
	"fantasy_score",
	"breakdown",
	"created_at",
}

func NewPlayerScoreRepository(db *sqlx.DB) *PlayerScoreRepository {
	return &PlayerScoreRepository{db: db}
}

func (r *PlayerScoreRepository) Upsert(ctx context.Context, score playerscore.DailyPlayerScore) error {
	breakdown, err := sonic.Marshal(score.Breakdown)
	if err != nil {
		return fmt.Errorf("encode score breakdown player=%s: %w", score.PlayerID, err)
	}

	const query = `
INSERT INTO daily_player_scores (
    player_id, game_date, minutes, points, total_rebounds, assists, steals,
    blocks, turnovers, personal_fouls, field_goals_made, field_goals_attempted,
    three_pointers_made, free_throws_made, free_throws_attempted,
    fantasy_score, breakdown
) VALUES (
    :player_id, :game_date, :minutes, :points, :total_rebounds, :assists, :steals,
    :blocks, :turnovers, :personal_fouls, :field_goals_made, :field_goals_attempted,
    :three_pointers_made, :free_throws_made, :free_throws_attempted,
    :fantasy_score, :breakdown
)
ON CONFLICT (player_id, game_date)
DO UPDATE SET
    minutes = EXCLUDED.minutes,
    points = EXCLUDED.points,
    total_rebounds = EXCLUDED.total_rebounds,
    assists = EXCLUDED.assists,
    steals = EXCLUDED.steals,
    blocks = EXCLUDED.blocks,
    turnovers = EXCLUDED.turnovers,
    personal_fouls = EXCLUDED.personal_fouls,
    field_goals_made = EXCLUDED.field_goals_made,
    field_goals_attempted = EXCLUDED.field_goals_attempted,
    three_pointers_made = EXCLUDED.three_pointers_made,
    free_throws_made = EXCLUDED.free_throws_made,
    free_throws_attempted = EXCLUDED.free_throws_attempted,
    fantasy_score = EXCLUDED.fantasy_score,
    breakdown = EXCLUDED.breakdown`

	boundSQL, boundArgs, err := sqlx.Named(query, map[string]any{
		"player_id":             score.PlayerID,
		"game_date":             score.GameDate,
		"minutes":               score.Stats.Minutes,
		"points":                score.Stats.Points,
		"total_rebounds":        score.Stats.TotalRebounds,
		"assists":               score.Stats.Assists,
		"steals":                score.Stats.Steals,
		"blocks":                score.Stats.Blocks,
		"turnovers":             score.Stats.Turnovers,
		"personal_fouls":        score.Stats.PersonalFouls,
		"field_goals_made":      score.Stats.FieldGoalsMade,
		"field_goals_attempted": score.Stats.FieldGoalsAttempted,
		"three_pointers_made":   score.Stats.ThreePointersMade,
		"free_throws_made":      score.Stats.FreeThrowsMade,
		"free_throws_attempted": score.Stats.FreeThrowsAttempted,
		"fantasy_score":         score.FantasyScore,
		"breakdown":             breakdown,
	})
	if err != nil {
		return fmt.Errorf("bind upsert player score query: %w", err)
	}
	boundSQL = r.db.Rebind(boundSQL)

	if _, err := r.db.ExecContext(ctx, boundSQL, boundArgs...); err != nil {
		return fmt.Errorf("upsert player score player=%s date=%s: %w",
			score.PlayerID, score.GameDate.Format("2006-01-02"), err)
	}

	return nil
}

func (r *PlayerScoreRepository) Get(ctx context.Context, playerID string, gameDate time.Time) (playerscore.DailyPlayerScore, bool, error) {
	query, args, err := qb.Select(playerScoreSelectColumns...).From("daily_player_scores").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("game_date", gameDate),
		).
		ToSQL()
	if err != nil {
		return playerscore.DailyPlayerScore{}, false, fmt.Errorf("build select player score query: %w", err)
	}

	var row playerScoreTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerscore.DailyPlayerScore{}, false, nil
		}
		return playerscore.DailyPlayerScore{}, false, fmt.Errorf("select player score: %w", err)
	}

	out, err := row.toDomain()
	if err != nil {
		return playerscore.DailyPlayerScore{}, false, err
	}

	return out, true, nil
}

func (r *PlayerScoreRepository) ListRecentByPlayer(ctx context.Context, playerID string, since time.Time, limit int) ([]playerscore.DailyPlayerScore, error) {
	query, args, err := qb.Select(playerScoreSelectColumns...).From("daily_player_scores").
		Where(
			qb.Eq("player_id", playerID),
			qb.Expr("game_date >= ?", since),
		).
		OrderBy("game_date DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent player scores query: %w", err)
	}

	var rows []playerScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent player scores: %w", err)
	}

	out := make([]playerscore.DailyPlayerScore, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *PlayerScoreRepository) CountByPlayerSince(ctx context.Context, playerID string, since time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("daily_player_scores").
		Where(
			qb.Eq("player_id", playerID),
			qb.Expr("game_date >= ?", since),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count player scores query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count player scores: %w", err)
	}

	return count, nil
}

func (r *PlayerScoreRepository) ListByDate(ctx context.Context, gameDate time.Time) ([]playerscore.DailyPlayerScore, error) {
	query, args, err := qb.Select(playerScoreSelectColumns...).From("daily_player_scores").
		Where(qb.Eq("game_date", gameDate)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player scores by date query: %w", err)
	}

	var rows []playerScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player scores by date: %w", err)
	}

	out := make([]playerscore.DailyPlayerScore, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}
