package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtcap/fantasy-nba/internal/domain/teamscore"
	qb "github.com/courtcap/fantasy-nba/internal/platform/querybuilder"
)

type TeamScoreRepository struct {
	db *sqlx.DB
}

type teamScoreTableModel struct {
	TeamID       string    `db:"team_id"`
	ScoreDate    time.Time `db:"score_date"`
	Total        float64   `db:"total"`
	PlayerCount  int       `db:"player_count"`
	CalculatedAt time.Time `db:"calculated_at"`
}

func NewTeamScoreRepository(db *sqlx.DB) *TeamScoreRepository {
	return &TeamScoreRepository{db: db}
}

func (r *TeamScoreRepository) Upsert(ctx context.Context, score teamscore.DailyTeamScore) error {
	const query = `
INSERT INTO daily_team_scores (team_id, score_date, total, player_count, calculated_at)
VALUES (:team_id, :score_date, :total, :player_count, :calculated_at)
ON CONFLICT (team_id, score_date)
DO UPDATE SET
    total = EXCLUDED.total,
    player_count = EXCLUDED.player_count,
    calculated_at = EXCLUDED.calculated_at`

	boundSQL, boundArgs, err := sqlx.Named(query, map[string]any{
		"team_id":       score.TeamID,
		"score_date":    score.ScoreDate,
		"total":         score.Total,
		"player_count":  score.PlayerCount,
		"calculated_at": score.CalculatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert team score query: %w", err)
	}
	boundSQL = r.db.Rebind(boundSQL)

	if _, err := r.db.ExecContext(ctx, boundSQL, boundArgs...); err != nil {
		return fmt.Errorf("upsert team score team=%s date=%s: %w",
			score.TeamID, score.ScoreDate.Format("2006-01-02"), err)
	}

	return nil
}

func (r *TeamScoreRepository) ListByTeamBetween(ctx context.Context, teamID string, from, to time.Time) ([]teamscore.DailyTeamScore, error) {
	query, args, err := qb.Select("team_id", "score_date", "total", "player_count", "calculated_at").
		From("daily_team_scores").
		Where(
			qb.Eq("team_id", teamID),
			qb.Expr("score_date >= ?", from),
			qb.Expr("score_date <= ?", to),
		).
		OrderBy("score_date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team scores query: %w", err)
	}

	var rows []teamScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team scores: %w", err)
	}

	out := make([]teamscore.DailyTeamScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamscore.DailyTeamScore{
			TeamID:       row.TeamID,
			ScoreDate:    row.ScoreDate,
			Total:        row.Total,
			PlayerCount:  row.PlayerCount,
			CalculatedAt: row.CalculatedAt,
		})
	}

	return out, nil
}
