package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtcap/fantasy-nba/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the starter leagues and player pool into an empty
// database. A database that already has leagues is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, l := range memory.SeedLeagues() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO leagues (id, name, league_type, starts_at)
VALUES (:id, :name, :league_type, :starts_at)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":          l.ID,
			"name":        l.Name,
			"league_type": string(l.Type),
			"starts_at":   l.StartsAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed league %s query: %w", l.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed league %s: %w", l.ID, err)
		}
	}

	for _, p := range memory.SeedPlayers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (
    id, external_id, name, position, team_code, is_active,
    salary, avg_fantasy_score, games_played_window
) VALUES (
    :id, :external_id, :name, :position, :team_code, :is_active,
    :salary, :avg_fantasy_score, :games_played_window
)
ON CONFLICT (external_id) DO NOTHING`, map[string]any{
			"id":                  p.ID,
			"external_id":         p.ExternalID,
			"name":                p.Name,
			"position":            string(p.Position),
			"team_code":           p.TeamCode,
			"is_active":           p.IsActive,
			"salary":              p.Salary,
			"avg_fantasy_score":   p.AvgFantasyScore,
			"games_played_window": p.GamesPlayedWindow,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
