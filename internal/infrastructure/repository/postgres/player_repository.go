package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/courtcap/fantasy-nba/internal/domain/player"
	qb "github.com/courtcap/fantasy-nba/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"external_id",
	"name",
	"position",
	"team_code",
	"is_active",
	"salary",
	"avg_fantasy_score",
	"games_played_window",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by external id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by external id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, error) {
	builder := qb.Select(playerSelectColumns...).From("players")
	if filter.ActiveOnly {
		builder = builder.Where(qb.Eq("is_active", true))
	}
	if filter.Position != nil {
		builder = builder.Where(qb.Eq("position", string(*filter.Position)))
	}
	if filter.TeamCode != "" {
		builder = builder.Where(qb.Expr("UPPER(team_code) = UPPER(?)", filter.TeamCode))
	}
	if filter.MaxSalary != nil {
		builder = builder.Where(qb.Expr("salary <= ?", *filter.MaxSalary))
	}
	if filter.NameContains != "" {
		builder = builder.Where(qb.Expr("name ILIKE ?", "%"+strings.TrimSpace(filter.NameContains)+"%"))
	}

	query, args, err := builder.OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) error {
	const query = `
INSERT INTO players (
    id, external_id, name, position, team_code, is_active,
    salary, avg_fantasy_score, games_played_window
) VALUES (
    :id, :external_id, :name, :position, :team_code, :is_active,
    :salary, :avg_fantasy_score, :games_played_window
)
ON CONFLICT (external_id)
DO UPDATE SET
    name = EXCLUDED.name,
    position = EXCLUDED.position,
    team_code = EXCLUDED.team_code,
    is_active = EXCLUDED.is_active,
    updated_at = NOW()`

	args := map[string]any{
		"id":                  item.ID,
		"external_id":         item.ExternalID,
		"name":                item.Name,
		"position":            string(item.Position),
		"team_code":           item.TeamCode,
		"is_active":           item.IsActive,
		"salary":              item.Salary,
		"avg_fantasy_score":   item.AvgFantasyScore,
		"games_played_window": item.GamesPlayedWindow,
	}
	boundSQL, boundArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind upsert player query: %w", err)
	}
	boundSQL = r.db.Rebind(boundSQL)

	if _, err := r.db.ExecContext(ctx, boundSQL, boundArgs...); err != nil {
		return fmt.Errorf("upsert player external_id=%d: %w", item.ExternalID, err)
	}

	return nil
}

func (r *PlayerRepository) UpdateSalary(ctx context.Context, playerID string, salary int64, avgScore float64, gamesPlayed int) error {
	query, args, err := qb.Update("players").
		Set("salary", salary).
		Set("avg_fantasy_score", avgScore).
		Set("games_played_window", gamesPlayed).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player salary query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player salary player_id=%s: %w", playerID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update player salary result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update player salary: player %s not found", playerID)
	}

	return nil
}
