package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtcap/fantasy-nba/internal/domain/league"
	qb "github.com/courtcap/fantasy-nba/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

type leagueTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"league_type"`
	StartsAt  time.Time `db:"starts_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:        m.ID,
		Name:      m.Name,
		Type:      league.Type(m.Type),
		StartsAt:  m.StartsAt,
		CreatedAt: m.CreatedAt,
	}
}

var leagueSelectColumns = []string{"id", "name", "league_type", "starts_at", "created_at"}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select(leagueSelectColumns...).From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select(leagueSelectColumns...).From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) error {
	const query = `
INSERT INTO leagues (id, name, league_type, starts_at)
VALUES (:id, :name, :league_type, :starts_at)
ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    league_type = EXCLUDED.league_type,
    starts_at = EXCLUDED.starts_at`

	boundSQL, boundArgs, err := sqlx.Named(query, map[string]any{
		"id":          item.ID,
		"name":        item.Name,
		"league_type": string(item.Type),
		"starts_at":   item.StartsAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert league query: %w", err)
	}
	boundSQL = r.db.Rebind(boundSQL)

	if _, err := r.db.ExecContext(ctx, boundSQL, boundArgs...); err != nil {
		return fmt.Errorf("upsert league id=%s: %w", item.ID, err)
	}

	return nil
}
