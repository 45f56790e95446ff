package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	qb "github.com/courtcap/fantasy-nba/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

type teamTableModel struct {
	ID             string    `db:"id"`
	OwnerID        string    `db:"owner_id"`
	LeagueID       string    `db:"league_id"`
	Name           string    `db:"name"`
	CapUsed        int64     `db:"cap_used"`
	RosterComplete bool      `db:"roster_complete"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() roster.FantasyTeam {
	return roster.FantasyTeam{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		LeagueID:       m.LeagueID,
		Name:           m.Name,
		CapUsed:        m.CapUsed,
		RosterComplete: m.RosterComplete,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

var teamSelectColumns = []string{
	"id",
	"owner_id",
	"league_id",
	"name",
	"cap_used",
	"roster_complete",
	"created_at",
	"updated_at",
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (roster.FantasyTeam, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return roster.FantasyTeam{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.FantasyTeam{}, false, nil
		}
		return roster.FantasyTeam{}, false, fmt.Errorf("select team: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) GetByOwnerAndLeague(ctx context.Context, ownerID, leagueID string) (roster.FantasyTeam, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").
		Where(
			qb.Eq("owner_id", ownerID),
			qb.Eq("league_id", leagueID),
		).
		ToSQL()
	if err != nil {
		return roster.FantasyTeam{}, false, fmt.Errorf("build select team by owner query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.FantasyTeam{}, false, nil
		}
		return roster.FantasyTeam{}, false, fmt.Errorf("select team by owner: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.FantasyTeam, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams by league query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}

	out := make([]roster.FantasyTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, team roster.FantasyTeam) error {
	const query = `
INSERT INTO fantasy_teams (id, owner_id, league_id, name, cap_used, roster_complete)
VALUES (:id, :owner_id, :league_id, :name, :cap_used, :roster_complete)`

	boundSQL, boundArgs, err := sqlx.Named(query, map[string]any{
		"id":              team.ID,
		"owner_id":        team.OwnerID,
		"league_id":       team.LeagueID,
		"name":            team.Name,
		"cap_used":        team.CapUsed,
		"roster_complete": team.RosterComplete,
	})
	if err != nil {
		return fmt.Errorf("bind insert team query: %w", err)
	}
	boundSQL = r.db.Rebind(boundSQL)

	if _, err := r.db.ExecContext(ctx, boundSQL, boundArgs...); err != nil {
		return fmt.Errorf("insert team id=%s: %w", team.ID, err)
	}

	return nil
}

func (r *TeamRepository) Update(ctx context.Context, team roster.FantasyTeam) error {
	query, args, err := qb.Update("fantasy_teams").
		Set("name", team.Name).
		Set("cap_used", team.CapUsed).
		Set("roster_complete", team.RosterComplete).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", team.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team id=%s: %w", team.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update team result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update team: team %s not found", team.ID)
	}

	return nil
}
