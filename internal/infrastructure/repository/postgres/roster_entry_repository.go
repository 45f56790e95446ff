package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	qb "github.com/courtcap/fantasy-nba/internal/platform/querybuilder"
)

type RosterEntryRepository struct {
	db *sqlx.DB
}

type rosterEntryTableModel struct {
	TeamID              string    `db:"team_id"`
	PlayerID            string    `db:"player_id"`
	Slot                string    `db:"slot"`
	SalaryAtAcquisition int64     `db:"salary_at_acquisition"`
	AcquiredAt          time.Time `db:"acquired_at"`
}

func (m rosterEntryTableModel) toDomain() roster.Entry {
	return roster.Entry{
		TeamID:              m.TeamID,
		PlayerID:            m.PlayerID,
		Slot:                roster.Slot(m.Slot),
		SalaryAtAcquisition: m.SalaryAtAcquisition,
		AcquiredAt:          m.AcquiredAt,
	}
}

var rosterEntrySelectColumns = []string{
	"team_id",
	"player_id",
	"slot",
	"salary_at_acquisition",
	"acquired_at",
}

func NewRosterEntryRepository(db *sqlx.DB) *RosterEntryRepository {
	return &RosterEntryRepository{db: db}
}

func (r *RosterEntryRepository) ListByTeam(ctx context.Context, teamID string) ([]roster.Entry, error) {
	query, args, err := qb.Select(rosterEntrySelectColumns...).From("roster_entries").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("slot").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster entries query: %w", err)
	}

	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *RosterEntryRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Entry, error) {
	const query = `
SELECT e.team_id, e.player_id, e.slot, e.salary_at_acquisition, e.acquired_at
FROM roster_entries e
JOIN fantasy_teams t ON t.id = e.team_id
WHERE t.league_id = $1
ORDER BY e.team_id, e.slot`

	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list roster entries by league: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *RosterEntryRepository) Create(ctx context.Context, entry roster.Entry) error {
	row := rosterEntryTableModel{
		TeamID:              entry.TeamID,
		PlayerID:            entry.PlayerID,
		Slot:                string(entry.Slot),
		SalaryAtAcquisition: entry.SalaryAtAcquisition,
		AcquiredAt:          entry.AcquiredAt,
	}
	query, args, err := qb.InsertModel("roster_entries", row, "")
	if err != nil {
		return fmt.Errorf("build insert roster entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert roster entry team=%s player=%s: %w", entry.TeamID, entry.PlayerID, err)
	}

	return nil
}

func (r *RosterEntryRepository) Delete(ctx context.Context, teamID, playerID string) error {
	const query = `DELETE FROM roster_entries WHERE team_id = $1 AND player_id = $2`

	result, err := r.db.ExecContext(ctx, query, teamID, playerID)
	if err != nil {
		return fmt.Errorf("delete roster entry team=%s player=%s: %w", teamID, playerID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read delete roster entry result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete roster entry: player %s is not on team %s", playerID, teamID)
	}

	return nil
}
