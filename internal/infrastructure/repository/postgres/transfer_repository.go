package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtcap/fantasy-nba/internal/domain/roster"
	qb "github.com/courtcap/fantasy-nba/internal/platform/querybuilder"
)

type TransferRepository struct {
	db *sqlx.DB
}

type transferTableModel struct {
	ID           string    `db:"id"`
	TeamID       string    `db:"team_id"`
	PlayerID     string    `db:"player_id"`
	Type         string    `db:"transfer_type"`
	Status       string    `db:"status"`
	Slot         string    `db:"slot"`
	Salary       int64     `db:"salary"`
	Construction bool      `db:"construction"`
	ProcessedAt  time.Time `db:"processed_at"`
}

func (m transferTableModel) toDomain() roster.Transfer {
	return roster.Transfer{
		ID:           m.ID,
		TeamID:       m.TeamID,
		PlayerID:     m.PlayerID,
		Type:         roster.TransferType(m.Type),
		Status:       roster.TransferStatus(m.Status),
		Slot:         roster.Slot(m.Slot),
		Salary:       m.Salary,
		Construction: m.Construction,
		ProcessedAt:  m.ProcessedAt,
	}
}

var transferSelectColumns = []string{
	"id",
	"team_id",
	"player_id",
	"transfer_type",
	"status",
	"slot",
	"salary",
	"construction",
	"processed_at",
}

func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Create(ctx context.Context, transfer roster.Transfer) error {
	const query = `
INSERT INTO transfers (
    id, team_id, player_id, transfer_type, status, slot, salary, construction, processed_at
) VALUES (
    :id, :team_id, :player_id, :transfer_type, :status, :slot, :salary, :construction, :processed_at
)`

	boundSQL, boundArgs, err := sqlx.Named(query, map[string]any{
		"id":            transfer.ID,
		"team_id":       transfer.TeamID,
		"player_id":     transfer.PlayerID,
		"transfer_type": string(transfer.Type),
		"status":        string(transfer.Status),
		"slot":          string(transfer.Slot),
		"salary":        transfer.Salary,
		"construction":  transfer.Construction,
		"processed_at":  transfer.ProcessedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert transfer query: %w", err)
	}
	boundSQL = r.db.Rebind(boundSQL)

	if _, err := r.db.ExecContext(ctx, boundSQL, boundArgs...); err != nil {
		return fmt.Errorf("insert transfer id=%s: %w", transfer.ID, err)
	}

	return nil
}

func (r *TransferRepository) CountCompletedSince(ctx context.Context, teamID string, since time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("transfers").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("status", string(roster.TransferCompleted)),
			qb.Eq("construction", false),
			qb.Expr("processed_at >= ?", since),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count transfers query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count transfers since %s: %w", since.Format(time.RFC3339), err)
	}

	return count, nil
}

func (r *TransferRepository) LastDrop(ctx context.Context, teamID, playerID string) (roster.Transfer, bool, error) {
	query, args, err := qb.Select(transferSelectColumns...).From("transfers").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("player_id", playerID),
			qb.Eq("transfer_type", string(roster.TransferDrop)),
		).
		OrderBy("processed_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return roster.Transfer{}, false, fmt.Errorf("build select last drop query: %w", err)
	}

	var row transferTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Transfer{}, false, nil
		}
		return roster.Transfer{}, false, fmt.Errorf("select last drop: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TransferRepository) ListByTeam(ctx context.Context, teamID string) ([]roster.Transfer, error) {
	query, args, err := qb.Select(transferSelectColumns...).From("transfers").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("processed_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list transfers query: %w", err)
	}

	var rows []transferTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	out := make([]roster.Transfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
