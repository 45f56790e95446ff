package postgres

import (
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/player"
)

type playerTableModel struct {
	ID                string    `db:"id"`
	ExternalID        int64     `db:"external_id"`
	Name              string    `db:"name"`
	Position          string    `db:"position"`
	TeamCode          string    `db:"team_code"`
	IsActive          bool      `db:"is_active"`
	Salary            int64     `db:"salary"`
	AvgFantasyScore   float64   `db:"avg_fantasy_score"`
	GamesPlayedWindow int       `db:"games_played_window"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:                m.ID,
		ExternalID:        m.ExternalID,
		Name:              m.Name,
		Position:          player.Position(m.Position),
		TeamCode:          m.TeamCode,
		IsActive:          m.IsActive,
		Salary:            m.Salary,
		AvgFantasyScore:   m.AvgFantasyScore,
		GamesPlayedWindow: m.GamesPlayedWindow,
	}
}
