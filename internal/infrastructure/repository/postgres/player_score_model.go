package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtcap/fantasy-nba/internal/domain/gamestats"
	"github.com/courtcap/fantasy-nba/internal/domain/playerscore"
	"github.com/courtcap/fantasy-nba/internal/domain/scoring"
)

type playerScoreTableModel struct {
	PlayerID            string    `db:"player_id"`
	GameDate            time.Time `db:"game_date"`
	Minutes             int       `db:"minutes"`
	Points              int       `db:"points"`
	TotalRebounds       int       `db:"total_rebounds"`
	Assists             int       `db:"assists"`
	Steals              int       `db:"steals"`
	Blocks              int       `db:"blocks"`
	Turnovers           int       `db:"turnovers"`
	PersonalFouls       int       `db:"personal_fouls"`
	FieldGoalsMade      int       `db:"field_goals_made"`
	FieldGoalsAttempted int       `db:"field_goals_attempted"`
	ThreePointersMade   int       `db:"three_pointers_made"`
	FreeThrowsMade      int       `db:"free_throws_made"`
	FreeThrowsAttempted int       `db:"free_throws_attempted"`
	FantasyScore        float64   `db:"fantasy_score"`
	Breakdown           []byte    `db:"breakdown"`
	CreatedAt           time.Time `db:"created_at"`
}

func (m playerScoreTableModel) toDomain() (playerscore.DailyPlayerScore, error) {
	var breakdown scoring.Breakdown
	if len(m.Breakdown) > 0 {
		if err := sonic.Unmarshal(m.Breakdown, &breakdown); err != nil {
			return playerscore.DailyPlayerScore{}, fmt.Errorf("decode score breakdown player=%s: %w", m.PlayerID, err)
		}
	}

	return playerscore.DailyPlayerScore{
		PlayerID: m.PlayerID,
		GameDate: m.GameDate,
		Stats: gamestats.CanonicalGameStats{
			Minutes:             m.Minutes,
			Points:              m.Points,
			TotalRebounds:       m.TotalRebounds,
			Assists:             m.Assists,
			Steals:              m.Steals,
			Blocks:              m.Blocks,
			Turnovers:           m.Turnovers,
			PersonalFouls:       m.PersonalFouls,
			FieldGoalsMade:      m.FieldGoalsMade,
			FieldGoalsAttempted: m.FieldGoalsAttempted,
			ThreePointersMade:   m.ThreePointersMade,
			FreeThrowsMade:      m.FreeThrowsMade,
			FreeThrowsAttempted: m.FreeThrowsAttempted,
		},
		FantasyScore: m.FantasyScore,
		Breakdown:    breakdown,
		CreatedAt:    m.CreatedAt,
	}, nil
}
