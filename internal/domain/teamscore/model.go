package teamscore

import "time"

// DailyTeamScore is the sum of a team's rostered players' fantasy scores for
// one date. One row per (team, date); recomputation overwrites.
type DailyTeamScore struct {
	TeamID       string
	ScoreDate    time.Time
	Total        float64
	PlayerCount  int
	CalculatedAt time.Time
}
