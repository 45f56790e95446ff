package playerscore

import (
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/gamestats"
	"github.com/courtcap/fantasy-nba/internal/domain/scoring"
)

// DailyPlayerScore is one player's scored box-score line for one calendar
// date. At most one row exists per (player, date); re-running the pipeline
// for a date overwrites the row.
type DailyPlayerScore struct {
	PlayerID     string
	GameDate     time.Time
	Stats        gamestats.CanonicalGameStats
	FantasyScore float64
	Breakdown    scoring.Breakdown
	CreatedAt    time.Time
}
