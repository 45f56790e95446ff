package teamscore

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert writes by the (team, date) unique key.
	Upsert(ctx context.Context, score DailyTeamScore) error
	ListByTeamBetween(ctx context.Context, teamID string, from, to time.Time) ([]DailyTeamScore, error)
}
