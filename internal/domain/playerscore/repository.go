package playerscore

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert writes by the (player, date) unique key.
	Upsert(ctx context.Context, score DailyPlayerScore) error
	Get(ctx context.Context, playerID string, gameDate time.Time) (DailyPlayerScore, bool, error)
	// ListRecentByPlayer returns up to limit scores for the player with
	// gameDate >= since, most recent first.
	ListRecentByPlayer(ctx context.Context, playerID string, since time.Time, limit int) ([]DailyPlayerScore, error)
	CountByPlayerSince(ctx context.Context, playerID string, since time.Time) (int, error)
	ListByDate(ctx context.Context, gameDate time.Time) ([]DailyPlayerScore, error)
}
