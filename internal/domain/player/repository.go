package player

import "context"

// ListFilter narrows player listings for availability views.
type ListFilter struct {
	Position     *Position
	TeamCode     string
	MaxSalary    *int64
	NameContains string
	ActiveOnly   bool
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Player, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Player, error)
	Upsert(ctx context.Context, item Player) error
	// UpdateSalary persists a recomputed salary together with the rolling
	// aggregates the salary engine derived it from.
	UpdateSalary(ctx context.Context, playerID string, salary int64, avgScore float64, gamesPlayed int) error
}
