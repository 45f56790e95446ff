package league

import "context"

type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	Upsert(ctx context.Context, item League) error
}
