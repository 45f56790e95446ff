package roster

import (
	"context"
	"time"
)

// TeamRepository persists fantasy teams.
type TeamRepository interface {
	GetByID(ctx context.Context, teamID string) (FantasyTeam, bool, error)
	GetByOwnerAndLeague(ctx context.Context, ownerID, leagueID string) (FantasyTeam, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]FantasyTeam, error)
	Create(ctx context.Context, team FantasyTeam) error
	Update(ctx context.Context, team FantasyTeam) error
}

// EntryRepository persists roster entries. Implementations enforce the
// (team, slot) uniqueness key.
type EntryRepository interface {
	ListByTeam(ctx context.Context, teamID string) ([]Entry, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Entry, error)
	Create(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, teamID, playerID string) error
}

// TransferRepository appends to and reads the immutable transfer ledger.
type TransferRepository interface {
	Create(ctx context.Context, transfer Transfer) error
	// CountCompletedSince counts weekly-limited transfers for one team
	// processed at or after the given instant. Construction-phase rows are
	// excluded.
	CountCompletedSince(ctx context.Context, teamID string, since time.Time) (int, error)
	// LastDrop returns the most recent DROP of the player by the team.
	LastDrop(ctx context.Context, teamID, playerID string) (Transfer, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Transfer, error)
}
