package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/courtcap/fantasy-nba/internal/domain/roster"
)

// RosterEntryRepository resolves league-wide listings through the team
// repository, mirroring the join the SQL implementation performs.
type RosterEntryRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]roster.Entry
	teams  *TeamRepository
}

func NewRosterEntryRepository(teams *TeamRepository) *RosterEntryRepository {
	return &RosterEntryRepository{
		byTeam: make(map[string][]roster.Entry),
		teams:  teams,
	}
}

func (r *RosterEntryRepository) ListByTeam(_ context.Context, teamID string) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byTeam[teamID]
	out := make([]roster.Entry, 0, len(entries))
	out = append(out, entries...)

	return out, nil
}

func (r *RosterEntryRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Entry, error) {
	teams, err := r.teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, 0, 32)
	for _, team := range teams {
		out = append(out, r.byTeam[team.ID]...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].Slot < out[j].Slot
	})

	return out, nil
}

func (r *RosterEntryRepository) Create(_ context.Context, entry roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byTeam[entry.TeamID] {
		if existing.Slot == entry.Slot {
			return fmt.Errorf("slot %s already filled for team %s", entry.Slot, entry.TeamID)
		}
		if existing.PlayerID == entry.PlayerID {
			return fmt.Errorf("player %s already rostered on team %s", entry.PlayerID, entry.TeamID)
		}
	}
	r.byTeam[entry.TeamID] = append(r.byTeam[entry.TeamID], entry)

	return nil
}

func (r *RosterEntryRepository) Delete(_ context.Context, teamID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.byTeam[teamID]
	for idx, entry := range entries {
		if entry.PlayerID == playerID {
			r.byTeam[teamID] = append(entries[:idx:idx], entries[idx+1:]...)
			return nil
		}
	}

	return fmt.Errorf("player %s is not rostered on team %s", playerID, teamID)
}
