package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtcap/fantasy-nba/internal/domain/league"
)

type LeagueRepository struct {
	mu   sync.RWMutex
	byID map[string]league.League
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	byID := make(map[string]league.League, len(leagues))
	for _, lg := range leagues {
		byID[lg.ID] = lg
	}

	return &LeagueRepository{byID: byID}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lg, ok := r.byID[leagueID]
	return lg, ok, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.byID))
	for _, lg := range r.byID {
		out = append(out, lg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *LeagueRepository) Upsert(_ context.Context, lg league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[lg.ID] = lg

	return nil
}
