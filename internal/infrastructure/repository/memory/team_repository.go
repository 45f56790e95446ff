package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/courtcap/fantasy-nba/internal/domain/roster"
)

type TeamRepository struct {
	mu   sync.RWMutex
	byID map[string]roster.FantasyTeam
}

func NewTeamRepository(teams []roster.FantasyTeam) *TeamRepository {
	byID := make(map[string]roster.FantasyTeam, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	return &TeamRepository{byID: byID}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (roster.FantasyTeam, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[teamID]
	return t, ok, nil
}

func (r *TeamRepository) GetByOwnerAndLeague(_ context.Context, ownerID, leagueID string) (roster.FantasyTeam, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.byID {
		if t.OwnerID == ownerID && t.LeagueID == leagueID {
			return t, true, nil
		}
	}

	return roster.FantasyTeam{}, false, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]roster.FantasyTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.FantasyTeam, 0, len(r.byID))
	for _, t := range r.byID {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, team roster.FantasyTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[team.ID]; exists {
		return fmt.Errorf("team %s already exists", team.ID)
	}
	r.byID[team.ID] = team

	return nil
}

func (r *TeamRepository) Update(_ context.Context, team roster.FantasyTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[team.ID]; !exists {
		return fmt.Errorf("team %s does not exist", team.ID)
	}
	r.byID[team.ID] = team

	return nil
}
