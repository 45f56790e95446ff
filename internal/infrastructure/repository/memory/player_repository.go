package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/courtcap/fantasy-nba/internal/domain/player"
)

type PlayerRepository struct {
	mu           sync.RWMutex
	byID         map[string]player.Player
	byExternalID map[int64]string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byID := make(map[string]player.Player, len(players))
	byExternalID := make(map[int64]string, len(players))
	for _, p := range players {
		byID[p.ID] = p
		byExternalID[p.ExternalID] = p.ID
	}

	return &PlayerRepository{
		byID:         byID,
		byExternalID: byExternalID,
	}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternalID[externalID]
	if !ok {
		return player.Player{}, false, nil
	}
	p, ok := r.byID[id]
	return p, ok, nil
}

func (r *PlayerRepository) List(_ context.Context, filter player.ListFilter) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.byID))
	needle := strings.ToLower(strings.TrimSpace(filter.NameContains))
	for _, p := range r.byID {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.Position != nil && p.Position != *filter.Position {
			continue
		}
		if filter.TeamCode != "" && !strings.EqualFold(p.TeamCode, filter.TeamCode) {
			continue
		}
		if filter.MaxSalary != nil && p.Salary > *filter.MaxSalary {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[item.ID] = item
	r.byExternalID[item.ExternalID] = item.ID

	return nil
}

func (r *PlayerRepository) UpdateSalary(_ context.Context, playerID string, salary int64, avgScore float64, gamesPlayed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[playerID]
	if !ok {
		return nil
	}
	p.Salary = salary
	p.AvgFantasyScore = avgScore
	p.GamesPlayedWindow = gamesPlayed
	r.byID[playerID] = p

	return nil
}
