package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/teamscore"
)

type TeamScoreRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]teamscore.DailyTeamScore
}

func NewTeamScoreRepository() *TeamScoreRepository {
	return &TeamScoreRepository{
		byTeam: make(map[string][]teamscore.DailyTeamScore),
	}
}

func (r *TeamScoreRepository) Upsert(_ context.Context, score teamscore.DailyTeamScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := r.byTeam[score.TeamID]
	for idx, existing := range scores {
		if existing.ScoreDate.Equal(score.ScoreDate) {
			scores[idx] = score
			return nil
		}
	}
	r.byTeam[score.TeamID] = append(scores, score)

	return nil
}

func (r *TeamScoreRepository) ListByTeamBetween(_ context.Context, teamID string, from, to time.Time) ([]teamscore.DailyTeamScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]teamscore.DailyTeamScore, 0, 8)
	for _, score := range r.byTeam[teamID] {
		if score.ScoreDate.Before(from) || score.ScoreDate.After(to) {
			continue
		}
		out = append(out, score)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScoreDate.Before(out[j].ScoreDate) })

	return out, nil
}
