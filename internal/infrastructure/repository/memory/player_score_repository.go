package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/playerscore"
)

type PlayerScoreRepository struct {
	mu       sync.RWMutex
	byPlayer map[string][]playerscore.DailyPlayerScore
}

func NewPlayerScoreRepository() *PlayerScoreRepository {
	return &PlayerScoreRepository{
		byPlayer: make(map[string][]playerscore.DailyPlayerScore),
	}
}

func (r *PlayerScoreRepository) Upsert(_ context.Context, score playerscore.DailyPlayerScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := r.byPlayer[score.PlayerID]
	for idx, existing := range scores {
		if existing.GameDate.Equal(score.GameDate) {
			scores[idx] = score
			return nil
		}
	}
	r.byPlayer[score.PlayerID] = append(scores, score)

	return nil
}

func (r *PlayerScoreRepository) Get(_ context.Context, playerID string, gameDate time.Time) (playerscore.DailyPlayerScore, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, score := range r.byPlayer[playerID] {
		if score.GameDate.Equal(gameDate) {
			return score, true, nil
		}
	}

	return playerscore.DailyPlayerScore{}, false, nil
}

func (r *PlayerScoreRepository) ListRecentByPlayer(_ context.Context, playerID string, since time.Time, limit int) ([]playerscore.DailyPlayerScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerscore.DailyPlayerScore, 0, limit)
	for _, score := range r.byPlayer[playerID] {
		if score.GameDate.Before(since) {
			continue
		}
		out = append(out, score)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GameDate.After(out[j].GameDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *PlayerScoreRepository) CountByPlayerSince(_ context.Context, playerID string, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, score := range r.byPlayer[playerID] {
		if !score.GameDate.Before(since) {
			count++
		}
	}

	return count, nil
}

func (r *PlayerScoreRepository) ListByDate(_ context.Context, gameDate time.Time) ([]playerscore.DailyPlayerScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerscore.DailyPlayerScore, 0, 64)
	for _, scores := range r.byPlayer {
		for _, score := range scores {
			if score.GameDate.Equal(gameDate) {
				out = append(out, score)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}
