package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/courtcap/fantasy-nba/internal/domain/roster"
)

type TransferRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]roster.Transfer
}

func NewTransferRepository() *TransferRepository {
	return &TransferRepository{
		byTeam: make(map[string][]roster.Transfer),
	}
}

func (r *TransferRepository) Create(_ context.Context, transfer roster.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byTeam[transfer.TeamID] = append(r.byTeam[transfer.TeamID], transfer)

	return nil
}

func (r *TransferRepository) CountCompletedSince(_ context.Context, teamID string, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, transfer := range r.byTeam[teamID] {
		if transfer.Status != roster.TransferCompleted || transfer.Construction {
			continue
		}
		if !transfer.ProcessedAt.Before(since) {
			count++
		}
	}

	return count, nil
}

func (r *TransferRepository) LastDrop(_ context.Context, teamID, playerID string) (roster.Transfer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest roster.Transfer
	found := false
	for _, transfer := range r.byTeam[teamID] {
		if transfer.Type != roster.TransferDrop || transfer.PlayerID != playerID {
			continue
		}
		if !found || transfer.ProcessedAt.After(latest.ProcessedAt) {
			latest = transfer
			found = true
		}
	}

	return latest, found, nil
}

func (r *TransferRepository) ListByTeam(_ context.Context, teamID string) ([]roster.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transfers := r.byTeam[teamID]
	out := make([]roster.Transfer, 0, len(transfers))
	out = append(out, transfers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProcessedAt.Before(out[j].ProcessedAt) })

	return out, nil
}
