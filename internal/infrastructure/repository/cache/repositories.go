// Package cache wraps the slow-changing repositories in a TTL read-through
// cache. Leagues and the player catalog change on sync/salary jobs, not per
// request, so availability listings and roster checks hit memory instead of
// the database between invalidations.
package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/courtcap/fantasy-nba/internal/domain/league"
	"github.com/courtcap/fantasy-nba/internal/domain/player"
	basecache "github.com/courtcap/fantasy-nba/internal/platform/cache"
)

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := "league:id:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "league:id:"+item.ID)
	r.cache.Delete(ctx, "league:list")
	return nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	key := "player:id:" + playerID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	key := "player:ext:" + strconv.FormatInt(externalID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, error) {
	key := playerListKey(filter)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.invalidatePlayer(ctx, item.ID, item.ExternalID)
	return nil
}

func (r *PlayerRepository) UpdateSalary(ctx context.Context, playerID string, salary int64, avgScore float64, gamesPlayed int) error {
	if err := r.next.UpdateSalary(ctx, playerID, salary, avgScore, gamesPlayed); err != nil {
		return err
	}
	// The external-ID mapping is unknown here; drop the whole player segment.
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) invalidatePlayer(ctx context.Context, playerID string, externalID int64) {
	r.cache.Delete(ctx, "player:id:"+playerID)
	r.cache.Delete(ctx, "player:ext:"+strconv.FormatInt(externalID, 10))
	r.cache.DeletePrefix(ctx, "player:list:")
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

func playerListKey(filter player.ListFilter) string {
	var b strings.Builder
	b.WriteString("player:list:")
	if filter.Position != nil {
		b.WriteString(string(*filter.Position))
	}
	b.WriteByte(':')
	b.WriteString(strings.ToUpper(strings.TrimSpace(filter.TeamCode)))
	b.WriteByte(':')
	if filter.MaxSalary != nil {
		b.WriteString(strconv.FormatInt(*filter.MaxSalary, 10))
	}
	b.WriteByte(':')
	b.WriteString(strings.ToLower(strings.TrimSpace(filter.NameContains)))
	b.WriteByte(':')
	b.WriteString(strconv.FormatBool(filter.ActiveOnly))
	return b.String()
}
