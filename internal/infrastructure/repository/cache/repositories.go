package cache

import (
	"context"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
	basecache "github.com/riskibarqy/football-elo/internal/platform/cache"
)

const (
	playerKeyPrefix = "player:"
	matchKeyPrefix  = "match:"
)

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerKeyPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return clonePlayers(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return clonePlayers(items), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, playerKeyPrefix+"id:"+playerID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value.Clone(), cached.exists, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	err := r.next.Create(ctx, p)
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return err
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, matchKeyPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneMatches(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return cloneMatches(items), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, matchKeyPrefix+"id:"+matchID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value.Clone(), cached.exists, nil
}

// Record also drops cached players, whose ratings and history just changed.
func (r *MatchRepository) Record(ctx context.Context, m match.Match, updated []player.Player) error {
	err := r.next.Record(ctx, m, updated)
	r.cache.DeletePrefix(ctx, matchKeyPrefix)
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return err
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func clonePlayers(items []player.Player) []player.Player {
	out := make([]player.Player, len(items))
	for i, p := range items {
		out[i] = p.Clone()
	}
	return out
}

func cloneMatches(items []match.Match) []match.Match {
	out := make([]match.Match, len(items))
	for i, m := range items {
		out[i] = m.Clone()
	}
	return out
}
