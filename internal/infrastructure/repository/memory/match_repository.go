package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matchOrder))
	for _, id := range r.store.matchOrder {
		out = append(out, r.store.matches[id].Clone())
	}

	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return m.Clone(), true, nil
}

func (r *MatchRepository) Record(_ context.Context, m match.Match, updated []player.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.matches[m.ID]; exists {
		return fmt.Errorf("%w: match=%s", match.ErrAlreadyRecorded, m.ID)
	}
	for _, p := range updated {
		current, exists := r.store.players[p.ID]
		if !exists {
			return fmt.Errorf("%w: player=%s", player.ErrUnknown, p.ID)
		}
		if current.MatchesPlayed != p.MatchesPlayed-1 {
			return fmt.Errorf("%w: player=%s", player.ErrStale, p.ID)
		}
	}

	for _, p := range updated {
		r.store.players[p.ID] = p.Clone()
	}
	r.store.matches[m.ID] = m.Clone()
	r.store.matchOrder = append(r.store.matchOrder, m.ID)

	return nil
}
