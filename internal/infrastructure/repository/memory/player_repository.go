package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-elo/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0, len(r.store.playerOrder))
	for _, id := range r.store.playerOrder {
		out = append(out, r.store.players[id].Clone())
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.players[playerID]
	if !ok {
		return player.Player{}, false, nil
	}

	return p.Clone(), true, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.players[p.ID]; exists {
		return fmt.Errorf("%w: player=%s", player.ErrAlreadyExists, p.ID)
	}
	r.store.players[p.ID] = p.Clone()
	r.store.playerOrder = append(r.store.playerOrder, p.ID)

	return nil
}
