package match

import (
	"context"

	"github.com/riskibarqy/football-elo/internal/domain/player"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	// Record stores m together with the updated players in one atomic step.
	Record(ctx context.Context, m Match, updated []player.Player) error
}
