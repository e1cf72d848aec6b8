package memory

import (
	"time"

	"github.com/riskibarqy/football-elo/internal/domain/player"
	"github.com/riskibarqy/football-elo/internal/domain/rating"
)

// SeedPlayers returns a small squad for local development.
func SeedPlayers(createdAt time.Time) []player.Player {
	names := []struct {
		id   string
		name string
	}{
		{id: "demo-keeper", name: "Iker"},
		{id: "demo-back", name: "Carles"},
		{id: "demo-mid", name: "Xavi"},
		{id: "demo-wing", name: "Leo"},
		{id: "demo-nine", name: "Samuel"},
		{id: "demo-sub", name: "Pedro"},
	}

	out := make([]player.Player, 0, len(names))
	for _, n := range names {
		out = append(out, player.Player{
			ID:        n.id,
			Name:      n.name,
			Rating:    rating.DefaultRating,
			CreatedAt: createdAt,
		})
	}
	return out
}
