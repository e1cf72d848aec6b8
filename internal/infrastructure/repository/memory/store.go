package memory

import (
	"sync"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
)

// Store holds players and matches behind one lock so a match and its rating
// updates become visible together.
type Store struct {
	mu          sync.RWMutex
	players     map[string]player.Player
	playerOrder []string
	matches     map[string]match.Match
	matchOrder  []string
}

func NewStore(players []player.Player) *Store {
	s := &Store{
		players:     make(map[string]player.Player, len(players)),
		playerOrder: make([]string, 0, len(players)),
		matches:     make(map[string]match.Match),
	}
	for _, p := range players {
		if _, exists := s.players[p.ID]; exists {
			continue
		}
		s.players[p.ID] = p.Clone()
		s.playerOrder = append(s.playerOrder, p.ID)
	}
	return s
}
