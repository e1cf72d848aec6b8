package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
)

type Overview struct {
	PlayerCount   int
	MatchCount    int
	TopPlayer     *player.Player
	AverageRating float64
	TotalGoals    int
}

type StatsService struct {
	playerRepo player.Repository
	matchRepo  match.Repository
}

func NewStatsService(playerRepo player.Repository, matchRepo match.Repository) *StatsService {
	return &StatsService{playerRepo: playerRepo, matchRepo: matchRepo}
}

// Overview summarises the league. Players and matches load concurrently.
func (s *StatsService) Overview(ctx context.Context) (Overview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Overview")
	defer span.End()

	var (
		players []player.Player
		matches []match.Match
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.playerRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		players = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.matchRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		matches = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return Overview{}, err
	}

	out := Overview{
		PlayerCount: len(players),
		MatchCount:  len(matches),
	}
	if len(players) > 0 {
		var sum int
		top := players[0]
		for _, item := range players {
			sum += item.Rating
			if item.Rating > top.Rating || (item.Rating == top.Rating && item.Name < top.Name) {
				top = item
			}
		}
		out.TopPlayer = &top
		out.AverageRating = float64(sum) / float64(len(players))
	}
	for _, m := range matches {
		out.TotalGoals += m.TotalGoals()
	}

	return out, nil
}
