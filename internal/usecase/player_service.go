package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/football-elo/internal/domain/player"
	"github.com/riskibarqy/football-elo/internal/platform/id"
	"github.com/riskibarqy/football-elo/internal/platform/logging"
)

const (
	DefaultHistoryLimit    = 5
	DefaultMostActiveLimit = 6
)

type PlayerService struct {
	playerRepo player.Repository
	ids        id.Generator
	now        func() time.Time
	logger     *logging.Logger
}

func NewPlayerService(playerRepo player.Repository, ids id.Generator, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerService{
		playerRepo: playerRepo,
		ids:        ids,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *PlayerService) AddPlayer(ctx context.Context, name string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.AddPlayer")
	defer span.End()

	playerID, err := s.ids.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	p, err := player.New(playerID, name, s.now().UTC())
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Create(ctx, p); err != nil {
		if errors.Is(err, player.ErrAlreadyExists) {
			return player.Player{}, fmt.Errorf("%w: player=%s", ErrConflict, playerID)
		}
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player added", "player_id", p.ID, "name", p.Name)
	return p, nil
}

// ListPlayers returns the rankings: highest rating first, ties by name.
func (s *PlayerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	slices.SortStableFunc(items, func(a, b player.Player) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return items, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return p, nil
}

// ListHistory returns the player's most recent rating changes, newest first.
// A non-positive limit falls back to DefaultHistoryLimit.
func (s *PlayerService) ListHistory(ctx context.Context, playerID string, limit int) ([]player.HistoryEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListHistory")
	defer span.End()

	p, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return p.RecentHistory(limit), nil
}

// ListMostActive orders players by matches played, most first.
func (s *PlayerService) ListMostActive(ctx context.Context, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListMostActive")
	defer span.End()

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	if limit <= 0 {
		limit = DefaultMostActiveLimit
	}

	slices.SortStableFunc(items, func(a, b player.Player) int {
		if c := cmp.Compare(b.MatchesPlayed, a.MatchesPlayed); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
