package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
	"github.com/riskibarqy/football-elo/internal/platform/id"
	"github.com/riskibarqy/football-elo/internal/platform/logging"
)

type RecordMatchInput struct {
	Label          string
	Team1PlayerIDs []string
	Team2PlayerIDs []string
	Team1Score     int
	Team2Score     int
}

type MatchService struct {
	// writeMu serialises the load-compute-persist cycle of RecordMatch.
	writeMu sync.Mutex

	playerRepo player.Repository
	matchRepo  match.Repository
	ids        id.Generator
	now        func() time.Time
	logger     *logging.Logger
}

func NewMatchService(
	playerRepo player.Repository,
	matchRepo match.Repository,
	ids id.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		ids:        ids,
		now:        time.Now,
		logger:     logger,
	}
}

// RecordMatch applies a result to every participant and stores the match.
// Either everything is persisted or nothing is.
func (s *MatchService) RecordMatch(ctx context.Context, input RecordMatchInput) (match.RecordResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecordMatch")
	defer span.End()

	matchID, err := s.ids.NewID()
	if err != nil {
		return match.RecordResult{}, fmt.Errorf("generate match id: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return match.RecordResult{}, fmt.Errorf("list players: %w", err)
	}

	result, err := match.Record(players, match.RecordInput{
		ID:             matchID,
		PlayedAt:       s.now().UTC(),
		Label:          input.Label,
		Team1PlayerIDs: trimIDs(input.Team1PlayerIDs),
		Team2PlayerIDs: trimIDs(input.Team2PlayerIDs),
		Team1Score:     input.Team1Score,
		Team2Score:     input.Team2Score,
	})
	if err != nil {
		if errors.Is(err, match.ErrValidation) {
			return match.RecordResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return match.RecordResult{}, fmt.Errorf("record match: %w", err)
	}

	if err := s.matchRepo.Record(ctx, result.Match, result.Participants); err != nil {
		if errors.Is(err, match.ErrAlreadyRecorded) || errors.Is(err, player.ErrUnknown) || errors.Is(err, player.ErrStale) {
			return match.RecordResult{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		s.logger.ErrorContext(ctx, "persist match failed", "match_id", matchID, "error", err)
		return match.RecordResult{}, fmt.Errorf("persist match: %w", err)
	}

	s.logger.InfoContext(ctx, "match recorded",
		"match_id", result.Match.ID,
		"team1_score", result.Match.Team1Score,
		"team2_score", result.Match.Team2Score,
		"team1_delta", result.Match.Team1RatingDelta,
		"team2_delta", result.Match.Team2RatingDelta,
	)
	return result, nil
}

// ListMatches returns matches newest first.
func (s *MatchService) ListMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	slices.Reverse(items)
	slices.SortStableFunc(items, func(a, b match.Match) int {
		return b.PlayedAt.Compare(a.PlayedAt)
	})
	return items, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return m, nil
}

func trimIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
