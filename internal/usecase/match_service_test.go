package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
	"github.com/riskibarqy/football-elo/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/football-elo/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/football-elo/internal/mocks/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMemoryMatchService(t *testing.T, players ...player.Player) (*MatchService, *memory.PlayerRepository) {
	t.Helper()

	store := memory.NewStore(players)
	playerRepo := memory.NewPlayerRepository(store)
	service := NewMatchService(playerRepo, memory.NewMatchRepository(store), &sequenceIDs{prefix: "m"}, nil)
	return service, playerRepo
}

func squad(ids ...string) []player.Player {
	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, player.Player{ID: id, Name: "Player " + id, Rating: 1200})
	}
	return out
}

func TestMatchService_RecordMatch_PersistsPlayersAndMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, players := newMemoryMatchService(t, squad("a", "b", "c", "d", "e")...)
	playedAt := time.Date(2026, 5, 9, 19, 30, 0, 0, time.UTC)
	service.now = fixedClock(playedAt)

	result, err := service.RecordMatch(ctx, RecordMatchInput{
		Team1PlayerIDs: []string{"a", " b"},
		Team2PlayerIDs: []string{"c", "d"},
		Team1Score:     3,
		Team2Score:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", result.Match.ID)
	assert.Equal(t, match.DefaultLabel, result.Match.Label)
	assert.Equal(t, playedAt, result.Match.PlayedAt)
	assert.InDelta(t, 16.0, result.Match.Team1RatingDelta, 1e-9)
	assert.InDelta(t, -16.0, result.Match.Team2RatingDelta, 1e-9)
	assert.Len(t, result.Participants, 4)

	a, _, err := players.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1216, a.Rating)
	assert.Equal(t, 1, a.Wins)
	require.Len(t, a.History, 1)
	assert.Equal(t, "m1", a.History[0].MatchID)

	e, _, _ := players.GetByID(ctx, "e")
	assert.Equal(t, 1200, e.Rating)
	assert.Empty(t, e.History)

	stored, err := service.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, stored.Team1PlayerIDs)
}

func TestMatchService_RecordMatch_ValidationLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, players := newMemoryMatchService(t, squad("a", "b")...)

	_, err := service.RecordMatch(ctx, RecordMatchInput{
		Team1PlayerIDs: []string{"a"},
		Team2PlayerIDs: []string{"ghost"},
		Team1Score:     1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, match.ErrValidation)

	var vErr *match.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "team2", vErr.Field)

	a, _, _ := players.GetByID(ctx, "a")
	assert.Equal(t, 1200, a.Rating)
	items, err := service.ListMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMatchService_RecordMatch_SerialisesConcurrentWriters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, players := newMemoryMatchService(t, squad("a", "b")...)

	const games = 20
	var wg sync.WaitGroup
	wg.Add(games)
	for i := 0; i < games; i++ {
		go func() {
			defer wg.Done()
			_, err := service.RecordMatch(ctx, RecordMatchInput{
				Team1PlayerIDs: []string{"a"},
				Team2PlayerIDs: []string{"b"},
				Team1Score:     1,
				Team2Score:     1,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, id := range []string{"a", "b"} {
		p, _, err := players.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, games, p.MatchesPlayed)
		assert.Len(t, p.History, games)
		require.NoError(t, p.Validate())
		for i := 1; i < len(p.History); i++ {
			assert.Equal(t, p.History[i-1].RatingAfter, p.History[i].RatingBefore, "history chain broken for %s", id)
		}
	}
}

func TestMatchService_RecordMatch_RepositoryErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roster := squad("a", "b")

	t.Run("list failure", func(t *testing.T) {
		t.Parallel()
		playerRepo := playermock.NewRepository(t)
		matchRepo := matchmock.NewRepository(t)
		playerRepo.On("List", ctx).Return(nil, errors.New("db down")).Once()

		service := NewMatchService(playerRepo, matchRepo, &sequenceIDs{}, nil)
		_, err := service.RecordMatch(ctx, RecordMatchInput{Team1PlayerIDs: []string{"a"}, Team2PlayerIDs: []string{"b"}})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duplicate match id", func(t *testing.T) {
		t.Parallel()
		playerRepo := playermock.NewRepository(t)
		matchRepo := matchmock.NewRepository(t)
		playerRepo.On("List", ctx).Return(roster, nil).Once()
		matchRepo.
			On("Record", ctx, mock.AnythingOfType("match.Match"), mock.MatchedBy(func(updated []player.Player) bool { return len(updated) == 2 })).
			Return(match.ErrAlreadyRecorded).
			Once()

		service := NewMatchService(playerRepo, matchRepo, &sequenceIDs{}, nil)
		_, err := service.RecordMatch(ctx, RecordMatchInput{Team1PlayerIDs: []string{"a"}, Team2PlayerIDs: []string{"b"}})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("participant changed by another writer", func(t *testing.T) {
		t.Parallel()
		playerRepo := playermock.NewRepository(t)
		matchRepo := matchmock.NewRepository(t)
		playerRepo.On("List", ctx).Return(roster, nil).Once()
		matchRepo.
			On("Record", ctx, mock.AnythingOfType("match.Match"), mock.Anything).
			Return(fmt.Errorf("%w: player=b", player.ErrStale)).
			Once()

		service := NewMatchService(playerRepo, matchRepo, &sequenceIDs{}, nil)
		_, err := service.RecordMatch(ctx, RecordMatchInput{Team1PlayerIDs: []string{"a"}, Team2PlayerIDs: []string{"b"}})
		assert.ErrorIs(t, err, ErrConflict)
		assert.ErrorIs(t, err, player.ErrStale)
	})
}

func TestMatchService_RecordMatch_SecondServiceOnStaleReadConflicts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore(squad("a", "b"))
	playerRepo := memory.NewPlayerRepository(store)
	matchRepo := memory.NewMatchRepository(store)
	first := NewMatchService(playerRepo, matchRepo, &sequenceIDs{prefix: "x"}, nil)

	// The second service reads the roster before the first one writes, the
	// way a second api replica would.
	before, err := playerRepo.List(ctx)
	require.NoError(t, err)
	staleReads := playermock.NewRepository(t)
	staleReads.On("List", ctx).Return(before, nil).Once()
	second := NewMatchService(staleReads, matchRepo, &sequenceIDs{prefix: "y"}, nil)

	in := RecordMatchInput{Team1PlayerIDs: []string{"a"}, Team2PlayerIDs: []string{"b"}, Team1Score: 1}
	_, err = first.RecordMatch(ctx, in)
	require.NoError(t, err)

	_, err = second.RecordMatch(ctx, in)
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, player.ErrStale)

	a, _, err := playerRepo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, a.MatchesPlayed)
	assert.Equal(t, 1216, a.Rating)
	items, err := matchRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMatchService_ListMatches_NewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	base := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	matchRepo.On("List", ctx).Return([]match.Match{
		{ID: "m1", PlayedAt: base},
		{ID: "m2", PlayedAt: base.Add(time.Hour)},
		{ID: "m3", PlayedAt: base.Add(time.Hour)},
	}, nil).Once()

	service := NewMatchService(playermock.NewRepository(t), matchRepo, &sequenceIDs{}, nil)
	got, err := service.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"m3", "m2", "m1"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestMatchService_GetMatch_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	matchRepo.On("GetByID", ctx, "nope").Return(match.Match{}, false, nil).Once()

	service := NewMatchService(playermock.NewRepository(t), matchRepo, &sequenceIDs{}, nil)
	_, err := service.GetMatch(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
