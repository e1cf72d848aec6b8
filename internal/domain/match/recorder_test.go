package match

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/football-elo/internal/domain/player"
	"github.com/riskibarqy/football-elo/internal/domain/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var playedAt = time.Date(2026, 5, 9, 19, 30, 0, 0, time.UTC)

func newPlayer(id string, r int) player.Player {
	p := player.Player{ID: id, Name: "Player " + id, Rating: rating.DefaultRating}
	if r != rating.DefaultRating {
		// Seed a synthetic history so the rating invariant holds.
		p.History = []player.HistoryEntry{{MatchID: "seed", RatingBefore: rating.DefaultRating, RatingAfter: r}}
		p.Rating = r
		p.MatchesPlayed = 1
		if r > rating.DefaultRating {
			p.Wins = 1
		} else {
			p.Losses = 1
		}
	}
	return p
}

func TestRecord_EvenWin(t *testing.T) {
	players := []player.Player{newPlayer("p1", 1200), newPlayer("p2", 1200)}

	got, err := Record(players, RecordInput{
		ID:             "m-1",
		PlayedAt:       playedAt,
		Team1PlayerIDs: []string{"p1"},
		Team2PlayerIDs: []string{"p2"},
		Team1Score:     2,
		Team2Score:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1216, got.Players[0].Rating)
	assert.Equal(t, 1184, got.Players[1].Rating)
	assert.Equal(t, 1, got.Players[0].Wins)
	assert.Equal(t, 1, got.Players[1].Losses)
	assert.Equal(t, DefaultLabel, got.Match.Label)
	assert.Equal(t, 16.0, got.Match.Team1RatingDelta)
	assert.Equal(t, -16.0, got.Match.Team2RatingDelta)

	winnerGain := got.Players[0].Rating - players[0].Rating
	loserGain := got.Players[1].Rating - players[1].Rating
	assert.Equal(t, winnerGain, -loserGain)
}

func TestRecord_Draw(t *testing.T) {
	players := []player.Player{newPlayer("p1", 1200), newPlayer("p2", 1200)}

	got, err := Record(players, RecordInput{
		ID:             "m-1",
		PlayedAt:       playedAt,
		Label:          "Friday five-a-side",
		Team1PlayerIDs: []string{"p1"},
		Team2PlayerIDs: []string{"p2"},
		Team1Score:     1,
		Team2Score:     1,
	})
	require.NoError(t, err)

	for _, p := range got.Players {
		assert.Equal(t, 1200, p.Rating)
		assert.Equal(t, 1, p.Draws)
		require.Len(t, p.History, 1)
		assert.Equal(t, "Friday five-a-side", p.History[0].MatchLabel)
	}
	assert.Equal(t, "Friday five-a-side", got.Match.Label)
	assert.Zero(t, got.Match.Team1RatingDelta)
}

func TestRecord_UnderdogWin(t *testing.T) {
	players := []player.Player{newPlayer("fav", 1400), newPlayer("dog", 1000)}

	got, err := Record(players, RecordInput{
		ID:             "m-1",
		PlayedAt:       playedAt,
		Team1PlayerIDs: []string{"dog"},
		Team2PlayerIDs: []string{"fav"},
		Team1Score:     1,
		Team2Score:     0,
	})
	require.NoError(t, err)

	assert.Equal(t, 1371, got.Players[0].Rating)
	assert.Equal(t, 1029, got.Players[1].Rating)
	assert.Equal(t, []string{"dog"}, got.Match.Team1PlayerIDs)
}

func TestRecord_TeamAverageAppliedToIndividualRatings(t *testing.T) {
	// Both sides average 1200, so every member moves by exactly 16 from their own rating.
	players := []player.Player{
		newPlayer("a", 1300),
		newPlayer("b", 1100),
		newPlayer("c", 1200),
		newPlayer("d", 1200),
		newPlayer("bench", 1250),
	}

	got, err := Record(players, RecordInput{
		ID:             "m-1",
		PlayedAt:       playedAt,
		Team1PlayerIDs: []string{"a", "b"},
		Team2PlayerIDs: []string{"c", "d"},
		Team1Score:     3,
		Team2Score:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, 1316, got.Players[0].Rating)
	assert.Equal(t, 1116, got.Players[1].Rating)
	assert.Equal(t, 1184, got.Players[2].Rating)
	assert.Equal(t, players[4], got.Players[4], "bench player must pass through unchanged")
	assert.Len(t, got.Participants, 4)
	assert.Equal(t, "a", got.Participants[0].ID)
}

func TestRecord_TeamDeltaIsRoundedPerPlayerChange(t *testing.T) {
	// Team 1 averages 1250 vs 1200, expected ~0.5715. A win moves each member by
	// 32*0.4285=13.71 which rounds to 14; the lone loser drops by 14.
	players := []player.Player{newPlayer("a", 1251), newPlayer("b", 1249), newPlayer("c", 1200)}

	got, err := Record(players, RecordInput{
		ID:             "m-1",
		PlayedAt:       playedAt,
		Team1PlayerIDs: []string{"a", "b"},
		Team2PlayerIDs: []string{"c"},
		Team1Score:     1,
		Team2Score:     0,
	})
	require.NoError(t, err)

	assert.Equal(t, 1265, got.Participants[0].Rating)
	assert.Equal(t, 1263, got.Participants[1].Rating)
	assert.Equal(t, 1186, got.Participants[2].Rating)
	assert.Equal(t, 14.0, got.Match.Team1RatingDelta)
	assert.Equal(t, -14.0, got.Match.Team2RatingDelta)
}

func TestRecord_LabelKeptAsGiven(t *testing.T) {
	players := []player.Player{newPlayer("p1", 1200), newPlayer("p2", 1200)}

	for _, label := range []string{"  Derby ", " "} {
		got, err := Record(players, RecordInput{
			ID:             "m-1",
			PlayedAt:       playedAt,
			Label:          label,
			Team1PlayerIDs: []string{"p1"},
			Team2PlayerIDs: []string{"p2"},
		})
		require.NoError(t, err)
		assert.Equal(t, label, got.Match.Label)
		assert.Equal(t, label, got.Participants[0].History[0].MatchLabel)
	}
}

func TestRecord_DoesNotMutateInput(t *testing.T) {
	players := []player.Player{newPlayer("p1", 1300), newPlayer("p2", 1200)}
	before := []player.Player{players[0].Clone(), players[1].Clone()}

	_, err := Record(players, RecordInput{
		ID:             "m-1",
		PlayedAt:       playedAt,
		Team1PlayerIDs: []string{"p1"},
		Team2PlayerIDs: []string{"p2"},
		Team1Score:     0,
		Team2Score:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, before, players)
}

func TestRecord_InvariantsHoldAcrossSequence(t *testing.T) {
	players := []player.Player{
		newPlayer("p1", 1200), newPlayer("p2", 1200), newPlayer("p3", 1200), newPlayer("p4", 1200),
	}
	fixtures := []RecordInput{
		{Team1PlayerIDs: []string{"p1", "p2"}, Team2PlayerIDs: []string{"p3", "p4"}, Team1Score: 3, Team2Score: 1},
		{Team1PlayerIDs: []string{"p1", "p3"}, Team2PlayerIDs: []string{"p2"}, Team1Score: 0, Team2Score: 0},
		{Team1PlayerIDs: []string{"p4"}, Team2PlayerIDs: []string{"p1"}, Team1Score: 5, Team2Score: 2},
		{Team1PlayerIDs: []string{"p2", "p3", "p4"}, Team2PlayerIDs: []string{"p1"}, Team1Score: 1, Team2Score: 2},
	}

	for i, in := range fixtures {
		in.ID = "m-" + string(rune('a'+i))
		in.PlayedAt = playedAt.Add(time.Duration(i) * time.Hour)
		res, err := Record(players, in)
		require.NoError(t, err)
		players = res.Players
	}

	for _, p := range players {
		assert.NoError(t, p.Validate(), "player %s", p.ID)
		assert.Equal(t, p.MatchesPlayed, p.Wins+p.Losses+p.Draws)
	}
	assert.Equal(t, 4, players[0].MatchesPlayed)
}

func TestRecord_Validation(t *testing.T) {
	players := []player.Player{newPlayer("p1", 1200), newPlayer("p2", 1200)}
	valid := RecordInput{
		ID:             "m-1",
		PlayedAt:       playedAt,
		Team1PlayerIDs: []string{"p1"},
		Team2PlayerIDs: []string{"p2"},
	}

	tests := []struct {
		name   string
		mutate func(*RecordInput)
		field  string
	}{
		{name: "empty team1", mutate: func(in *RecordInput) { in.Team1PlayerIDs = nil }, field: "team1"},
		{name: "empty team2", mutate: func(in *RecordInput) { in.Team2PlayerIDs = []string{} }, field: "team2"},
		{name: "negative team1 score", mutate: func(in *RecordInput) { in.Team1Score = -1 }, field: "team1Score"},
		{name: "negative team2 score", mutate: func(in *RecordInput) { in.Team2Score = -3 }, field: "team2Score"},
		{name: "overlapping rosters", mutate: func(in *RecordInput) { in.Team2PlayerIDs = []string{"p2", "p1"} }, field: ""},
		{name: "duplicate in roster", mutate: func(in *RecordInput) { in.Team1PlayerIDs = []string{"p1", "p1"} }, field: "team1"},
		{name: "unknown player", mutate: func(in *RecordInput) { in.Team2PlayerIDs = []string{"ghost"} }, field: "team2"},
		{name: "missing id", mutate: func(in *RecordInput) { in.ID = " " }, field: "id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			in.Team1PlayerIDs = append([]string(nil), valid.Team1PlayerIDs...)
			in.Team2PlayerIDs = append([]string(nil), valid.Team2PlayerIDs...)
			tc.mutate(&in)

			_, err := Record(players, in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation), "expected ErrValidation, got %v", err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.field, vErr.Field)
		})
	}

	assert.Equal(t, 1200, players[0].Rating)
	assert.Empty(t, players[0].History)
}
