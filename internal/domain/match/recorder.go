package match

import (
	"strings"
	"time"

	"github.com/riskibarqy/football-elo/internal/domain/player"
	"github.com/riskibarqy/football-elo/internal/domain/rating"
)

// RecordInput carries one match result. ID and PlayedAt are chosen by the caller.
type RecordInput struct {
	ID             string
	PlayedAt       time.Time
	Label          string
	Team1PlayerIDs []string
	Team2PlayerIDs []string
	Team1Score     int
	Team2Score     int
}

// RecordResult is the outcome of Record.
type RecordResult struct {
	// Players is the full collection in input order with participants replaced.
	Players []player.Player
	// Participants holds only the updated players, team 1 first.
	Participants []player.Player
	Match        Match
}

type side struct {
	members  []int
	average  float64
	expected float64
	actual   rating.Outcome
	delta    float64
}

// Record applies a match result to players. It never mutates its inputs.
func Record(players []player.Player, in RecordInput) (RecordResult, error) {
	if err := validateInput(in); err != nil {
		return RecordResult{}, err
	}

	indexByID := make(map[string]int, len(players))
	for i, p := range players {
		indexByID[p.ID] = i
	}

	team1, err := resolveSide("team1", in.Team1PlayerIDs, players, indexByID)
	if err != nil {
		return RecordResult{}, err
	}
	team2, err := resolveSide("team2", in.Team2PlayerIDs, players, indexByID)
	if err != nil {
		return RecordResult{}, err
	}

	team1.expected = rating.ExpectedScore(team1.average, team2.average)
	team2.expected = rating.ExpectedScore(team2.average, team1.average)
	team1.actual = rating.OutcomeFromScores(in.Team1Score, in.Team2Score)
	team2.actual = team1.actual.Opposite()

	label := in.Label
	if label == "" {
		label = DefaultLabel
	}

	out := make([]player.Player, len(players))
	copy(out, players)
	participants := make([]player.Player, 0, len(team1.members)+len(team2.members))
	for _, s := range []*side{team1, team2} {
		var sum int
		for _, idx := range s.members {
			updated := applyResult(players[idx], s, in.ID, label, in.PlayedAt)
			sum += updated.Rating - players[idx].Rating
			out[idx] = updated
			participants = append(participants, updated)
		}
		s.delta = float64(sum) / float64(len(s.members))
	}

	return RecordResult{
		Players:      out,
		Participants: participants,
		Match: Match{
			ID:               in.ID,
			PlayedAt:         in.PlayedAt,
			Label:            label,
			Team1PlayerIDs:   append([]string(nil), in.Team1PlayerIDs...),
			Team2PlayerIDs:   append([]string(nil), in.Team2PlayerIDs...),
			Team1Score:       in.Team1Score,
			Team2Score:       in.Team2Score,
			Team1RatingDelta: team1.delta,
			Team2RatingDelta: team2.delta,
		},
	}, nil
}

func applyResult(p player.Player, s *side, matchID, label string, at time.Time) player.Player {
	next := p.Clone()
	next.Rating = rating.UpdatedRating(p.Rating, s.expected, float64(s.actual))
	next.History = append(next.History, player.HistoryEntry{
		At:           at,
		MatchID:      matchID,
		MatchLabel:   label,
		RatingBefore: p.Rating,
		RatingAfter:  next.Rating,
	})
	next.MatchesPlayed++
	switch s.actual {
	case rating.Win:
		next.Wins++
	case rating.Loss:
		next.Losses++
	default:
		next.Draws++
	}
	return next
}

func validateInput(in RecordInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return invalid("id", "is required")
	}
	if len(in.Team1PlayerIDs) == 0 {
		return invalid("team1", "must have at least one player")
	}
	if len(in.Team2PlayerIDs) == 0 {
		return invalid("team2", "must have at least one player")
	}
	if in.Team1Score < 0 {
		return invalid("team1Score", "must be >= 0, got %d", in.Team1Score)
	}
	if in.Team2Score < 0 {
		return invalid("team2Score", "must be >= 0, got %d", in.Team2Score)
	}

	seen := make(map[string]string, len(in.Team1PlayerIDs)+len(in.Team2PlayerIDs))
	for _, roster := range []struct {
		name string
		ids  []string
	}{
		{name: "team1", ids: in.Team1PlayerIDs},
		{name: "team2", ids: in.Team2PlayerIDs},
	} {
		for _, id := range roster.ids {
			if strings.TrimSpace(id) == "" {
				return invalid(roster.name, "contains an empty player id")
			}
			prev, ok := seen[id]
			if !ok {
				seen[id] = roster.name
				continue
			}
			if prev == roster.name {
				return invalid(roster.name, "lists player %s more than once", id)
			}
			return invalid("", "player %s cannot play for both teams", id)
		}
	}

	return nil
}

func resolveSide(name string, ids []string, players []player.Player, indexByID map[string]int) (*side, error) {
	s := &side{members: make([]int, 0, len(ids))}
	var total int
	for _, id := range ids {
		idx, ok := indexByID[id]
		if !ok {
			return nil, invalid(name, "references unknown player %s", id)
		}
		s.members = append(s.members, idx)
		total += players[idx].Rating
	}
	s.average = float64(total) / float64(len(s.members))
	return s, nil
}
