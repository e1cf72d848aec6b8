package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
)

type playerTableModel struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Elo           int       `db:"elo"`
	MatchesPlayed int       `db:"matches_played"`
	Wins          int       `db:"wins"`
	Losses        int       `db:"losses"`
	Draws         int       `db:"draws"`
	CreatedAt     time.Time `db:"created_at"`
}

type historyTableModel struct {
	PlayerID  string    `db:"player_id"`
	MatchID   string    `db:"match_id"`
	MatchName string    `db:"match_name"`
	OldElo    int       `db:"old_elo"`
	NewElo    int       `db:"new_elo"`
	PlayedAt  time.Time `db:"played_at"`
}

type matchTableModel struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	PlayedAt       time.Time      `db:"played_at"`
	Team1PlayerIDs pq.StringArray `db:"team1_player_ids"`
	Team2PlayerIDs pq.StringArray `db:"team2_player_ids"`
	Team1Score     int            `db:"team1_score"`
	Team2Score     int            `db:"team2_score"`
	Team1EloChange float64        `db:"team1_elo_change"`
	Team2EloChange float64        `db:"team2_elo_change"`
}

var playerSelectColumns = []string{
	"id",
	"name",
	"elo",
	"matches_played",
	"wins",
	"losses",
	"draws",
	"created_at",
}

var historySelectColumns = []string{
	"player_id",
	"match_id",
	"match_name",
	"old_elo",
	"new_elo",
	"played_at",
}

var matchSelectColumns = []string{
	"id",
	"name",
	"played_at",
	"team1_player_ids",
	"team2_player_ids",
	"team1_score",
	"team2_score",
	"team1_elo_change",
	"team2_elo_change",
}

func playerFromRow(row playerTableModel, history []historyTableModel) player.Player {
	p := player.Player{
		ID:            row.ID,
		Name:          row.Name,
		Rating:        row.Elo,
		MatchesPlayed: row.MatchesPlayed,
		Wins:          row.Wins,
		Losses:        row.Losses,
		Draws:         row.Draws,
		CreatedAt:     row.CreatedAt.UTC(),
	}
	if len(history) > 0 {
		p.History = make([]player.HistoryEntry, 0, len(history))
		for _, h := range history {
			p.History = append(p.History, player.HistoryEntry{
				At:           h.PlayedAt.UTC(),
				MatchID:      h.MatchID,
				MatchLabel:   h.MatchName,
				RatingBefore: h.OldElo,
				RatingAfter:  h.NewElo,
			})
		}
	}
	return p
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:               row.ID,
		PlayedAt:         row.PlayedAt.UTC(),
		Label:            row.Name,
		Team1PlayerIDs:   append([]string(nil), row.Team1PlayerIDs...),
		Team2PlayerIDs:   append([]string(nil), row.Team2PlayerIDs...),
		Team1Score:       row.Team1Score,
		Team2Score:       row.Team2Score,
		Team1RatingDelta: row.Team1EloChange,
		Team2RatingDelta: row.Team2EloChange,
	}
}

// historyForMatch returns the entry p gained from matchID, if any.
func historyForMatch(p player.Player, matchID string) (player.HistoryEntry, bool) {
	for i := len(p.History) - 1; i >= 0; i-- {
		if p.History[i].MatchID == matchID {
			return p.History[i], true
		}
	}
	return player.HistoryEntry{}, false
}
