package httpapi

import (
	"time"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
	"github.com/riskibarqy/football-elo/internal/usecase"
)

type addPlayerRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type recordMatchRequest struct {
	Team1Players []string `json:"team1Players" validate:"required,min=1,dive,required"`
	Team2Players []string `json:"team2Players" validate:"required,min=1,dive,required"`
	Team1Score   *int     `json:"team1Score" validate:"required"`
	Team2Score   *int     `json:"team2Score" validate:"required"`
	Name         string   `json:"name" validate:"max=200"`
}

type historyEntryDTO struct {
	Date      string `json:"date"`
	MatchID   string `json:"matchId"`
	MatchName string `json:"matchName"`
	OldElo    int    `json:"oldElo"`
	NewElo    int    `json:"newElo"`
	Change    int    `json:"change"`
}

type playerDTO struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Elo       int               `json:"elo"`
	Matches   int               `json:"matches"`
	Wins      int               `json:"wins"`
	Losses    int               `json:"losses"`
	Draws     int               `json:"draws"`
	WinRate   float64           `json:"winRate"`
	History   []historyEntryDTO `json:"history"`
	CreatedAt string            `json:"createdAt"`
}

type matchDTO struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	Name           string   `json:"name"`
	Team1Players   []string `json:"team1Players"`
	Team2Players   []string `json:"team2Players"`
	Team1Score     int      `json:"team1Score"`
	Team2Score     int      `json:"team2Score"`
	Team1EloChange float64  `json:"team1EloChange"`
	Team2EloChange float64  `json:"team2EloChange"`
}

type statsDTO struct {
	Players    int        `json:"players"`
	Matches    int        `json:"matches"`
	TopPlayer  *playerDTO `json:"topPlayer"`
	AverageElo float64    `json:"averageElo"`
	TotalGoals int        `json:"totalGoals"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func historyToDTO(entries []player.HistoryEntry) []historyEntryDTO {
	out := make([]historyEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryDTO{
			Date:      formatTime(e.At),
			MatchID:   e.MatchID,
			MatchName: e.MatchLabel,
			OldElo:    e.RatingBefore,
			NewElo:    e.RatingAfter,
			Change:    e.Change(),
		})
	}
	return out
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:        p.ID,
		Name:      p.Name,
		Elo:       p.Rating,
		Matches:   p.MatchesPlayed,
		Wins:      p.Wins,
		Losses:    p.Losses,
		Draws:     p.Draws,
		WinRate:   p.WinRate(),
		History:   historyToDTO(p.History),
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:             m.ID,
		Date:           formatTime(m.PlayedAt),
		Name:           m.Label,
		Team1Players:   append([]string{}, m.Team1PlayerIDs...),
		Team2Players:   append([]string{}, m.Team2PlayerIDs...),
		Team1Score:     m.Team1Score,
		Team2Score:     m.Team2Score,
		Team1EloChange: m.Team1RatingDelta,
		Team2EloChange: m.Team2RatingDelta,
	}
}

func overviewToDTO(o usecase.Overview) statsDTO {
	out := statsDTO{
		Players:    o.PlayerCount,
		Matches:    o.MatchCount,
		AverageElo: o.AverageRating,
		TotalGoals: o.TotalGoals,
	}
	if o.TopPlayer != nil {
		top := playerToDTO(*o.TopPlayer)
		out.TopPlayer = &top
	}
	return out
}
