package eloapi

// Wire types for the football-elo REST API.

type HistoryEntry struct {
	Date      string `json:"date"`
	MatchID   string `json:"matchId"`
	MatchName string `json:"matchName"`
	OldElo    int    `json:"oldElo"`
	NewElo    int    `json:"newElo"`
	Change    int    `json:"change"`
}

type Player struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Elo       int            `json:"elo"`
	Matches   int            `json:"matches"`
	Wins      int            `json:"wins"`
	Losses    int            `json:"losses"`
	Draws     int            `json:"draws"`
	WinRate   float64        `json:"winRate"`
	History   []HistoryEntry `json:"history"`
	CreatedAt string         `json:"createdAt"`
}

type Match struct {
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

type RecordMatchRequest struct {
	Team1Players []string `json:"team1Players"`
	Team2Players []string `json:"team2Players"`
	Team1Score   int      `json:"team1Score"`
	Team2Score   int      `json:"team2Score"`
	Name         string   `json:"name,omitempty"`
}

type addPlayerRequest struct {
	Name string `json:"name"`
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
