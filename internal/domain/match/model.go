package match

import "time"

// DefaultLabel names matches recorded without an explicit label.
const DefaultLabel = "Training match"

// Match is the immutable record of a played match.
type Match struct {
	ID               string
	PlayedAt         time.Time
	Label            string
	Team1PlayerIDs   []string
	Team2PlayerIDs   []string
	Team1Score       int
	Team2Score       int
	Team1RatingDelta float64
	Team2RatingDelta float64
}

// Clone returns a copy that shares no roster backing arrays with m.
func (m Match) Clone() Match {
	copied := m
	copied.Team1PlayerIDs = append([]string(nil), m.Team1PlayerIDs...)
	copied.Team2PlayerIDs = append([]string(nil), m.Team2PlayerIDs...)
	return copied
}

// TotalGoals is the sum of both scores.
func (m Match) TotalGoals() int {
	return m.Team1Score + m.Team2Score
}
