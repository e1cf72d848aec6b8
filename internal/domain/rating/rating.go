package rating

import "math"

const (
	// KFactor is the maximum rating swing of a single match.
	KFactor = 32
	// DefaultRating is assigned to every newly registered player.
	DefaultRating = 1200
)

// Outcome is the realized result of a match from one side's perspective.
type Outcome float64

const (
	Loss Outcome = 0
	Draw Outcome = 0.5
	Win  Outcome = 1
)

// OutcomeFromScores compares a side's goals to its opponent's.
func OutcomeFromScores(own, other int) Outcome {
	switch {
	case own > other:
		return Win
	case own < other:
		return Loss
	default:
		return Draw
	}
}

// Opposite returns the outcome seen by the other side.
func (o Outcome) Opposite() Outcome {
	return Win - o
}

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// ExpectedScore returns the probability in (0,1) that a side rated ratingA
// outscores a side rated ratingB.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

// UpdatedRating applies a single Elo step to current.
// Halves round up (toward +Inf), so 1216.5 becomes 1217 and -26.5 becomes -26.
func UpdatedRating(current int, expected, actual float64) int {
	return roundHalfUp(float64(current) + KFactor*(actual-expected))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
