package player

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/football-elo/internal/domain/rating"
)

const MaxNameLength = 100

var (
	ErrInvalidName      = errors.New("invalid player name")
	ErrCounterMismatch  = errors.New("matches played does not equal wins+losses+draws")
	ErrRatingOutOfSync  = errors.New("rating does not match last history entry")
	ErrNegativeCounters = errors.New("player counters must be non-negative")
	ErrAlreadyExists    = errors.New("player already exists")
	ErrUnknown          = errors.New("player does not exist")
	ErrStale            = errors.New("player changed since it was read")
)

// HistoryEntry records one rating change caused by a match.
type HistoryEntry struct {
	At           time.Time
	MatchID      string
	MatchLabel   string
	RatingBefore int
	RatingAfter  int
}

// Change is the signed rating movement of the entry.
func (h HistoryEntry) Change() int {
	return h.RatingAfter - h.RatingBefore
}

// Player is a registered footballer with an Elo rating.
type Player struct {
	ID            string
	Name          string
	Rating        int
	MatchesPlayed int
	Wins          int
	Losses        int
	Draws         int
	History       []HistoryEntry
	CreatedAt     time.Time
}

// New builds a player with the default rating and empty record.
func New(id, name string, createdAt time.Time) (Player, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return Player{}, err
	}

	return Player{
		ID:        id,
		Name:      name,
		Rating:    rating.DefaultRating,
		CreatedAt: createdAt,
	}, nil
}

// NormalizeName trims the display name and rejects empty or oversized values.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}
	return name, nil
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if _, err := NormalizeName(p.Name); err != nil {
		return err
	}
	if p.MatchesPlayed < 0 || p.Wins < 0 || p.Losses < 0 || p.Draws < 0 {
		return ErrNegativeCounters
	}
	if p.MatchesPlayed != p.Wins+p.Losses+p.Draws {
		return fmt.Errorf("%w: matches=%d wins=%d losses=%d draws=%d", ErrCounterMismatch, p.MatchesPlayed, p.Wins, p.Losses, p.Draws)
	}
	if want := p.expectedRating(); p.Rating != want {
		return fmt.Errorf("%w: rating=%d expected=%d", ErrRatingOutOfSync, p.Rating, want)
	}

	return nil
}

func (p Player) expectedRating() int {
	if len(p.History) == 0 {
		return rating.DefaultRating
	}
	return p.History[len(p.History)-1].RatingAfter
}

// WinRate is wins over matches played, zero before the first match.
func (p Player) WinRate() float64 {
	if p.MatchesPlayed == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.MatchesPlayed)
}

// RecentHistory returns up to limit entries, newest first.
func (p Player) RecentHistory(limit int) []HistoryEntry {
	n := len(p.History)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]HistoryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, p.History[i])
	}
	return out
}

// Clone returns a copy that shares no history backing array with p.
func (p Player) Clone() Player {
	copied := p
	copied.History = append([]HistoryEntry(nil), p.History...)
	return copied
}
