package player

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/football-elo/internal/domain/rating"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	p, err := New("p-1", "  Marta  ", now)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if p.Name != "Marta" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.Rating != rating.DefaultRating {
		t.Fatalf("expected default rating, got %d", p.Rating)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid player, got %v", err)
	}
}

func TestNew_RejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "   ", strings.Repeat("x", MaxNameLength+1)} {
		if _, err := New("p-1", name, time.Now()); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName for %q, got %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	base := Player{
		ID:            "p-1",
		Name:          "Marta",
		Rating:        1184,
		MatchesPlayed: 2,
		Wins:          1,
		Losses:        1,
		History: []HistoryEntry{
			{MatchID: "m-1", RatingBefore: 1200, RatingAfter: 1216},
			{MatchID: "m-2", RatingBefore: 1216, RatingAfter: 1184},
		},
	}

	tests := []struct {
		name      string
		mutate    func(*Player)
		targetErr error
	}{
		{name: "valid", mutate: func(*Player) {}},
		{name: "counter mismatch", mutate: func(p *Player) { p.Draws = 1 }, targetErr: ErrCounterMismatch},
		{name: "rating out of sync", mutate: func(p *Player) { p.Rating = 1216 }, targetErr: ErrRatingOutOfSync},
		{name: "negative counters", mutate: func(p *Player) { p.Losses = -1; p.Wins = 3 }, targetErr: ErrNegativeCounters},
		{name: "empty history keeps default", mutate: func(p *Player) {
			p.History = nil
			p.MatchesPlayed, p.Wins, p.Losses = 0, 0, 0
		}, targetErr: ErrRatingOutOfSync},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := base.Clone()
			tc.mutate(&p)
			err := p.Validate()
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestRecentHistory(t *testing.T) {
	p := Player{}
	for i := 0; i < 7; i++ {
		p.History = append(p.History, HistoryEntry{RatingBefore: 1200 + i, RatingAfter: 1201 + i})
	}

	got := p.RecentHistory(5)
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	if got[0].RatingAfter != 1207 || got[4].RatingAfter != 1203 {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if all := p.RecentHistory(0); len(all) != 7 {
		t.Fatalf("expected all entries for limit=0, got %d", len(all))
	}
}

func TestWinRate(t *testing.T) {
	if got := (Player{}).WinRate(); got != 0 {
		t.Fatalf("expected zero win rate, got %v", got)
	}
	if got := (Player{MatchesPlayed: 4, Wins: 3, Losses: 1}).WinRate(); got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
}

func TestClone_DoesNotShareHistory(t *testing.T) {
	p := Player{History: []HistoryEntry{{RatingAfter: 1216}}}
	c := p.Clone()
	c.History[0].RatingAfter = 1
	if p.History[0].RatingAfter != 1216 {
		t.Fatalf("expected original history untouched")
	}
}
