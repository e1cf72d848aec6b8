package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/football-elo/internal/domain/match"
	"github.com/riskibarqy/football-elo/internal/domain/player"
	qb "github.com/riskibarqy/football-elo/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

// Record inserts the match, rewrites each participant's counters and appends
// their history rows inside one transaction.
func (r *MatchRepository) Record(ctx context.Context, m match.Match, updated []player.Player) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record match tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	matchQuery, matchArgs, err := qb.InsertInto("matches").
		Columns(
			"id", "name", "played_at",
			"team1_player_ids", "team2_player_ids",
			"team1_score", "team2_score",
			"team1_elo_change", "team2_elo_change",
		).
		Values(
			m.ID, m.Label, m.PlayedAt,
			pq.StringArray(m.Team1PlayerIDs), pq.StringArray(m.Team2PlayerIDs),
			m.Team1Score, m.Team2Score,
			m.Team1RatingDelta, m.Team2RatingDelta,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, matchQuery, matchArgs...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: match=%s", match.ErrAlreadyRecorded, m.ID)
		}
		return fmt.Errorf("insert match: %w", err)
	}

	now := time.Now().UTC()
	history := qb.InsertInto("player_history").
		Columns("player_id", "match_id", "match_name", "old_elo", "new_elo", "played_at")
	historyRows := 0

	for _, p := range updated {
		query, args, err := updatePlayerQuery(p, now)
		if err != nil {
			return fmt.Errorf("build update player query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update player %s: %w", p.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("read update player rows affected: %w", err)
		}
		if affected == 0 {
			return r.missedPlayerUpdate(ctx, tx, p.ID)
		}

		if entry, ok := historyForMatch(p, m.ID); ok {
			history.Values(p.ID, m.ID, entry.MatchLabel, entry.RatingBefore, entry.RatingAfter, entry.At)
			historyRows++
		}
	}

	if historyRows > 0 {
		query, args, err := history.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert history query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record match tx: %w", err)
	}
	return nil
}

// updatePlayerQuery only matches the row the caller computed from: a
// concurrent record from another replica bumps matches_played first.
func updatePlayerQuery(p player.Player, now time.Time) (string, []any, error) {
	return qb.Update("players").
		Set("elo", p.Rating).
		Set("matches_played", p.MatchesPlayed).
		Set("wins", p.Wins).
		Set("losses", p.Losses).
		Set("draws", p.Draws).
		Set("updated_at", now).
		Where(qb.Eq("id", p.ID), qb.Eq("matches_played", p.MatchesPlayed-1)).
		ToSQL()
}

// missedPlayerUpdate tells a deleted player apart from one that moved on.
func (r *MatchRepository) missedPlayerUpdate(ctx context.Context, tx *sqlx.Tx, playerID string) error {
	query, args, err := qb.Select("id").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build player exists query: %w", err)
	}

	var id string
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: player=%s", player.ErrUnknown, playerID)
		}
		return fmt.Errorf("check player %s: %w", playerID, err)
	}
	return fmt.Errorf("%w: player=%s", player.ErrStale, playerID)
}
