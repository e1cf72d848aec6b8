package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/football-elo/internal/domain/player"
	qb "github.com/riskibarqy/football-elo/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	history, err := r.historyByPlayer(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row, history[row.ID]))
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	history, err := r.historyByPlayer(ctx, []string{playerID})
	if err != nil {
		return player.Player{}, false, err
	}

	return playerFromRow(row, history[playerID]), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	now := time.Now().UTC()
	query, args, err := qb.InsertInto("players").
		Columns("id", "name", "elo", "matches_played", "wins", "losses", "draws", "created_at", "updated_at").
		Values(p.ID, p.Name, p.Rating, p.MatchesPlayed, p.Wins, p.Losses, p.Draws, p.CreatedAt, now).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: player=%s", player.ErrAlreadyExists, p.ID)
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) historyByPlayer(ctx context.Context, playerIDs []string) (map[string][]historyTableModel, error) {
	out := make(map[string][]historyTableModel, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select(historySelectColumns...).From("player_history").
		Where(qb.In("player_id", playerIDs)).
		OrderBy("player_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select history query: %w", err)
	}

	var rows []historyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player history: %w", err)
	}
	for _, row := range rows {
		out[row.PlayerID] = append(out[row.PlayerID], row)
	}
	return out, nil
}
