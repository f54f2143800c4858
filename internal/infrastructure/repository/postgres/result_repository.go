package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/jmoiron/sqlx"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert writes the result row and bumps the player's aggregates in one
// transaction; a failure of either write rolls back both.
func (r *ResultRepository) Insert(ctx context.Context, res result.Result) (result.Result, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result.Result{}, fmt.Errorf("begin tx insert result: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	model := resultToTableModel(res)
	const insertQuery = `
		INSERT INTO results (
			id, player_id, player_name, score, rounds,
			final_progress, final_bugs, final_tech_debt,
			game_duration_seconds, cards_played, fingerprint, completed_at
		) VALUES (
			:id, :player_id, :player_name, :score, :rounds,
			:final_progress, :final_bugs, :final_tech_debt,
			:game_duration_seconds, :cards_played, :fingerprint, :completed_at
		)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, model); err != nil {
		if isUniqueViolation(err) {
			return result.Result{}, wrapConflict(err, "insert result")
		}
		return result.Result{}, fmt.Errorf("insert result: %w", err)
	}

	const statsQuery = `
		INSERT INTO player_stats (player_id, player_name, total_games, best_score, updated_at)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			total_games = player_stats.total_games + 1,
			best_score  = GREATEST(player_stats.best_score, EXCLUDED.best_score),
			updated_at  = EXCLUDED.updated_at`
	if _, err := tx.ExecContext(ctx, statsQuery, res.PlayerID, res.PlayerName, res.Score, res.CompletedAt); err != nil {
		return result.Result{}, fmt.Errorf("upsert player stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return result.Result{}, fmt.Errorf("commit insert result: %w", err)
	}

	return res, nil
}

func (r *ResultRepository) ListStandings(ctx context.Context, limit, offset int) ([]result.Result, error) {
	if limit <= 0 || offset < 0 {
		return []result.Result{}, nil
	}

	const query = `
		SELECT * FROM results
		ORDER BY score DESC, completed_at ASC
		LIMIT $1 OFFSET $2`

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	return rowsToDomain(rows), nil
}

func (r *ResultRepository) ListByPlayer(ctx context.Context, playerID string) ([]result.Result, error) {
	const query = `
		SELECT * FROM results
		WHERE player_id = $1
		ORDER BY score DESC, completed_at ASC`

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, playerID); err != nil {
		return nil, fmt.Errorf("list player results: %w", err)
	}

	return rowsToDomain(rows), nil
}

// CountBetter applies the leaderboard total order in SQL: higher score, or
// equal score completed earlier.
func (r *ResultRepository) CountBetter(ctx context.Context, score int, completedAt time.Time) (int, error) {
	const query = `
		SELECT COUNT(*) FROM results
		WHERE score > $1 OR (score = $1 AND completed_at < $2)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, score, completedAt); err != nil {
		return 0, fmt.Errorf("count better results: %w", err)
	}

	return count, nil
}

func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM results`); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}

	return count, nil
}

func (r *ResultRepository) ListPlayerIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT player_id FROM results ORDER BY player_id`); err != nil {
		return nil, fmt.Errorf("list player ids: %w", err)
	}

	return ids, nil
}

func rowsToDomain(rows []resultTableModel) []result.Result {
	out := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out
}
