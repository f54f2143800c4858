package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/player"
	"github.com/jmoiron/sqlx"
)

type playerStatsTableModel struct {
	PlayerID   string    `db:"player_id"`
	PlayerName string    `db:"player_name"`
	TotalGames int       `db:"total_games"`
	BestScore  int       `db:"best_score"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetStats(ctx context.Context, playerID string) (player.Stats, bool, error) {
	const query = `SELECT * FROM player_stats WHERE player_id = $1`

	var row playerStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, playerID); err != nil {
		if isNotFound(err) {
			return player.Stats{}, false, nil
		}
		return player.Stats{}, false, fmt.Errorf("get player stats: %w", err)
	}

	return player.Stats{
		PlayerID:   row.PlayerID,
		PlayerName: row.PlayerName,
		TotalGames: row.TotalGames,
		BestScore:  row.BestScore,
		UpdatedAt:  row.UpdatedAt,
	}, true, nil
}

func (r *PlayerRepository) UpsertStats(ctx context.Context, stats player.Stats) error {
	const query = `
		INSERT INTO player_stats (player_id, player_name, total_games, best_score, updated_at)
		VALUES (:player_id, :player_name, :total_games, :best_score, :updated_at)
		ON CONFLICT (player_id) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			total_games = EXCLUDED.total_games,
			best_score  = EXCLUDED.best_score,
			updated_at  = EXCLUDED.updated_at`

	model := playerStatsTableModel{
		PlayerID:   stats.PlayerID,
		PlayerName: stats.PlayerName,
		TotalGames: stats.TotalGames,
		BestScore:  stats.BestScore,
		UpdatedAt:  stats.UpdatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("upsert player stats: %w", err)
	}

	return nil
}
