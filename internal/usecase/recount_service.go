package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/player"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const defaultRecountWorkers = 8

// RecountResult summarizes one aggregate rebuild run.
type RecountResult struct {
	PlayerCount  int   `json:"player_count"`
	SuccessCount int   `json:"success_count"`
	FailedCount  int   `json:"failed_count"`
	WorkerCount  int   `json:"worker_count"`
	DurationMs   int64 `json:"duration_ms"`
}

// RecountService rebuilds player aggregate stats from stored results. It is
// a repair job for aggregates that drifted (manual data fixes, partial
// restores); normal writes keep aggregates current transactionally.
type RecountService struct {
	results    result.Repository
	players    player.Repository
	maxWorkers int
	logger     *logging.Logger
}

func NewRecountService(results result.Repository, players player.Repository, maxWorkers int, logger *logging.Logger) *RecountService {
	if maxWorkers < 1 {
		maxWorkers = defaultRecountWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RecountService{
		results:    results,
		players:    players,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// Recount recomputes every player's total games and best score from stored
// results, fanning players out over a worker pool.
func (s *RecountService) Recount(ctx context.Context) (RecountResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecountService.Recount")
	defer span.End()

	start := time.Now()

	playerIDs, err := s.results.ListPlayerIDs(ctx)
	if err != nil {
		return RecountResult{}, fmt.Errorf("list player ids: %w", err)
	}

	workerCount := s.maxWorkers
	if len(playerIDs) < workerCount {
		workerCount = len(playerIDs)
	}
	if workerCount < 1 {
		workerCount = 1
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecountResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	var successCount atomic.Int32
	var failedCount atomic.Int32

	for _, playerID := range playerIDs {
		playerID := playerID
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			if err := s.recountPlayer(ctx, playerID); err != nil {
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "recount player failed", "player_id", playerID, "error", err)
				return
			}
			successCount.Add(1)
		}); err != nil {
			workers.Done()
			failedCount.Add(1)
			s.logger.WarnContext(ctx, "submit recount task failed", "player_id", playerID, "error", err)
		}
	}

	workers.Wait()

	return RecountResult{
		PlayerCount:  len(playerIDs),
		SuccessCount: int(successCount.Load()),
		FailedCount:  int(failedCount.Load()),
		WorkerCount:  workerCount,
		DurationMs:   time.Since(start).Milliseconds(),
	}, nil
}

func (s *RecountService) recountPlayer(ctx context.Context, playerID string) error {
	rows, err := s.results.ListByPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	stats := player.Stats{
		PlayerID:  playerID,
		UpdatedAt: time.Now().UTC(),
	}
	latest := rows[0].CompletedAt
	stats.PlayerName = rows[0].PlayerName
	for _, row := range rows {
		stats.TotalGames++
		if row.Score > stats.BestScore {
			stats.BestScore = row.Score
		}
		if row.CompletedAt.After(latest) {
			latest = row.CompletedAt
			stats.PlayerName = row.PlayerName
		}
	}

	if err := s.players.UpsertStats(ctx, stats); err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}

	return nil
}
