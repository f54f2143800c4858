package memory

import (
	"context"
	"sync"

	"github.com/devstack-game/leaderboard/internal/domain/player"
	"github.com/devstack-game/leaderboard/internal/domain/result"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Stats
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		items: make(map[string]player.Stats),
	}
}

func (r *PlayerRepository) GetStats(_ context.Context, playerID string) (player.Stats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats, ok := r.items[playerID]
	if !ok {
		return player.Stats{}, false, nil
	}

	return stats, true, nil
}

func (r *PlayerRepository) UpsertStats(_ context.Context, stats player.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[stats.PlayerID] = stats

	return nil
}

// applyResult folds one accepted result into the player's aggregates. Called
// by the result repository while it holds its own insert lock, so the pair
// of writes is observed together.
func (r *PlayerRepository) applyResult(res result.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.items[res.PlayerID]
	if !ok {
		stats = player.Stats{PlayerID: res.PlayerID}
	}
	stats.PlayerName = res.PlayerName
	stats.TotalGames++
	if res.Score > stats.BestScore {
		stats.BestScore = res.Score
	}
	stats.UpdatedAt = res.CompletedAt

	r.items[res.PlayerID] = stats
}
