package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/player"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/usecase"
)

// ResultRepository keeps results and the player aggregates they feed in one
// lock so Insert stays all-or-nothing, matching the transactional contract
// of the postgres implementation.
type ResultRepository struct {
	mu      sync.RWMutex
	results map[string]result.Result
	stats   *PlayerRepository
}

func NewResultRepository(stats *PlayerRepository) *ResultRepository {
	return &ResultRepository{
		results: make(map[string]result.Result),
		stats:   stats,
	}
}

func (r *ResultRepository) Insert(_ context.Context, res result.Result) (result.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.results[res.ID]; exists {
		return result.Result{}, fmt.Errorf("%w: result id=%s", usecase.ErrConflict, res.ID)
	}

	stored := res
	stored.CardsPlayed = append([]string(nil), res.CardsPlayed...)
	r.results[stored.ID] = stored

	if r.stats != nil {
		r.stats.applyResult(stored)
	}

	return stored, nil
}

func (r *ResultRepository) ListStandings(_ context.Context, limit, offset int) ([]result.Result, error) {
	r.mu.RLock()
	ordered := r.orderedLocked()
	r.mu.RUnlock()

	return result.Page(ordered, limit, offset), nil
}

func (r *ResultRepository) ListByPlayer(_ context.Context, playerID string) ([]result.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]result.Result, 0)
	for _, res := range r.results {
		if res.PlayerID == playerID {
			out = append(out, res)
		}
	}
	result.SortByStanding(out)

	return out, nil
}

func (r *ResultRepository) CountBetter(_ context.Context, score int, completedAt time.Time) (int, error) {
	probe := result.Result{Score: score, CompletedAt: completedAt}

	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, res := range r.results {
		if result.Better(res, probe) {
			count++
		}
	}

	return count, nil
}

func (r *ResultRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.results), nil
}

func (r *ResultRepository) ListPlayerIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, res := range r.results {
		if _, ok := seen[res.PlayerID]; ok {
			continue
		}
		seen[res.PlayerID] = struct{}{}
		out = append(out, res.PlayerID)
	}
	sort.Strings(out)

	return out, nil
}

// orderedLocked snapshots all results in standing order. Caller holds r.mu.
func (r *ResultRepository) orderedLocked() []result.Result {
	out := make([]result.Result, 0, len(r.results))
	for _, res := range r.results {
		out = append(out, res)
	}
	result.SortByStanding(out)

	return out
}

var _ result.Repository = (*ResultRepository)(nil)
var _ player.Repository = (*PlayerRepository)(nil)
