package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/player"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/platform/cache"
	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	leaderboardCachePrefix = "leaderboard:"

	defaultPageLimit = 20
	maxPageLimit     = 100
)

// LeaderboardPage is one slice of the globally ordered standings.
type LeaderboardPage struct {
	Entries []result.LeaderboardEntry
	Total   int
	Limit   int
	Offset  int
}

// LeaderboardService serves the read path: ordered pages, individual ranks,
// player history and aggregates. Reads never touch the write pipeline.
type LeaderboardService struct {
	results    result.Repository
	players    player.Repository
	cacheStore *cache.Store
	logger     *logging.Logger
}

func NewLeaderboardService(
	results result.Repository,
	players player.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeaderboardService{
		results:    results,
		players:    players,
		cacheStore: cacheStore,
		logger:     logger,
	}
}

// Page returns ordered leaderboard entries with 1-based ranks. The ordering
// is a strict total order (ties broken by completion time), so an entry's
// rank equals its position in the ordered sequence. Offsets past the
// population yield an empty page.
func (s *LeaderboardService) Page(ctx context.Context, limit, offset int) (LeaderboardPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Page")
	defer span.End()

	if offset < 0 {
		return LeaderboardPage{}, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	load := func(ctx context.Context) (any, error) {
		return s.loadPage(ctx, limit, offset)
	}

	if s.cacheStore == nil {
		page, err := load(ctx)
		if err != nil {
			return LeaderboardPage{}, err
		}
		return page.(LeaderboardPage), nil
	}

	cacheKey := fmt.Sprintf("%spage:%d:%d", leaderboardCachePrefix, limit, offset)
	page, err := s.cacheStore.GetOrLoad(ctx, cacheKey, load)
	if err != nil {
		return LeaderboardPage{}, err
	}

	return page.(LeaderboardPage), nil
}

func (s *LeaderboardService) loadPage(ctx context.Context, limit, offset int) (LeaderboardPage, error) {
	var (
		rows  []result.Result
		total int
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		listed, err := s.results.ListStandings(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("list standings: %w", err)
		}
		rows = listed
		return nil
	})
	p.Go(func(ctx context.Context) error {
		counted, err := s.results.Count(ctx)
		if err != nil {
			return fmt.Errorf("count results: %w", err)
		}
		total = counted
		return nil
	})
	if err := p.Wait(); err != nil {
		return LeaderboardPage{}, err
	}

	entries := make([]result.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, result.LeaderboardEntry{
			Result: row,
			Rank:   offset + i + 1,
		})
	}

	return LeaderboardPage{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// Rank computes the global 1-based rank a result with the given score and
// completion time holds: one plus the number of stored results ranking
// strictly above it.
func (s *LeaderboardService) Rank(ctx context.Context, score int, completedAt time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Rank")
	defer span.End()

	better, err := s.results.CountBetter(ctx, score, completedAt)
	if err != nil {
		return 0, fmt.Errorf("count better results: %w", err)
	}

	return better + 1, nil
}

// PlayerHistory returns one player's results ranked within that player's own
// population, using the same ordering rule as the global board.
func (s *LeaderboardService) PlayerHistory(ctx context.Context, playerID string) ([]result.LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.PlayerHistory")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	rows, err := s.results.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list player results: %w", err)
	}

	entries := make([]result.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, result.LeaderboardEntry{
			Result: row,
			Rank:   result.Rank(row, rows),
		})
	}

	return entries, nil
}

// PlayerStats returns one player's aggregates.
func (s *LeaderboardService) PlayerStats(ctx context.Context, playerID string) (player.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.PlayerStats")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Stats{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	stats, exists, err := s.players.GetStats(ctx, playerID)
	if err != nil {
		return player.Stats{}, fmt.Errorf("get player stats: %w", err)
	}
	if !exists {
		return player.Stats{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return stats, nil
}
