package result

import (
	"context"
	"time"
)

type Repository interface {
	// Insert durably records an accepted result and updates the submitting
	// player's aggregate stats (total games, best score) in the same
	// transaction: both writes apply together or not at all.
	Insert(ctx context.Context, res Result) (Result, error)

	// ListStandings returns one leaderboard page in standing order
	// (score descending, completed_at ascending).
	ListStandings(ctx context.Context, limit, offset int) ([]Result, error)

	// ListByPlayer returns every result for one player in standing order.
	ListByPlayer(ctx context.Context, playerID string) ([]Result, error)

	// CountBetter returns how many stored results rank strictly above a
	// result with the given score and completion time.
	CountBetter(ctx context.Context, score int, completedAt time.Time) (int, error)

	Count(ctx context.Context) (int, error)

	// ListPlayerIDs returns the distinct player IDs having at least one
	// stored result.
	ListPlayerIDs(ctx context.Context) ([]string, error)
}
