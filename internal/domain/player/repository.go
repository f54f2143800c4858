package player

import "context"

// Repository describes player aggregate persistence needs from use cases.
type Repository interface {
	GetStats(ctx context.Context, playerID string) (Stats, bool, error)
	UpsertStats(ctx context.Context, stats Stats) error
}
