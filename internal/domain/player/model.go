package player

import "time"

// Stats stores per-player aggregates maintained alongside accepted results.
type Stats struct {
	PlayerID   string
	PlayerName string
	TotalGames int
	BestScore  int
	UpdatedAt  time.Time
}

// Principal identifies an authenticated player as reported by the account
// service.
type Principal struct {
	PlayerID   string
	PlayerName string
}
