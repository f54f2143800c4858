package result

import "time"

// Submission carries one completed game run as reported by the client.
// Static field ranges are enforced by the transport schema layer before a
// Submission reaches the pipeline; cross-field plausibility checks live in
// the game rules.
type Submission struct {
	PlayerID            string
	PlayerName          string
	Score               int
	Rounds              int
	FinalProgress       int
	FinalBugs           int
	FinalTechDebt       int
	GameDurationSeconds int
	CardsPlayed         []string
}

// Result is an accepted submission as durably recorded. Append-only.
type Result struct {
	ID                  string
	PlayerID            string
	PlayerName          string
	Score               int
	Rounds              int
	FinalProgress       int
	FinalBugs           int
	FinalTechDebt       int
	GameDurationSeconds int
	CardsPlayed         []string
	Fingerprint         string
	CompletedAt         time.Time
}

// LeaderboardEntry is a stored result enriched with its 1-based rank
// relative to some population (global or per-player).
type LeaderboardEntry struct {
	Result
	Rank int
}
