package httpapi

import (
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/player"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/usecase"
)

// submitScoreRequest carries one completed run. The validate tags are the
// static range schema; anything structurally valid but internally
// inconsistent is left for the plausibility rules to reject.
type submitScoreRequest struct {
	PlayerName          string   `json:"player_name" validate:"omitempty,max=100"`
	Score               int      `json:"score" validate:"min=0,max=100000"`
	Rounds              int      `json:"rounds" validate:"min=1,max=100"`
	FinalProgress       int      `json:"final_progress" validate:"min=0,max=100"`
	FinalBugs           int      `json:"final_bugs" validate:"min=0,max=1000"`
	FinalTechDebt       int      `json:"final_tech_debt" validate:"min=0,max=100"`
	GameDurationSeconds int      `json:"game_duration_seconds" validate:"min=1,max=86400"`
	CardsPlayed         []string `json:"cards_played" validate:"required,min=1,max=500,dive,required,max=64"`
}

type resultDTO struct {
	ID                  string    `json:"id"`
	PlayerID            string    `json:"player_id"`
	PlayerName          string    `json:"player_name"`
	Score               int       `json:"score"`
	Rounds              int       `json:"rounds"`
	FinalProgress       int       `json:"final_progress"`
	FinalBugs           int       `json:"final_bugs"`
	FinalTechDebt       int       `json:"final_tech_debt"`
	GameDurationSeconds int       `json:"game_duration_seconds"`
	CardsPlayed         []string  `json:"cards_played"`
	Fingerprint         string    `json:"fingerprint"`
	CompletedAt         time.Time `json:"completed_at"`
}

type submitScoreResponseDTO struct {
	Result resultDTO `json:"result"`
	Rank   int       `json:"rank"`
}

type leaderboardEntryDTO struct {
	Rank        int       `json:"rank"`
	ResultID    string    `json:"result_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Score       int       `json:"score"`
	Rounds      int       `json:"rounds"`
	CompletedAt time.Time `json:"completed_at"`
}

type leaderboardPageDTO struct {
	Entries []leaderboardEntryDTO `json:"entries"`
	Total   int                   `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

type playerStatsDTO struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	TotalGames int       `json:"total_games"`
	BestScore  int       `json:"best_score"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (req submitScoreRequest) toSubmission(principal player.Principal) result.Submission {
	playerName := req.PlayerName
	if playerName == "" {
		playerName = principal.PlayerName
	}

	return result.Submission{
		PlayerID:            principal.PlayerID,
		PlayerName:          playerName,
		Score:               req.Score,
		Rounds:              req.Rounds,
		FinalProgress:       req.FinalProgress,
		FinalBugs:           req.FinalBugs,
		FinalTechDebt:       req.FinalTechDebt,
		GameDurationSeconds: req.GameDurationSeconds,
		CardsPlayed:         req.CardsPlayed,
	}
}

func resultToDTO(res result.Result) resultDTO {
	return resultDTO{
		ID:                  res.ID,
		PlayerID:            res.PlayerID,
		PlayerName:          res.PlayerName,
		Score:               res.Score,
		Rounds:              res.Rounds,
		FinalProgress:       res.FinalProgress,
		FinalBugs:           res.FinalBugs,
		FinalTechDebt:       res.FinalTechDebt,
		GameDurationSeconds: res.GameDurationSeconds,
		CardsPlayed:         res.CardsPlayed,
		Fingerprint:         res.Fingerprint,
		CompletedAt:         res.CompletedAt,
	}
}

func entryToDTO(entry result.LeaderboardEntry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:        entry.Rank,
		ResultID:    entry.ID,
		PlayerID:    entry.PlayerID,
		PlayerName:  entry.PlayerName,
		Score:       entry.Score,
		Rounds:      entry.Rounds,
		CompletedAt: entry.CompletedAt,
	}
}

func pageToDTO(page usecase.LeaderboardPage) leaderboardPageDTO {
	entries := make([]leaderboardEntryDTO, 0, len(page.Entries))
	for _, entry := range page.Entries {
		entries = append(entries, entryToDTO(entry))
	}

	return leaderboardPageDTO{
		Entries: entries,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
}

func statsToDTO(stats player.Stats) playerStatsDTO {
	return playerStatsDTO{
		PlayerID:   stats.PlayerID,
		PlayerName: stats.PlayerName,
		TotalGames: stats.TotalGames,
		BestScore:  stats.BestScore,
		UpdatedAt:  stats.UpdatedAt,
	}
}
