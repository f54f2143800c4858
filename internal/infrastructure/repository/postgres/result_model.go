package postgres

import (
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/lib/pq"
)

type resultTableModel struct {
	ID                  string         `db:"id"`
	PlayerID            string         `db:"player_id"`
	PlayerName          string         `db:"player_name"`
	Score               int            `db:"score"`
	Rounds              int            `db:"rounds"`
	FinalProgress       int            `db:"final_progress"`
	FinalBugs           int            `db:"final_bugs"`
	FinalTechDebt       int            `db:"final_tech_debt"`
	GameDurationSeconds int            `db:"game_duration_seconds"`
	CardsPlayed         pq.StringArray `db:"cards_played"`
	Fingerprint         string         `db:"fingerprint"`
	CompletedAt         time.Time      `db:"completed_at"`
}

func resultToTableModel(res result.Result) resultTableModel {
	return resultTableModel{
		ID:                  res.ID,
		PlayerID:            res.PlayerID,
		PlayerName:          res.PlayerName,
		Score:               res.Score,
		Rounds:              res.Rounds,
		FinalProgress:       res.FinalProgress,
		FinalBugs:           res.FinalBugs,
		FinalTechDebt:       res.FinalTechDebt,
		GameDurationSeconds: res.GameDurationSeconds,
		CardsPlayed:         pq.StringArray(res.CardsPlayed),
		Fingerprint:         res.Fingerprint,
		CompletedAt:         res.CompletedAt,
	}
}

func (m resultTableModel) toDomain() result.Result {
	return result.Result{
		ID:                  m.ID,
		PlayerID:            m.PlayerID,
		PlayerName:          m.PlayerName,
		Score:               m.Score,
		Rounds:              m.Rounds,
		FinalProgress:       m.FinalProgress,
		FinalBugs:           m.FinalBugs,
		FinalTechDebt:       m.FinalTechDebt,
		GameDurationSeconds: m.GameDurationSeconds,
		CardsPlayed:         append([]string(nil), m.CardsPlayed...),
		Fingerprint:         m.Fingerprint,
		CompletedAt:         m.CompletedAt,
	}
}
