package game

import (
	"errors"
	"testing"

	"github.com/devstack-game/leaderboard/internal/domain/result"
)

func plausibleSubmission() result.Submission {
	return result.Submission{
		PlayerID:            "player-1",
		PlayerName:          "Dev One",
		Score:               900,
		Rounds:              40,
		FinalProgress:       100,
		FinalBugs:           0,
		FinalTechDebt:       12,
		GameDurationSeconds: 800,
		CardsPlayed:         make([]string, 45),
	}
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*result.Submission, *Rules)
		targetErr error
	}{
		{
			name: "plausible run",
			mutate: func(_ *result.Submission, _ *Rules) {
			},
			targetErr: nil,
		},
		{
			name: "not completed",
			mutate: func(sub *result.Submission, _ *Rules) {
				sub.FinalProgress = 99
			},
			targetErr: ErrGameNotCompleted,
		},
		{
			name: "ended with bugs",
			mutate: func(sub *result.Submission, _ *Rules) {
				sub.FinalBugs = 3
			},
			targetErr: ErrGameEndedWithBugs,
		},
		{
			name: "score above ceiling",
			mutate: func(sub *result.Submission, _ *Rules) {
				// Ceiling for 40 rounds is 1000 + 60*10 = 1600.
				sub.Score = 1601
			},
			targetErr: ErrScoreTooHigh,
		},
		{
			name: "score exactly at ceiling passes",
			mutate: func(sub *result.Submission, _ *Rules) {
				sub.Score = 1600
			},
			targetErr: nil,
		},
		{
			name: "finished too quickly",
			mutate: func(sub *result.Submission, _ *Rules) {
				sub.GameDurationSeconds = 399
			},
			targetErr: ErrGameTooFast,
		},
		{
			name: "duration exactly at floor passes",
			mutate: func(sub *result.Submission, _ *Rules) {
				sub.GameDurationSeconds = 400
			},
			targetErr: nil,
		},
		{
			name: "too few cards for rounds",
			mutate: func(sub *result.Submission, _ *Rules) {
				sub.CardsPlayed = make([]string, 39)
			},
			targetErr: ErrNotEnoughCards,
		},
		{
			name: "tighter per-round pace from config",
			mutate: func(sub *result.Submission, cfg *Rules) {
				cfg.MinSecondsPerRound = 30
			},
			targetErr: ErrGameTooFast,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := plausibleSubmission()
			rules := DefaultRules()
			tc.mutate(&sub, &rules)

			err := rules.ValidateSubmission(sub)
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("expected submission to pass, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestValidateSubmissionReportsFirstViolation(t *testing.T) {
	// An incomplete run with an impossible score still reports the
	// completion rule; checks run in declaration order.
	sub := plausibleSubmission()
	sub.FinalProgress = 50
	sub.Score = 99999

	err := DefaultRules().ValidateSubmission(sub)
	if !errors.Is(err, ErrGameNotCompleted) {
		t.Fatalf("expected %v, got %v", ErrGameNotCompleted, err)
	}
}

func TestMaxScoreForRounds(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		rounds int
		want   int
	}{
		{rounds: 100, want: 1000},
		{rounds: 40, want: 1600},
		{rounds: 1, want: 1990},
	}

	for _, tc := range tests {
		if got := rules.MaxScoreForRounds(tc.rounds); got != tc.want {
			t.Fatalf("ceiling for %d rounds: expected %d, got %d", tc.rounds, tc.want, got)
		}
	}
}

func TestIsRuleViolation(t *testing.T) {
	if !IsRuleViolation(ErrScoreTooHigh) {
		t.Fatal("expected rule rejection to be recognized")
	}
	if IsRuleViolation(errors.New("storage offline")) {
		t.Fatal("expected unrelated error to be rejected")
	}
	if IsRuleViolation(nil) {
		t.Fatal("expected nil to be rejected")
	}
}
