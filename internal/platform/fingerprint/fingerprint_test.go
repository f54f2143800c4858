package fingerprint

import (
	"testing"

	"github.com/devstack-game/leaderboard/internal/domain/result"
)

func sampleSubmission() result.Submission {
	return result.Submission{
		PlayerID:            "player-1",
		Score:               1200,
		Rounds:              38,
		FinalProgress:       100,
		FinalBugs:           0,
		FinalTechDebt:       15,
		GameDurationSeconds: 900,
		CardsPlayed:         []string{"refactor", "unit-test", "deploy", "hotfix"},
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	sub := sampleSubmission()

	first := Compute(sub)
	second := Compute(sub)

	if first == "" {
		t.Fatal("expected non-empty fingerprint")
	}
	if first != second {
		t.Fatalf("expected identical fingerprints, got %q and %q", first, second)
	}
}

func TestComputeIgnoresCardOrder(t *testing.T) {
	sub := sampleSubmission()
	shuffled := sampleSubmission()
	shuffled.CardsPlayed = []string{"hotfix", "deploy", "refactor", "unit-test"}

	if Compute(sub) != Compute(shuffled) {
		t.Fatal("expected card order not to affect the fingerprint")
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	sub := sampleSubmission()
	Compute(sub)

	want := []string{"refactor", "unit-test", "deploy", "hotfix"}
	for i, card := range sub.CardsPlayed {
		if card != want[i] {
			t.Fatalf("card slice was reordered: got %v", sub.CardsPlayed)
		}
	}
}

func TestComputeChangesWithFields(t *testing.T) {
	base := Compute(sampleSubmission())

	tests := []struct {
		name   string
		mutate func(*result.Submission)
	}{
		{
			name:   "player id",
			mutate: func(sub *result.Submission) { sub.PlayerID = "player-2" },
		},
		{
			name:   "score",
			mutate: func(sub *result.Submission) { sub.Score = 1201 },
		},
		{
			name:   "rounds",
			mutate: func(sub *result.Submission) { sub.Rounds = 39 },
		},
		{
			name:   "final tech debt",
			mutate: func(sub *result.Submission) { sub.FinalTechDebt = 16 },
		},
		{
			name:   "extra card",
			mutate: func(sub *result.Submission) { sub.CardsPlayed = append(sub.CardsPlayed, "standup") },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := sampleSubmission()
			tc.mutate(&sub)
			if Compute(sub) == base {
				t.Fatal("expected fingerprint to change")
			}
		})
	}
}
