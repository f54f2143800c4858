package game

import (
	"errors"

	"github.com/devstack-game/leaderboard/internal/domain/result"
)

// Rule rejection reasons double as user-facing messages, so they keep their
// display casing.
var (
	ErrGameNotCompleted  = errors.New("Game must be completed (100% progress)")
	ErrGameEndedWithBugs = errors.New("Game cannot end with bugs")
	ErrScoreTooHigh      = errors.New("Score too high for number of rounds")
	ErrGameTooFast       = errors.New("Game completed too quickly")
	ErrNotEnoughCards    = errors.New("Not enough cards played for number of rounds")
)

// Rules stores the plausibility parameters for a completed run. The values
// encode game-design assumptions and are expected to change independently of
// the checks themselves, so they are carried as configuration.
type Rules struct {
	// BaseScore is the score ceiling for a run that uses every round.
	BaseScore int
	// MaxRounds is the most rounds a run can take.
	MaxRounds int
	// PerRoundBonus raises the ceiling for every round finished early.
	PerRoundBonus int
	// MinSecondsPerRound is the fastest a human can plausibly play one round.
	MinSecondsPerRound int
}

func DefaultRules() Rules {
	return Rules{
		BaseScore:          1000,
		MaxRounds:          100,
		PerRoundBonus:      10,
		MinSecondsPerRound: 10,
	}
}

// MaxScoreForRounds returns the highest plausible score for a run finished in
// the given number of rounds.
func (r Rules) MaxScoreForRounds(rounds int) int {
	return r.BaseScore + (r.MaxRounds-rounds)*r.PerRoundBonus
}

// ValidateSubmission runs the plausibility checks over a submission whose
// individual fields are already range-validated. Checks run in a fixed order
// and the first violated rule is returned; a nil error means the submission
// is internally consistent. No I/O, safe for concurrent use.
func (r Rules) ValidateSubmission(sub result.Submission) error {
	if sub.FinalProgress != 100 {
		return ErrGameNotCompleted
	}
	if sub.FinalBugs != 0 {
		return ErrGameEndedWithBugs
	}
	if sub.Score > r.MaxScoreForRounds(sub.Rounds) {
		return ErrScoreTooHigh
	}
	if sub.GameDurationSeconds < sub.Rounds*r.MinSecondsPerRound {
		return ErrGameTooFast
	}
	if len(sub.CardsPlayed) < sub.Rounds {
		return ErrNotEnoughCards
	}

	return nil
}

// IsRuleViolation reports whether err is one of the plausibility rule
// rejections.
func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrGameNotCompleted) ||
		errors.Is(err, ErrGameEndedWithBugs) ||
		errors.Is(err, ErrScoreTooHigh) ||
		errors.Is(err, ErrGameTooFast) ||
		errors.Is(err, ErrNotEnoughCards)
}
