package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/game"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/platform/cache"
	"github.com/devstack-game/leaderboard/internal/platform/fingerprint"
	idgen "github.com/devstack-game/leaderboard/internal/platform/id"
	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/devstack-game/leaderboard/internal/platform/ratelimit"
)

// AcceptedPublisher notifies downstream consumers about an accepted result.
// Delivery is best effort; the pipeline never fails a write over it.
type AcceptedPublisher interface {
	PublishAccepted(ctx context.Context, res result.Result) error
}

// SubmissionService is the score-submission integrity pipeline: rate gate,
// plausibility rules, fingerprint, then the atomic storage hand-off. The
// gate and rules are purely local and fail fast, so a rejected submission
// leaves no partial state behind.
type SubmissionService struct {
	gate       ratelimit.Admitter
	rules      game.Rules
	results    result.Repository
	idGen      idgen.Generator
	publisher  AcceptedPublisher
	cacheStore *cache.Store
	logger     *logging.Logger
	now        func() time.Time
}

func NewSubmissionService(
	gate ratelimit.Admitter,
	rules game.Rules,
	results result.Repository,
	idGen idgen.Generator,
	publisher AcceptedPublisher,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *SubmissionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SubmissionService{
		gate:       gate,
		rules:      rules,
		results:    results,
		idGen:      idGen,
		publisher:  publisher,
		cacheStore: cacheStore,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit runs one submission through the pipeline. clientKey identifies the
// caller for throttling (normally the client IP). On acceptance it returns
// the stored result; otherwise ErrRateLimited, one of the game rule
// rejections, or a wrapped persistence failure.
func (s *SubmissionService) Submit(ctx context.Context, clientKey string, sub result.Submission) (result.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Submit")
	defer span.End()

	// Cheapest check first: a denial here short-circuits all further work.
	if !s.gate.TryAdmit(clientKey, ratelimit.ClassSubmission) {
		return result.Result{}, RateLimitedError(ratelimit.ClassSubmission)
	}

	if err := s.rules.ValidateSubmission(sub); err != nil {
		return result.Result{}, err
	}

	resultID, err := s.idGen.NewID()
	if err != nil {
		return result.Result{}, fmt.Errorf("generate result id: %w", err)
	}

	res := result.Result{
		ID:                  resultID,
		PlayerID:            sub.PlayerID,
		PlayerName:          sub.PlayerName,
		Score:               sub.Score,
		Rounds:              sub.Rounds,
		FinalProgress:       sub.FinalProgress,
		FinalBugs:           sub.FinalBugs,
		FinalTechDebt:       sub.FinalTechDebt,
		GameDurationSeconds: sub.GameDurationSeconds,
		CardsPlayed:         append([]string(nil), sub.CardsPlayed...),
		Fingerprint:         fingerprint.Compute(sub),
		CompletedAt:         s.now().UTC(),
	}

	stored, err := s.results.Insert(ctx, res)
	if err != nil {
		return result.Result{}, fmt.Errorf("insert result: %w", err)
	}

	if s.cacheStore != nil {
		s.cacheStore.DeletePrefix(ctx, leaderboardCachePrefix)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAccepted(ctx, stored); err != nil {
			s.logger.WarnContext(ctx, "publish accepted result failed",
				"result_id", stored.ID,
				"player_id", stored.PlayerID,
				"error", err,
			)
		}
	}

	return stored, nil
}
