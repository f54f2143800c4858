package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devstack-game/leaderboard/internal/domain/game"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/infrastructure/repository/memory"
	"github.com/devstack-game/leaderboard/internal/platform/cache"
	"github.com/devstack-game/leaderboard/internal/platform/fingerprint"
	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/devstack-game/leaderboard/internal/platform/ratelimit"
	"github.com/devstack-game/leaderboard/internal/usecase"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type sequenceIDGenerator struct {
	ids []string
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	if len(g.ids) == 0 {
		return "", errors.New("out of ids")
	}
	id := g.ids[0]
	g.ids = g.ids[1:]
	return id, nil
}

type recordingPublisher struct {
	published []result.Result
	err       error
}

func (p *recordingPublisher) PublishAccepted(_ context.Context, res result.Result) error {
	p.published = append(p.published, res)
	return p.err
}

func openSubmissionGate() *ratelimit.FixedWindowGate {
	return ratelimit.NewFixedWindowGate(map[string]ratelimit.ClassConfig{
		ratelimit.ClassSubmission: {MaxRequests: 100, Window: time.Minute},
	})
}

func acceptableSubmission() result.Submission {
	return result.Submission{
		PlayerID:            "player-1",
		PlayerName:          "Dev One",
		Score:               900,
		Rounds:              40,
		FinalProgress:       100,
		FinalBugs:           0,
		FinalTechDebt:       10,
		GameDurationSeconds: 800,
		CardsPlayed:         make([]string, 45),
	}
}

func TestSubmissionService_Submit_Accepts(t *testing.T) {
	stats := memory.NewPlayerRepository()
	resultRepo := memory.NewResultRepository(stats)
	publisher := &recordingPublisher{}

	service := usecase.NewSubmissionService(
		openSubmissionGate(),
		game.DefaultRules(),
		resultRepo,
		staticIDGenerator{id: "result-001"},
		publisher,
		nil,
		logging.NewNop(),
	)

	now := time.Date(2026, 4, 2, 15, 30, 0, 0, time.UTC)
	service.SetNow(func() time.Time { return now })

	sub := acceptableSubmission()
	stored, err := service.Submit(t.Context(), "10.0.0.1", sub)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if stored.ID != "result-001" {
		t.Fatalf("expected stored id result-001, got %s", stored.ID)
	}
	if !stored.CompletedAt.Equal(now) {
		t.Fatalf("expected completion time %v, got %v", now, stored.CompletedAt)
	}
	if stored.Fingerprint != fingerprint.Compute(sub) {
		t.Fatalf("stored fingerprint %q does not match the submission", stored.Fingerprint)
	}

	if len(publisher.published) != 1 || publisher.published[0].ID != "result-001" {
		t.Fatalf("expected the stored result to be published, got %v", publisher.published)
	}

	aggregates, exists, err := stats.GetStats(t.Context(), "player-1")
	if err != nil || !exists {
		t.Fatalf("expected player aggregates after acceptance, exists=%t err=%v", exists, err)
	}
	if aggregates.TotalGames != 1 || aggregates.BestScore != 900 {
		t.Fatalf("unexpected aggregates: %+v", aggregates)
	}
}

func TestSubmissionService_Submit_RateLimited(t *testing.T) {
	resultRepo := memory.NewResultRepository(memory.NewPlayerRepository())
	gate := ratelimit.NewFixedWindowGate(map[string]ratelimit.ClassConfig{
		ratelimit.ClassSubmission: {MaxRequests: 1, Window: time.Minute},
	})

	service := usecase.NewSubmissionService(
		gate,
		game.DefaultRules(),
		resultRepo,
		&sequenceIDGenerator{ids: []string{"result-001", "result-002"}},
		nil,
		nil,
		logging.NewNop(),
	)

	if _, err := service.Submit(t.Context(), "10.0.0.1", acceptableSubmission()); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err := service.Submit(t.Context(), "10.0.0.1", acceptableSubmission())
	if !errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("expected rate limit rejection, got %v", err)
	}
	if got := err.Error(); got != "Rate limit exceeded. Too many score-submission requests." {
		t.Fatalf("unexpected rejection message: %q", got)
	}

	count, _ := resultRepo.Count(t.Context())
	if count != 1 {
		t.Fatalf("denied submission must not be stored, have %d results", count)
	}

	// A different caller still has a fresh budget.
	if _, err := service.Submit(t.Context(), "10.0.0.2", acceptableSubmission()); err != nil {
		t.Fatalf("independent caller was throttled: %v", err)
	}
}

func TestSubmissionService_Submit_RejectsImplausibleRun(t *testing.T) {
	resultRepo := memory.NewResultRepository(memory.NewPlayerRepository())

	service := usecase.NewSubmissionService(
		openSubmissionGate(),
		game.DefaultRules(),
		resultRepo,
		staticIDGenerator{id: "result-001"},
		nil,
		nil,
		logging.NewNop(),
	)

	sub := acceptableSubmission()
	sub.FinalBugs = 2

	_, err := service.Submit(t.Context(), "10.0.0.1", sub)
	if !errors.Is(err, game.ErrGameEndedWithBugs) {
		t.Fatalf("expected bug rule rejection, got %v", err)
	}

	count, _ := resultRepo.Count(t.Context())
	if count != 0 {
		t.Fatalf("rejected submission must leave no state, have %d results", count)
	}
}

func TestSubmissionService_Submit_PublisherFailureIsNonFatal(t *testing.T) {
	resultRepo := memory.NewResultRepository(memory.NewPlayerRepository())
	publisher := &recordingPublisher{err: errors.New("sink offline")}

	service := usecase.NewSubmissionService(
		openSubmissionGate(),
		game.DefaultRules(),
		resultRepo,
		staticIDGenerator{id: "result-001"},
		publisher,
		nil,
		logging.NewNop(),
	)

	stored, err := service.Submit(t.Context(), "10.0.0.1", acceptableSubmission())
	if err != nil {
		t.Fatalf("submit must succeed despite the sink failure: %v", err)
	}
	if stored.ID != "result-001" {
		t.Fatalf("unexpected stored result: %+v", stored)
	}
}

func TestSubmissionService_Submit_DuplicateIDConflicts(t *testing.T) {
	resultRepo := memory.NewResultRepository(memory.NewPlayerRepository())

	service := usecase.NewSubmissionService(
		openSubmissionGate(),
		game.DefaultRules(),
		resultRepo,
		staticIDGenerator{id: "result-001"},
		nil,
		nil,
		logging.NewNop(),
	)

	if _, err := service.Submit(t.Context(), "10.0.0.1", acceptableSubmission()); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err := service.Submit(t.Context(), "10.0.0.1", acceptableSubmission())
	if !errors.Is(err, usecase.ErrConflict) {
		t.Fatalf("expected conflict on duplicate id, got %v", err)
	}
}

func TestSubmissionService_Submit_InvalidatesLeaderboardCache(t *testing.T) {
	stats := memory.NewPlayerRepository()
	resultRepo := memory.NewResultRepository(stats)
	cacheStore := cache.NewStore(time.Hour)

	submissions := usecase.NewSubmissionService(
		openSubmissionGate(),
		game.DefaultRules(),
		resultRepo,
		&sequenceIDGenerator{ids: []string{"result-001", "result-002"}},
		nil,
		cacheStore,
		logging.NewNop(),
	)
	leaderboard := usecase.NewLeaderboardService(resultRepo, stats, cacheStore, logging.NewNop())

	if _, err := submissions.Submit(t.Context(), "10.0.0.1", acceptableSubmission()); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	page, err := leaderboard.Page(t.Context(), 10, 0)
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 result on the board, got %d", page.Total)
	}

	second := acceptableSubmission()
	second.PlayerID = "player-2"
	if _, err := submissions.Submit(t.Context(), "10.0.0.2", second); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	page, err = leaderboard.Page(t.Context(), 10, 0)
	if err != nil {
		t.Fatalf("page after invalidation failed: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected the cached page to be invalidated, total=%d", page.Total)
	}
}
