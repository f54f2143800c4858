package app

import (
	"fmt"
	"net/http"

	"github.com/devstack-game/leaderboard/internal/config"
	"github.com/devstack-game/leaderboard/internal/domain/game"
	"github.com/devstack-game/leaderboard/internal/domain/player"
	"github.com/devstack-game/leaderboard/internal/domain/result"
	"github.com/devstack-game/leaderboard/internal/infrastructure/account/hermes"
	"github.com/devstack-game/leaderboard/internal/infrastructure/repository/memory"
	"github.com/devstack-game/leaderboard/internal/infrastructure/repository/postgres"
	"github.com/devstack-game/leaderboard/internal/infrastructure/webhook"
	"github.com/devstack-game/leaderboard/internal/interfaces/httpapi"
	"github.com/devstack-game/leaderboard/internal/platform/cache"
	idgen "github.com/devstack-game/leaderboard/internal/platform/id"
	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/devstack-game/leaderboard/internal/platform/ratelimit"
	"github.com/devstack-game/leaderboard/internal/platform/resilience"
	"github.com/devstack-game/leaderboard/internal/usecase"
)

// NewHTTPServer assembles the full service from configuration. The returned
// cleanup function releases resources the server does not own through its
// handler chain, currently just the database pool, and is safe to call after
// Shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanup := func() error { return nil }

	var (
		resultRepo result.Repository
		playerRepo player.Repository
	)
	if cfg.DBURL != "" {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		resultRepo = postgres.NewResultRepository(db)
		playerRepo = postgres.NewPlayerRepository(db)
		cleanup = db.Close
		logger.Info("storage backend ready", "backend", "postgres", "db", databaseNameFromURL(cfg.DBURL))
	} else {
		stats := memory.NewPlayerRepository()
		resultRepo = memory.NewResultRepository(stats)
		playerRepo = stats
		logger.Warn("DB_URL is empty, falling back to in-memory storage")
	}

	gate := ratelimit.NewFixedWindowGate(map[string]ratelimit.ClassConfig{
		ratelimit.ClassGeneral: {
			MaxRequests: cfg.RateLimitGeneralMax,
			Window:      cfg.RateLimitGeneralWindow,
		},
		ratelimit.ClassSubmission: {
			MaxRequests: cfg.RateLimitSubmissionMax,
			Window:      cfg.RateLimitSubmissionWindow,
		},
	})

	rules := game.Rules{
		BaseScore:          cfg.ScoreBase,
		MaxRounds:          cfg.ScoreMaxRounds,
		PerRoundBonus:      cfg.ScorePerRoundBonus,
		MinSecondsPerRound: cfg.MinSecondsPerRound,
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	var publisher usecase.AcceptedPublisher
	if cfg.WebhookEnabled {
		publisher = webhook.NewPublisher(webhook.PublisherConfig{
			SinkURL:      cfg.WebhookSinkURL,
			SigningToken: cfg.WebhookToken,
			Timeout:      cfg.WebhookTimeout,
			MaxAttempts:  cfg.WebhookMaxAttempts,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	submissionSvc := usecase.NewSubmissionService(
		gate,
		rules,
		resultRepo,
		idgen.NewRandomGenerator(),
		publisher,
		cacheStore,
		logger,
	)
	leaderboardSvc := usecase.NewLeaderboardService(resultRepo, playerRepo, cacheStore, logger)
	recountSvc := usecase.NewRecountService(resultRepo, playerRepo, cfg.RecountMaxWorkers, logger)

	hermesClient := hermes.NewClient(
		&http.Client{Timeout: cfg.HermesTimeout},
		hermes.ClientConfig{
			BaseURL:        cfg.HermesBaseURL,
			IntrospectPath: cfg.HermesIntrospectPath,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.HermesCircuitEnabled,
				FailureThreshold: cfg.HermesCircuitFailureCount,
				OpenTimeout:      cfg.HermesCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.HermesCircuitHalfOpenMaxReq,
			},
		},
		logger,
	)

	handler := httpapi.NewHandler(submissionSvc, leaderboardSvc, recountSvc, logger)
	router := httpapi.NewRouter(handler, hermesClient, gate, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}
