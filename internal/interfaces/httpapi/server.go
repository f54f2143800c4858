package httpapi

import (
	"net/http"

	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/devstack-game/leaderboard/internal/platform/ratelimit"
)

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	gate ratelimit.Admitter,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.Healthz)

	mux.Handle("GET /v1/leaderboard", GeneralRateLimit(gate, http.HandlerFunc(handler.GetLeaderboard)))
	mux.Handle("GET /v1/players/{playerID}/results", GeneralRateLimit(gate, http.HandlerFunc(handler.GetPlayerResults)))
	mux.Handle("GET /v1/players/{playerID}/stats", GeneralRateLimit(gate, http.HandlerFunc(handler.GetPlayerStats)))

	// The submission limiter class is enforced inside the pipeline; the
	// general class still applies here so score posts share the per-IP
	// request budget.
	mux.Handle("POST /v1/scores", GeneralRateLimit(gate, RequireAuth(verifier, http.HandlerFunc(handler.SubmitScore))))

	mux.Handle("POST /internal/jobs/recount-stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecountPlayerStats)))

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
