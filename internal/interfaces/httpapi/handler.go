package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/devstack-game/leaderboard/internal/platform/logging"
	"github.com/devstack-game/leaderboard/internal/usecase"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	submissionService  *usecase.SubmissionService
	leaderboardService *usecase.LeaderboardService
	recountService     *usecase.RecountService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	submissionService *usecase.SubmissionService,
	leaderboardService *usecase.LeaderboardService,
	recountService *usecase.RecountService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		submissionService:  submissionService,
		leaderboardService: leaderboardService,
		recountService:     recountService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// validateRequest enforces the static field-range schema. Cross-field
// plausibility stays out of here: that is the pipeline's job.
func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
