package httpapi

import (
	"fmt"
	"net/http"

	"github.com/devstack-game/leaderboard/internal/usecase"
)

func (h *Handler) RecountPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecountPlayerStats")
	defer span.End()

	if h.recountService == nil {
		writeError(ctx, w, fmt.Errorf("%w: recount service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.recountService.Recount(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "recount player stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
