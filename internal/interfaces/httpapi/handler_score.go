package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/devstack-game/leaderboard/internal/usecase"
)

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if h.submissionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: submission service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req submitScoreRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	stored, err := h.submissionService.Submit(ctx, resolveClientIP(r), req.toSubmission(principal))
	if err != nil {
		h.logger.WarnContext(ctx, "submit score failed", "player_id", principal.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	rank := 0
	if h.leaderboardService != nil {
		rank, err = h.leaderboardService.Rank(ctx, stored.Score, stored.CompletedAt)
		if err != nil {
			h.logger.WarnContext(ctx, "rank accepted result failed", "result_id", stored.ID, "error", err)
			rank = 0
		}
	}

	writeSuccess(ctx, w, http.StatusCreated, submitScoreResponseDTO{
		Result: resultToDTO(stored),
		Rank:   rank,
	})
}
