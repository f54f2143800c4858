package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/devstack-game/leaderboard/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	if h.leaderboardService == nil {
		writeError(ctx, w, fmt.Errorf("%w: leaderboard service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.leaderboardService.Page(ctx, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "limit", limit, "offset", offset, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageToDTO(page))
}

func (h *Handler) GetPlayerResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerResults")
	defer span.End()

	if h.leaderboardService == nil {
		writeError(ctx, w, fmt.Errorf("%w: leaderboard service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	playerID := r.PathValue("playerID")
	entries, err := h.leaderboardService.PlayerHistory(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player results failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerStats")
	defer span.End()

	if h.leaderboardService == nil {
		writeError(ctx, w, fmt.Errorf("%w: leaderboard service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	playerID := r.PathValue("playerID")
	stats, err := h.leaderboardService.PlayerStats(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player stats failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTO(stats))
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}

	return value, nil
}
