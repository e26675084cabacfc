package handler

import (
	"net/http"
	"strconv"

	"github.com/ryanadelino-stack/compiler-api/internal/api/respond"
	"github.com/ryanadelino-stack/compiler-api/internal/history"
)

// ListRuns returns recent compile runs, newest first.
// @Summary List compile runs
// @Description Returns the most recent compile runs recorded by the history store.
// @Tags history
// @Produce json
// @Param limit query int false "Maximum rows (default 50, max 500)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidLimit, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.history.List(r.Context(), limit)
	if err != nil {
		h.log.Error("Failed to list compile runs", "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeHistoryUnavailable, "Compile history is unavailable")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}
