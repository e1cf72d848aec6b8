package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/football-elo/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStats")
	defer span.End()

	if h.statsService == nil {
		writeError(ctx, w, fmt.Errorf("%w: stats service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	overview, err := h.statsService.Overview(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "stats overview failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, overviewToDTO(overview))
}
