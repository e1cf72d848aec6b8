package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/football-elo/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	items, err := h.matchService.ListMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

func (h *Handler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatch")
	defer span.End()

	var req recordMatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.RecordMatch(ctx, usecase.RecordMatchInput{
		Label:          req.Name,
		Team1PlayerIDs: req.Team1Players,
		Team2PlayerIDs: req.Team2Players,
		Team1Score:     *req.Team1Score,
		Team2Score:     *req.Team2Score,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match failed",
			"team1", req.Team1Players,
			"team2", req.Team2Players,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, matchToDTO(result.Match))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchToDTO(item))
}
