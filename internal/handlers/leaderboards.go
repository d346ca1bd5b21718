package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warzonemc/mars-api/internal/leaderboard"
)

// publicScoreTypes is the allow-list of metrics exposed on the public
// leaderboard endpoint. Playtime and message totals stay internal.
var publicScoreTypes = map[leaderboard.ScoreType]bool{
	leaderboard.Kills:                    true,
	leaderboard.Deaths:                   true,
	leaderboard.FirstBloods:              true,
	leaderboard.Wins:                     true,
	leaderboard.Losses:                   true,
	leaderboard.Ties:                     true,
	leaderboard.XP:                       true,
	leaderboard.CoreLeaks:                true,
	leaderboard.CoreBlockDestroys:        true,
	leaderboard.DestroyableDestroys:      true,
	leaderboard.DestroyableBlockDestroys: true,
	leaderboard.FlagCaptures:             true,
	leaderboard.FlagDrops:                true,
	leaderboard.FlagPickups:              true,
	leaderboard.FlagDefends:              true,
	leaderboard.FlagHoldTime:             true,
	leaderboard.WoolCaptures:             true,
	leaderboard.WoolDrops:                true,
	leaderboard.WoolPickups:              true,
	leaderboard.WoolDefends:              true,
	leaderboard.ControlPointCaptures:     true,
	leaderboard.HighestKillstreak:        true,
}

// GetLeaderboard serves the top entries for a public metric and period.
// Limit defaults to 10 and is capped at 50.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	scoreType, ok := leaderboard.ParseScoreType(chi.URLParam(r, "scoreType"))
	if !ok {
		h.validationError(w)
		return
	}
	if !publicScoreTypes[scoreType] {
		h.unauthorized(w)
		return
	}
	period, ok := leaderboard.ParsePeriod(chi.URLParam(r, "period"))
	if !ok {
		h.validationError(w)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > leaderboard.MaxFetchLimit {
		limit = leaderboard.MaxFetchLimit
	}

	entries := h.leaderboards.ByScoreType(scoreType).FetchTop(r.Context(), period, limit)
	h.jsonResponse(w, http.StatusOK, entries)
}
