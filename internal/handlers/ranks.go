package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/models"
)

type RankCreateRequest struct {
	Name        string   `json:"name" validate:"required"`
	DisplayName *string  `json:"displayName"`
	Prefix      *string  `json:"prefix"`
	Priority    int      `json:"priority"`
	Permissions []string `json:"permissions"`
	Staff       bool     `json:"staff"`
	ApplyOnJoin bool     `json:"applyOnJoin"`
}

func (h *Handler) CreateRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RankCreateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, exists := database.FindByName[models.Rank](ctx, h.db.Ranks, req.Name); exists {
		h.errorResponse(w, http.StatusConflict, codeRankConflict, "A rank already exists with that name")
		return
	}

	rank := models.Rank{
		ID:          uuid.NewString(),
		Name:        req.Name,
		NameLower:   strings.ToLower(req.Name),
		DisplayName: req.DisplayName,
		Prefix:      req.Prefix,
		Priority:    req.Priority,
		Permissions: dedupe(req.Permissions),
		Staff:       req.Staff,
		ApplyOnJoin: req.ApplyOnJoin,
		CreatedAt:   nowMillis(),
	}
	if err := h.db.Save(ctx, h.db.Ranks, rank.ID, &rank); err != nil {
		h.logger.Errorw("Failed to save rank", "rank", rank.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusCreated, rank)
}

func (h *Handler) GetRanks(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, orEmpty(database.All[models.Rank](r.Context(), h.db.Ranks)))
}

func (h *Handler) GetRank(w http.ResponseWriter, r *http.Request) {
	rank, ok := database.FindByID[models.Rank](r.Context(), h.db.Ranks, chi.URLParam(r, "rankID"))
	if !ok {
		h.missingRank(w)
		return
	}
	h.jsonResponse(w, http.StatusOK, rank)
}

func (h *Handler) UpdateRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rankID := chi.URLParam(r, "rankID")

	var req RankCreateRequest
	if !h.decode(w, r, &req) {
		return
	}

	existing, ok := database.FindByID[models.Rank](ctx, h.db.Ranks, rankID)
	if !ok {
		h.missingRank(w)
		return
	}
	if conflict, found := database.FindByName[models.Rank](ctx, h.db.Ranks, req.Name); found && conflict.ID != existing.ID {
		h.errorResponse(w, http.StatusConflict, codeRankConflict, "A rank already exists with that name")
		return
	}

	updated := models.Rank{
		ID:          existing.ID,
		Name:        req.Name,
		NameLower:   strings.ToLower(req.Name),
		DisplayName: req.DisplayName,
		Prefix:      req.Prefix,
		Priority:    req.Priority,
		Permissions: dedupe(req.Permissions),
		Staff:       req.Staff,
		ApplyOnJoin: req.ApplyOnJoin,
		CreatedAt:   existing.CreatedAt,
	}
	if err := h.db.Save(ctx, h.db.Ranks, updated.ID, &updated); err != nil {
		h.logger.Errorw("Failed to update rank", "rank", updated.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, updated)
}

// DeleteRank removes the rank and strips it from every player holding it.
func (h *Handler) DeleteRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rankID := chi.URLParam(r, "rankID")

	if h.db.DeleteByID(ctx, h.db.Ranks, rankID) == 0 {
		h.missingRank(w)
		return
	}

	affected := database.FindAll[models.Player](ctx, h.db.Players, bson.M{"rankIds": rankID})
	names := make([]string, 0, len(affected))
	for i := range affected {
		player := &affected[i]
		kept := player.RankIDs[:0]
		for _, id := range player.RankIDs {
			if id != rankID {
				kept = append(kept, id)
			}
		}
		player.RankIDs = kept
		if err := h.players.Set(ctx, player.Name, player, true); err != nil {
			h.logger.Errorw("Failed to strip deleted rank", "player", player.ID, "error", err)
		}
		names = append(names, player.ID+" ("+player.Name+")")
	}

	h.logger.Infow("Rank deleted", "rank", rankID, "affectedPlayers", strings.Join(names, ", "))
	h.jsonResponse(w, http.StatusOK, map[string]any{})
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// orEmpty keeps list endpoints returning [] instead of null.
func orEmpty[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
