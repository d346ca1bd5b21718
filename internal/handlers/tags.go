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

type TagCreateRequest struct {
	Name    string `json:"name" validate:"required"`
	Display string `json:"display" validate:"required"`
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TagCreateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, exists := database.FindByIDOrName[models.Tag](ctx, h.db.Tags, req.Name); exists {
		h.errorResponse(w, http.StatusConflict, codeTagConflict, "A tag already exists with that name")
		return
	}

	tag := models.Tag{
		ID:        uuid.NewString(),
		Name:      req.Name,
		NameLower: strings.ToLower(req.Name),
		Display:   req.Display,
		CreatedAt: nowMillis(),
	}
	if err := h.db.Save(ctx, h.db.Tags, tag.ID, &tag); err != nil {
		h.logger.Errorw("Failed to save tag", "tag", tag.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusCreated, tag)
}

func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, orEmpty(database.All[models.Tag](r.Context(), h.db.Tags)))
}

func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	tag, ok := database.FindByIDOrName[models.Tag](r.Context(), h.db.Tags, chi.URLParam(r, "tagID"))
	if !ok {
		h.missingTag(w)
		return
	}
	h.jsonResponse(w, http.StatusOK, tag)
}

func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tagID := chi.URLParam(r, "tagID")

	var req TagCreateRequest
	if !h.decode(w, r, &req) {
		return
	}

	existing, ok := database.FindByIDOrName[models.Tag](ctx, h.db.Tags, tagID)
	if !ok {
		h.missingTag(w)
		return
	}

	updated := models.Tag{
		ID:        existing.ID,
		Name:      req.Name,
		NameLower: strings.ToLower(req.Name),
		Display:   req.Display,
		CreatedAt: existing.CreatedAt,
	}
	if err := h.db.Save(ctx, h.db.Tags, updated.ID, &updated); err != nil {
		h.logger.Errorw("Failed to update tag", "tag", updated.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, updated)
}

// DeleteTag removes the tag, strips it from every owner and clears it where
// it was equipped.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tagID := chi.URLParam(r, "tagID")

	if h.db.DeleteByID(ctx, h.db.Tags, tagID) == 0 {
		h.missingTag(w)
		return
	}

	affected := database.FindAll[models.Player](ctx, h.db.Players, bson.M{"tagIds": tagID})
	names := make([]string, 0, len(affected))
	for i := range affected {
		player := &affected[i]
		kept := player.TagIDs[:0]
		for _, id := range player.TagIDs {
			if id != tagID {
				kept = append(kept, id)
			}
		}
		player.TagIDs = kept
		if player.ActiveTagID != nil && *player.ActiveTagID == tagID {
			player.ActiveTagID = nil
		}
		if err := h.players.Set(ctx, player.Name, player, true); err != nil {
			h.logger.Errorw("Failed to strip deleted tag", "player", player.ID, "error", err)
		}
		names = append(names, player.ID+" ("+player.Name+")")
	}

	h.logger.Infow("Tag deleted", "tag", tagID, "affectedPlayers", strings.Join(names, ", "))
	h.jsonResponse(w, http.StatusOK, map[string]any{})
}
