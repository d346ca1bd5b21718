package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/models"
)

type MapLoadOneRequest struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Version      string                    `json:"version"`
	Gamemodes    []string                  `json:"gamemodes"`
	Authors      []models.LevelContributor `json:"authors"`
	Contributors []models.LevelContributor `json:"contributors"`
}

// AddMaps bulk-registers the maps a server has on disk, updating rows that
// already exist by name and creating the rest. Records survive updates.
func (h *Handler) AddMaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var maps []MapLoadOneRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&maps); err != nil {
		h.validationError(w)
		return
	}

	now := nowMillis()
	saved := 0
	for _, m := range maps {
		level, found := database.FindByName[models.Level](ctx, h.db.Levels, m.Name)
		if found {
			level.Name = m.Name
			level.NameLower = strings.ToLower(m.Name)
			level.Version = m.Version
			level.Gamemodes = m.Gamemodes
			level.Authors = m.Authors
			level.Contributors = m.Contributors
			level.UpdatedAt = now
		} else {
			level = &models.Level{
				ID:           m.ID,
				Name:         m.Name,
				NameLower:    strings.ToLower(m.Name),
				Version:      m.Version,
				Gamemodes:    m.Gamemodes,
				LoadedAt:     now,
				UpdatedAt:    now,
				Authors:      m.Authors,
				Contributors: m.Contributors,
			}
		}
		if err := h.db.Save(ctx, h.db.Levels, level.ID, level); err != nil {
			h.logger.Errorw("Failed to save map", "map", level.ID, "error", err)
			continue
		}
		saved++
	}

	h.logger.Infow("Received maps", "received", len(maps), "saved", saved)
	h.jsonResponse(w, http.StatusOK, orEmpty(database.All[models.Level](ctx, h.db.Levels)))
}

func (h *Handler) GetMaps(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, orEmpty(database.All[models.Level](r.Context(), h.db.Levels)))
}

func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	level, ok := database.FindByID[models.Level](r.Context(), h.db.Levels, chi.URLParam(r, "mapID"))
	if !ok {
		h.missingMap(w)
		return
	}
	h.jsonResponse(w, http.StatusOK, level)
}
