package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warzonemc/mars-api/internal/models"
)

type ReportCreateRequest struct {
	Reporter    models.SimplePlayer `json:"reporter" validate:"required"`
	Target      models.SimplePlayer `json:"target" validate:"required"`
	Reason      string              `json:"reason" validate:"required"`
	OnlineStaff []string            `json:"onlineStaff"`
}

// CreateReport forwards an in-game report to the reports webhook.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportCreateRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.webhooks.SendReport(callingServerID(r.Context()), req.Reporter, req.Target, req.Reason, req.OnlineStaff)
	h.jsonResponse(w, http.StatusOK, map[string]any{})
}

func (h *Handler) GetBroadcasts(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.data.Broadcasts)
}

func (h *Handler) GetLevelColors(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.data.LevelColors)
}

func (h *Handler) GetJoinSounds(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.data.JoinSounds)
}

type JoinSoundSetRequest struct {
	ActiveJoinSoundID *string `json:"activeJoinSoundId"`
}

// SetJoinSound equips or clears a player's join sound.
func (h *Handler) SetJoinSound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")

	var req JoinSoundSetRequest
	if !h.decode(w, r, &req) {
		return
	}

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}
	if equalStringPtr(player.ActiveJoinSoundID, req.ActiveJoinSoundID) {
		h.jsonResponse(w, http.StatusOK, player)
		return
	}
	player.ActiveJoinSoundID = req.ActiveJoinSoundID
	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store join sound", "player", player.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, player)
}

// GetMatch serves the cached match document.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	m, ok := h.matches.Get(r.Context(), matchID)
	if !ok {
		h.validationError(w)
		return
	}
	h.jsonResponse(w, http.StatusOK, m)
}

func decodeServerEvents(raw string, out *models.ServerEvents) {
	json.Unmarshal([]byte(raw), out)
}
