package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/models"
)

type PunishmentIssueRequest struct {
	Reason     models.PunishmentReason `json:"reason" validate:"required"`
	Offence    int                     `json:"offence"`
	Action     models.PunishmentAction `json:"action" validate:"required"`
	Silent     bool                    `json:"silent"`
	Note       *string                 `json:"note"`
	Punisher   *models.SimplePlayer    `json:"punisher"`
	TargetName string                  `json:"targetName" validate:"required"`
	TargetIPs  []string                `json:"targetIps"`
}

// IssuePunishment creates a punishment against the named player and fires
// the punishments webhook.
func (h *Handler) IssuePunishment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PunishmentIssueRequest
	if !h.decode(w, r, &req) {
		return
	}

	target, ok := h.players.Get(ctx, req.TargetName)
	if !ok {
		h.missingPlayer(w)
		return
	}

	serverID := callingServerID(ctx)
	punishment := models.Punishment{
		ID:        uuid.NewString(),
		Reason:    req.Reason,
		IssuedAt:  nowMillis(),
		Silent:    req.Silent,
		Offence:   req.Offence,
		Action:    req.Action,
		Note:      req.Note,
		Punisher:  req.Punisher,
		Target:    target.Simple(),
		TargetIPs: req.TargetIPs,
		ServerID:  &serverID,
	}
	if err := h.db.InsertOne(ctx, h.db.Punishments, &punishment); err != nil {
		h.logger.Errorw("Failed to insert punishment", "punishment", punishment.ID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, codeInternalServerError, "Could not store punishment")
		return
	}
	h.webhooks.SendPunishment(&punishment)

	h.jsonResponse(w, http.StatusCreated, punishment)
}

func (h *Handler) GetPlayerPunishments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}
	h.jsonResponse(w, http.StatusOK, h.db.PlayerPunishments(ctx, player))
}

// GetPunishmentTypes serves the staff punishment presets from the data
// files.
func (h *Handler) GetPunishmentTypes(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.data.PunishmentTypes)
}

func (h *Handler) GetPunishment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	punishment, ok := database.FindByID[models.Punishment](ctx, h.db.Punishments, chi.URLParam(r, "punishmentID"))
	if !ok {
		h.missingPunishment(w)
		return
	}
	h.jsonResponse(w, http.StatusOK, punishment)
}

type PunishmentRevertRequest struct {
	Reverter models.SimplePlayer `json:"reverter" validate:"required"`
	Reason   string              `json:"reason" validate:"required"`
}

// RevertPunishment marks a punishment as reverted; reverted punishments are
// never active again.
func (h *Handler) RevertPunishment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PunishmentRevertRequest
	if !h.decode(w, r, &req) {
		return
	}

	punishment, ok := database.FindByID[models.Punishment](ctx, h.db.Punishments, chi.URLParam(r, "punishmentID"))
	if !ok {
		h.missingPunishment(w)
		return
	}
	punishment.Reversion = &models.PunishmentReversion{
		RevertedAt: nowMillis(),
		Reverter:   req.Reverter,
		Reason:     req.Reason,
	}
	if err := h.db.Save(ctx, h.db.Punishments, punishment.ID, punishment); err != nil {
		h.logger.Errorw("Failed to revert punishment", "punishment", punishment.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, punishment)
}
