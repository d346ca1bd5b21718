package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/leaderboard"
	"github.com/warzonemc/mars-api/internal/models"
)

type PlayerPreLoginRequest struct {
	Player models.SimplePlayer `json:"player" validate:"required"`
	IP     string              `json:"ip" validate:"required"`
}

type PlayerPreLoginResponse struct {
	New               bool                `json:"new"`
	Allowed           bool                `json:"allowed"`
	Player            models.Player       `json:"player"`
	ActivePunishments []models.Punishment `json:"activePunishments"`
}

// PreLogin owns player creation and the ban gate. It runs before the player
// finishes joining a server.
func (h *Handler) PreLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")

	var req PlayerPreLoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Player.ID != playerID {
		h.validationError(w)
		return
	}

	ip := h.hashIP(req.IP)
	now := nowMillis()

	player, found := database.FindByID[models.Player](ctx, h.db.Players, req.Player.ID)
	if !found {
		fresh := models.NewPlayer(req.Player.ID, req.Player.Name, ip, now)
		if err := h.players.Set(ctx, fresh.Name, &fresh, true); err != nil {
			h.logger.Errorw("Failed to store new player", "player", fresh.ID, "error", err)
		}
		h.db.EnsurePlayerNameUniqueness(ctx, req.Player.Name, req.Player.ID)

		h.jsonResponse(w, http.StatusCreated, PlayerPreLoginResponse{
			New:               true,
			Allowed:           true,
			Player:            fresh,
			ActivePunishments: []models.Punishment{},
		})
		return
	}

	player.Name = req.Player.Name
	player.NameLower = strings.ToLower(player.Name)
	hasIP := false
	for _, known := range player.IPs {
		if known == ip {
			hasIP = true
			break
		}
	}
	if !hasIP {
		player.IPs = append(player.IPs, ip)
	}

	puns := h.db.ActivePlayerPunishments(ctx, player, now)
	banned := false
	for _, pun := range puns {
		if pun.Action.IsBan() {
			banned = true
			break
		}
	}
	for _, pun := range h.db.IPBans(ctx, ip) {
		if pun.IsActive(now) {
			banned = true
			puns = append(puns, pun)
		}
	}

	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store returning player", "player", player.ID, "error", err)
	}
	h.db.EnsurePlayerNameUniqueness(ctx, req.Player.Name, req.Player.ID)

	h.jsonResponse(w, http.StatusOK, PlayerPreLoginResponse{
		New:               false,
		Allowed:           !banned,
		Player:            *player,
		ActivePunishments: puns,
	})
}

type PlayerLoginRequest struct {
	Player models.SimplePlayer `json:"player" validate:"required"`
	IP     string              `json:"ip" validate:"required"`
}

type PlayerLoginResponse struct {
	ActiveSession models.Session `json:"activeSession"`
}

// Login opens a session and applies the default ranks.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")

	var req PlayerLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	player, ok := h.players.Get(ctx, req.Player.Name)
	if !ok {
		h.missingPlayer(w)
		return
	}
	if playerID != player.ID || player.ID != req.Player.ID {
		h.validationError(w)
		return
	}

	now := nowMillis()
	session := models.Session{
		ID:        uuid.NewString(),
		Player:    player.Simple(),
		IP:        h.hashIP(req.IP),
		ServerID:  callingServerID(ctx),
		CreatedAt: now,
	}
	if err := h.db.Save(ctx, h.db.Sessions, session.ID, &session); err != nil {
		h.logger.Errorw("Failed to save session", "session", session.ID, "error", err)
	}

	for _, rank := range h.db.DefaultRanks(ctx) {
		present := false
		for _, id := range player.RankIDs {
			if id == rank.ID {
				present = true
				break
			}
		}
		if !present {
			player.RankIDs = append(player.RankIDs, rank.ID)
		}
	}

	player.LastJoinedAt = now
	sessionID := session.ID
	player.LastSessionID = &sessionID

	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store player on login", "player", player.ID, "error", err)
	}

	h.jsonResponse(w, http.StatusCreated, PlayerLoginResponse{ActiveSession: session})
}

type PlayerLogoutRequest struct {
	Player    models.SimplePlayer `json:"player" validate:"required"`
	SessionID string              `json:"sessionId" validate:"required"`
	Playtime  int64               `json:"playtime"`
}

// Logout closes the session and records the visit's playtime.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PlayerLogoutRequest
	if !h.decode(w, r, &req) {
		return
	}

	player, ok := h.players.Get(ctx, req.Player.Name)
	if !ok {
		h.missingPlayer(w)
		return
	}
	session, ok := h.db.FindSessionForPlayer(ctx, player, req.SessionID)
	if !ok {
		h.errorResponse(w, http.StatusNotFound, codeSessionMissing, "The session does not exist")
		return
	}
	if !session.IsActive() {
		h.errorResponse(w, http.StatusNotFound, codeSessionInactive, "The session is not active")
		return
	}

	now := nowMillis()
	session.EndedAt = &now
	player.Stats.ServerPlaytime += req.Playtime

	h.leaderboards.ServerPlaytime.Increment(ctx, player.IDName(), req.Playtime)

	record := player.Stats.Records.LongestSession
	if record == nil || req.Playtime > record.Length {
		player.Stats.Records.LongestSession = &models.SessionRecord{
			SessionID: session.ID,
			Length:    req.Playtime,
		}
	}

	if err := h.db.Save(ctx, h.db.Sessions, session.ID, session); err != nil {
		h.logger.Errorw("Failed to close session", "session", session.ID, "error", err)
	}
	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store player on logout", "player", player.ID, "error", err)
	}

	h.jsonResponse(w, http.StatusOK, map[string]any{})
}

// profileLeaderboards are the metrics included in profile position lookups.
func profileLeaderboards(lbs *leaderboard.Leaderboards) []*leaderboard.Leaderboard {
	return []*leaderboard.Leaderboard{
		lbs.Kills, lbs.Deaths, lbs.FirstBloods, lbs.Wins, lbs.Losses,
		lbs.Ties, lbs.XP, lbs.MatchesPlayed, lbs.CoreLeaks,
		lbs.CoreBlockDestroys, lbs.DestroyableDestroys,
		lbs.DestroyableBlockDestroys, lbs.FlagCaptures, lbs.FlagPickups,
		lbs.FlagDrops, lbs.FlagDefends, lbs.FlagHoldTime, lbs.WoolCaptures,
		lbs.WoolPickups, lbs.WoolDrops, lbs.WoolDefends,
		lbs.ControlPointCaptures, lbs.HighestKillstreak,
	}
}

// PlayerProfile returns the sanitized profile, optionally with all-time
// leaderboard positions.
func (h *Handler) PlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := strings.ToLower(chi.URLParam(r, "playerID"))

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}
	profile := player.SanitizedCopy()

	if r.URL.Query().Get("includeLeaderboardPositions") != "true" {
		h.jsonResponse(w, http.StatusOK, profile)
		return
	}

	positions := map[leaderboard.ScoreType]int64{}
	for _, lb := range profileLeaderboards(h.leaderboards) {
		if rank, ok := lb.Position(ctx, player.IDName(), leaderboard.AllTime); ok {
			positions[lb.ScoreType] = rank
		}
	}
	h.jsonResponse(w, http.StatusOK, map[string]any{
		"player":               profile,
		"leaderboardPositions": positions,
	})
}

type PlayerLookupResponse struct {
	Player models.Player       `json:"player"`
	Alts   []PlayerAltResponse `json:"alts"`
}

type PlayerAltResponse struct {
	Player      models.Player       `json:"player"`
	Punishments []models.Punishment `json:"punishments"`
}

// LookupPlayer is the staff view: full profile plus accounts sharing ips.
func (h *Handler) LookupPlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}

	alts := []PlayerAltResponse{}
	if r.URL.Query().Get("includeAlts") == "true" {
		for _, alt := range h.db.AltsForPlayer(ctx, player) {
			alt := alt
			alts = append(alts, PlayerAltResponse{
				Player:      alt,
				Punishments: h.db.PlayerPunishments(ctx, &alt),
			})
		}
	}

	h.jsonResponse(w, http.StatusOK, PlayerLookupResponse{Player: *player, Alts: alts})
}

type PlayerAddNoteRequest struct {
	Author  models.SimplePlayer `json:"author" validate:"required"`
	Content string              `json:"content" validate:"required"`
}

func (h *Handler) AddPlayerNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")

	var req PlayerAddNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}

	noteID := 0
	for _, note := range player.Notes {
		if note.ID > noteID {
			noteID = note.ID
		}
	}
	note := models.StaffNote{
		ID:        noteID + 1,
		Author:    req.Author,
		Content:   req.Content,
		CreatedAt: nowMillis(),
	}
	player.Notes = append(player.Notes, note)

	if err := h.players.Set(ctx, playerID, player, true); err != nil {
		h.logger.Errorw("Failed to store note", "player", player.ID, "error", err)
	}
	h.webhooks.SendNewNote(player.Simple(), &note)

	h.jsonResponse(w, http.StatusCreated, player)
}

func (h *Handler) DeletePlayerNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")
	noteID := chi.URLParam(r, "noteID")

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}

	index := -1
	for i, note := range player.Notes {
		if noteID == strconv.Itoa(note.ID) {
			index = i
			break
		}
	}
	if index < 0 {
		h.missingNote(w)
		return
	}

	deleted := player.Notes[index]
	player.Notes = append(player.Notes[:index], player.Notes[index+1:]...)

	if err := h.players.Set(ctx, playerID, player, true); err != nil {
		h.logger.Errorw("Failed to delete note", "player", player.ID, "error", err)
	}
	h.webhooks.SendDeletedNote(player.Simple(), &deleted)

	h.jsonResponse(w, http.StatusOK, player)
}

type PlayerSetActiveTagRequest struct {
	ActiveTagID *string `json:"activeTagId"`
}

// SetActiveTag equips one of the player's owned tags, or clears it.
func (h *Handler) SetActiveTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")

	var req PlayerSetActiveTagRequest
	if !h.decode(w, r, &req) {
		return
	}

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}

	if equalStringPtr(req.ActiveTagID, player.ActiveTagID) {
		h.jsonResponse(w, http.StatusOK, player)
		return
	}

	if req.ActiveTagID == nil {
		player.ActiveTagID = nil
	} else {
		owned := false
		for _, id := range player.TagIDs {
			if id == *req.ActiveTagID {
				owned = true
				break
			}
		}
		if !owned {
			h.errorResponse(w, http.StatusNotFound, codeTagNotPresent, "The tag is not present in the list")
			return
		}
		player.ActiveTagID = req.ActiveTagID
	}

	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store active tag", "player", player.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, player)
}

func (h *Handler) AddPlayerTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")
	tagID := chi.URLParam(r, "tagID")

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}
	tag, ok := database.FindByIDOrName[models.Tag](ctx, h.db.Tags, tagID)
	if !ok {
		h.missingTag(w)
		return
	}

	for _, id := range player.TagIDs {
		if id == tag.ID {
			h.errorResponse(w, http.StatusConflict, codeTagAlreadyPresent, "The tag is already present in the list")
			return
		}
	}
	player.TagIDs = append(player.TagIDs, tag.ID)

	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store tag grant", "player", player.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, player)
}

func (h *Handler) DeletePlayerTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")
	tagID := chi.URLParam(r, "tagID")

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}
	tag, ok := database.FindByIDOrName[models.Tag](ctx, h.db.Tags, tagID)
	if !ok {
		h.missingTag(w)
		return
	}

	index := -1
	for i, id := range player.TagIDs {
		if id == tag.ID {
			index = i
			break
		}
	}
	if index < 0 {
		h.errorResponse(w, http.StatusNotFound, codeTagNotPresent, "The tag is not present in the list")
		return
	}
	player.TagIDs = append(player.TagIDs[:index], player.TagIDs[index+1:]...)
	if player.ActiveTagID != nil && *player.ActiveTagID == tag.ID {
		player.ActiveTagID = nil
	}

	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store tag removal", "player", player.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, player)
}

func (h *Handler) AddPlayerRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")
	rankID := chi.URLParam(r, "rankID")

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}
	rank, ok := database.FindByIDOrName[models.Rank](ctx, h.db.Ranks, rankID)
	if !ok {
		h.missingRank(w)
		return
	}

	for _, id := range player.RankIDs {
		if id == rank.ID {
			h.errorResponse(w, http.StatusConflict, codeRankAlreadyPresent, "The rank is already present in the list")
			return
		}
	}
	player.RankIDs = append(player.RankIDs, rank.ID)

	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store rank grant", "player", player.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, player)
}

func (h *Handler) DeletePlayerRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := chi.URLParam(r, "playerID")
	rankID := chi.URLParam(r, "rankID")

	player, ok := h.players.Get(ctx, playerID)
	if !ok {
		h.missingPlayer(w)
		return
	}
	rank, ok := database.FindByIDOrName[models.Rank](ctx, h.db.Ranks, rankID)
	if !ok {
		h.missingRank(w)
		return
	}

	index := -1
	for i, id := range player.RankIDs {
		if id == rank.ID {
			index = i
			break
		}
	}
	if index < 0 {
		h.errorResponse(w, http.StatusNotFound, codeRankNotPresent, "The rank is not present in the list")
		return
	}
	player.RankIDs = append(player.RankIDs[:index], player.RankIDs[index+1:]...)

	if err := h.players.Set(ctx, player.Name, player, true); err != nil {
		h.logger.Errorw("Failed to store rank removal", "player", player.ID, "error", err)
	}
	h.jsonResponse(w, http.StatusOK, player)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
