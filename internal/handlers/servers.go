package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warzonemc/mars-api/internal/models"
)

const endedMatchExpiry = time.Hour

// ServerStartup reconciles state left behind by an unclean shutdown: the
// dangling current match is rolled forward to the last-known alive time and
// orphaned sessions are closed with their playtime credited.
func (h *Handler) ServerStartup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serverID := chi.URLParam(r, "serverID")
	if serverID != callingServerID(ctx) {
		h.unauthorized(w)
		return
	}

	lastAliveKey := fmt.Sprintf("server:%s:last_alive_time", serverID)
	now := nowMillis()

	lastAlive, ok := h.redisInt64(r, lastAliveKey)
	if !ok {
		h.redis.Set(ctx, lastAliveKey, now, 0)
		h.jsonResponse(w, http.StatusOK, map[string]any{})
		return
	}

	if matchID, err := h.redis.Get(ctx, fmt.Sprintf("server:%s:current_match_id", serverID)).Result(); err == nil {
		if m, found := h.matches.Query(ctx, matchID); found {
			m.EndedAt = &lastAlive
			if err := h.matches.SetWithExpiry(ctx, m.ID, m, true, endedMatchExpiry); err != nil {
				h.logger.Errorw("Failed to roll forward match end", "match", m.ID, "error", err)
			}
		}
	}

	sessions := 0
	players := 0
	for _, session := range h.db.HangingSessions(ctx, serverID) {
		session := session
		session.EndedAt = &lastAlive
		if err := h.db.Save(ctx, h.db.Sessions, session.ID, &session); err != nil {
			h.logger.Errorw("Failed to close hanging session", "session", session.ID, "error", err)
			continue
		}
		sessions++

		player, found := h.players.Get(ctx, session.Player.Name)
		if !found {
			continue
		}
		if length, ok := session.Length(); ok {
			player.Stats.ServerPlaytime += length
		}
		if err := h.players.Set(ctx, player.Name, player, true); err != nil {
			h.logger.Errorw("Failed to credit hanging session", "player", player.ID, "error", err)
			continue
		}
		players++
	}

	h.redis.Set(ctx, lastAliveKey, nowMillis(), 0)
	h.logger.Infow("Reconciled server startup", "server", serverID, "players", players, "sessions", sessions)
	h.jsonResponse(w, http.StatusOK, map[string]any{})
}

type ServerStatusResponse struct {
	LastAliveTime int64        `json:"lastAliveTime"`
	CurrentMatch  models.Match `json:"currentMatch"`
	StatsTracking bool         `json:"statsTracking"`
}

func (h *Handler) ServerStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serverID := chi.URLParam(r, "serverID")

	lastAlive, ok := h.redisInt64(r, fmt.Sprintf("server:%s:last_alive_time", serverID))
	if !ok {
		h.errorResponse(w, http.StatusNotFound, codeAnonymous, "Last alive time unknown")
		return
	}
	matchID, err := h.redis.Get(ctx, fmt.Sprintf("server:%s:current_match_id", serverID)).Result()
	if err != nil {
		h.errorResponse(w, http.StatusNotFound, codeAnonymous, "No current match")
		return
	}
	m, found := h.matches.Query(ctx, matchID)
	if !found {
		h.errorResponse(w, http.StatusNotFound, codeAnonymous, "No current match")
		return
	}

	h.jsonResponse(w, http.StatusOK, ServerStatusResponse{
		LastAliveTime: lastAlive,
		CurrentMatch:  *m,
		StatsTracking: m.IsTrackingStats(),
	})
}

// ServerEvents returns the promotional event state, defaulting to an empty
// bundle.
func (h *Handler) ServerEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serverID := chi.URLParam(r, "serverID")

	events := models.ServerEvents{}
	if raw, err := h.redis.Get(ctx, fmt.Sprintf("server:%s:events", serverID)).Result(); err == nil {
		decodeServerEvents(raw, &events)
	}
	h.jsonResponse(w, http.StatusOK, events)
}

func (h *Handler) redisInt64(r *http.Request, key string) (int64, bool) {
	raw, err := h.redis.Get(r.Context(), key).Result()
	if err != nil {
		return 0, false
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
