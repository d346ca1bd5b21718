package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const serverIDKey contextKey = "server_id"

// Error codes surfaced in the JSON error body.
const (
	codeInternalServerError = "INTERNAL_SERVER_ERROR"
	codeUnauthorized        = "UNAUTHORIZED_EXCEPTION"
	codeValidationError     = "VALIDATION_ERROR"
	codeSessionMissing      = "SESSION_MISSING"
	codeSessionInactive     = "SESSION_INACTIVE"
	codePlayerMissing       = "PLAYER_MISSING"
	codeRankConflict        = "RANK_CONFLICT"
	codeRankMissing         = "RANK_MISSING"
	codeRankAlreadyPresent  = "RANK_ALREADY_PRESENT"
	codeRankNotPresent      = "RANK_NOT_PRESENT"
	codeTagConflict         = "TAG_CONFLICT"
	codeTagMissing          = "TAG_MISSING"
	codeTagAlreadyPresent   = "TAG_ALREADY_PRESENT"
	codeTagNotPresent       = "TAG_NOT_PRESENT"
	codeMapMissing          = "MAP_MISSING"
	codePunishmentMissing   = "PUNISHMENT_MISSING"
	codeNoteMissing         = "NOTE_MISSING"
	codeAnonymous           = "ANONYMOUS"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, code, message string) {
	h.jsonResponse(w, status, apiError{Code: code, Message: message, Error: true})
}

func (h *Handler) unauthorized(w http.ResponseWriter) {
	h.errorResponse(w, http.StatusUnauthorized, codeUnauthorized, "API credentials are missing or invalid")
}

func (h *Handler) validationError(w http.ResponseWriter) {
	h.validationErrorMessage(w, "Validation failed")
}

func (h *Handler) validationErrorMessage(w http.ResponseWriter, message string) {
	h.errorResponse(w, http.StatusBadRequest, codeValidationError, message)
}

func (h *Handler) missingPlayer(w http.ResponseWriter) {
	h.errorResponse(w, http.StatusNotFound, codePlayerMissing, "The player does not exist")
}

func (h *Handler) missingRank(w http.ResponseWriter) {
	h.errorResponse(w, http.StatusNotFound, codeRankMissing, "The rank does not exist")
}

func (h *Handler) missingTag(w http.ResponseWriter) {
	h.errorResponse(w, http.StatusNotFound, codeTagMissing, "The tag does not exist")
}

func (h *Handler) missingMap(w http.ResponseWriter) {
	h.errorResponse(w, http.StatusNotFound, codeMapMissing, "The map does not exist")
}

func (h *Handler) missingPunishment(w http.ResponseWriter) {
	h.errorResponse(w, http.StatusNotFound, codePunishmentMissing, "The punishment does not exist")
}

func (h *Handler) missingNote(w http.ResponseWriter) {
	h.errorResponse(w, http.StatusNotFound, codeNoteMissing, "The note does not exist")
}

// AuthMiddleware enforces the static API token and records the calling
// server's identity in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "API-Token ")
		if header == "" || token == header || token != h.token {
			h.unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), serverIDKey, r.Header.Get("Mars-Server-ID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callingServerID is the server identity the auth middleware recorded.
func callingServerID(ctx context.Context) string {
	id, _ := ctx.Value(serverIDKey).(string)
	return id
}

// hashIP hashes addresses before they touch storage, when enabled.
func (h *Handler) hashIP(ip string) string {
	if !h.enableIPHashing {
		return ip
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(out); err != nil {
		h.validationError(w)
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		h.validationError(w)
		return false
	}
	return true
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
