package socket

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/leaderboard"
	"github.com/warzonemc/mars-api/internal/models"
)

// State is the shared application state the socket layer operates on.
type State struct {
	DB           *database.Database
	Redis        *redis.Client
	Players      *database.Cache[models.Player]
	Matches      *database.Cache[models.Match]
	Leaderboards *leaderboard.Leaderboards
	Logger       *zap.SugaredLogger
}

// Conn is the slice of *websocket.Conn the outbound path needs.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// ServerContext is the per-connection handle for one game server: its
// identity, the shared state, and the socket for plugin-bound emits.
type ServerContext struct {
	ID    string
	State *State
	Conn  Conn
}

func (s *ServerContext) currentMatchIDKey() string {
	return fmt.Sprintf("server:%s:current_match_id", s.ID)
}

func (s *ServerContext) lastAliveTimeKey() string {
	return fmt.Sprintf("server:%s:last_alive_time", s.ID)
}

func (s *ServerContext) SetCurrentMatchID(ctx context.Context, matchID string) {
	s.State.Redis.Set(ctx, s.currentMatchIDKey(), matchID, 0)
}

func (s *ServerContext) SetLastAliveTime(ctx context.Context, millis int64) {
	s.State.Redis.Set(ctx, s.lastAliveTimeKey(), millis, 0)
}

func (s *ServerContext) CurrentMatchID(ctx context.Context) (string, bool) {
	id, err := s.State.Redis.Get(ctx, s.currentMatchIDKey()).Result()
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// Match loads the server's current match document from the match cache.
func (s *ServerContext) Match(ctx context.Context) (*models.Match, bool) {
	id, ok := s.CurrentMatchID(ctx)
	if !ok {
		return nil, false
	}
	return s.State.Matches.Query(ctx, id)
}

// Call emits a plugin-bound packet on this server's connection.
func (s *ServerContext) Call(event EventType, data any) {
	frame, err := EncodePacket(event, data)
	if err != nil {
		s.State.Logger.Errorw("Failed to encode outbound packet", "server", s.ID, "event", event, "error", err)
		return
	}
	if err := s.Conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		s.State.Logger.Warnw("Failed to write outbound packet", "server", s.ID, "event", event, "error", err)
	}
}

// SendMessage delivers a chat message to a single player on this server.
func (s *ServerContext) SendMessage(player *models.Player, message string, sound *string) {
	s.Call(EventMessage, MessageData{
		Message:   message,
		Sound:     sound,
		PlayerIDs: []string{player.ID},
	})
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
