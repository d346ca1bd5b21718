package socket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsRouted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mars_socket_events_routed_total",
		Help: "Total number of inbound events routed to handlers",
	})

	framesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mars_socket_frames_skipped_total",
		Help: "Total number of inbound frames dropped before routing",
	})

	connectedServers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mars_socket_connected_servers",
		Help: "Number of game servers currently connected",
	})
)

// Handler owns the /minecraft WebSocket endpoint: it authenticates the
// upgrade, then runs one read loop per connected game server.
type Handler struct {
	state    *State
	token    string
	upgrader websocket.Upgrader
}

func NewHandler(state *State, token string) *Handler {
	return &Handler{
		state: state,
		token: token,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Register mounts the socket endpoint on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/minecraft", h.serve)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	serverID := query.Get("id")
	token := query.Get("token")
	if serverID == "" || token == "" || token != h.token {
		h.rejectUpgrade(w)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.state.Logger.Warnw("WebSocket upgrade failed", "server", serverID, "error", err)
		return
	}

	h.state.Logger.Infow("Accepted WebSocket connection", "server", serverID)
	connectedServers.Inc()
	defer connectedServers.Dec()

	h.readLoop(serverID, conn)
}

// rejectUpgrade answers a failed handshake with the same JSON error body the
// HTTP surface uses.
func (h *Handler) rejectUpgrade(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"code":    "UNAUTHORIZED_EXCEPTION",
		"message": "API credentials are missing or invalid",
		"error":   true,
	})
}

// readLoop decodes and routes frames sequentially; the next frame is not
// read until the current handler returns. A handler error tears down this
// connection only.
func (h *Handler) readLoop(serverID string, conn *websocket.Conn) {
	ctx := context.Background()
	server := &ServerContext{ID: serverID, State: h.state, Conn: conn}
	router := NewRouter(server)

	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		packet, err := DecodePacket(frame)
		if err != nil {
			framesSkipped.Inc()
			continue
		}
		if packet.Event == "" || packet.Data == nil {
			framesSkipped.Inc()
			continue
		}

		if err := router.Route(ctx, packet); err != nil {
			h.state.Logger.Errorw("Event handler failed, closing connection",
				"server", serverID, "event", packet.Event, "error", err)
			break
		}
		server.SetLastAliveTime(ctx, nowMillis())
		eventsRouted.Inc()
		h.state.Logger.Debugw("Routed event", "server", serverID, "event", packet.Event)
	}

	h.state.Logger.Infow("WebSocket connection closed", "server", serverID)
	closeFrame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection closed")
	conn.WriteMessage(websocket.CloseMessage, closeFrame)
	conn.Close()
}
