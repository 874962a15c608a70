package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/taskhub/taskhub-api/internal/authz"
)

const writeTimeout = 10 * time.Second

// frame is the wire envelope for server-initiated events.
type frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// wsSession wraps a websocket connection as a registry Session. Writes are
// serialized; gorilla connections do not support concurrent writers.
type wsSession struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func newWSSession(conn *websocket.Conn) *wsSession {
	return &wsSession{id: uuid.NewString(), conn: conn}
}

func (s *wsSession) Push(event string, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(frame{Event: event, Data: payload})
}

// Handler upgrades authenticated HTTP requests to websocket sessions and
// keeps the registry in sync with connection lifecycles.
type Handler struct {
	registry  *Registry
	jwtSecret string
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

func NewHandler(registry *Registry, jwtSecret string, logger zerolog.Logger) *Handler {
	return &Handler{
		registry:  registry,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are enforced by the CORS layer in front of the router.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "realtime").Logger(),
	}
}

// ServeWS authenticates the handshake, registers the connection, and blocks
// reading until the client disconnects.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, err := authz.VerifyToken(token, h.jwtSecret)
	if err != nil {
		http.Error(w, "Authentication error", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("websocket upgrade failed")
		return
	}

	session := newWSSession(conn)
	h.registry.Register(userID, session)
	h.logger.Info().Str("user_id", userID).Str("session_id", session.id).Msg("user connected")

	if err := session.Push("welcome", map[string]string{"message": "Connected to notification stream"}); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to send welcome frame")
	}

	h.readLoop(userID, session)
}

// readLoop drains inbound frames until the connection drops, then removes
// the registry entry.
func (h *Handler) readLoop(userID string, session *wsSession) {
	defer func() {
		h.registry.UnregisterSession(userID, session)
		session.conn.Close()
		h.logger.Info().Str("user_id", userID).Str("session_id", session.id).Msg("user disconnected")
	}()

	for {
		if _, _, err := session.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Str("user_id", userID).Msg("websocket read error")
			}
			return
		}
	}
}
