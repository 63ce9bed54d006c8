// Package ws pushes change notifications to connected clients over websockets.
package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"carpool-service/src/internal/model"
	"carpool-service/src/internal/observability"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/token"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// session owns one connection. Only writePump writes to conn.
type session struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	stopOnce sync.Once
}

func newSession(conn *websocket.Conn) *session {
	return &session{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks; false means the session's buffer is full.
func (s *session) enqueue(payload []byte) bool {
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

func (s *session) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}

// Hub tracks the open sessions of every user. A user may be connected from
// several devices at once.
type Hub struct {
	Log      log.Log
	Secret   string
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	sessions map[string]map[*session]struct{}
}

func NewHub(logger log.Log, secret string) *Hub {
	return &Hub{
		Log:    logger,
		Secret: secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]map[*session]struct{}),
	}
}

func (h *Hub) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", h.serveWS).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	return r
}

// Push queues n for every session of the given users and returns without
// waiting for the network. Users without a session are skipped; a session
// whose queue is full is too slow to keep and gets dropped.
func (h *Hub) Push(userIDs []string, n model.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.Log.Error("ws-hub", err.Error(), "Push", n.EntityID)
		return
	}

	seen := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		for _, s := range h.sessionsOf(userID) {
			if !s.enqueue(payload) {
				observability.NotificationsDropped.WithLabelValues("websocket").Inc()
				h.Log.Error("ws-hub", fmt.Sprintf("dropping slow client on %s", n.Type), "Push", userID)
				h.remove(userID, s)
			}
		}
	}
}

// Connections is the number of open sessions of userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

// Close disconnects every session.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.sessions {
		for s := range set {
			s.stop()
			observability.WSConnections.Dec()
		}
		delete(h.sessions, userID)
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		raw = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	claim, err := token.Parse(raw, h.Secret)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("ws-hub", fmt.Sprintf("upgrade failed: %v", err), "serveWS", claim.Metadata.UserID)
		return
	}

	userID := claim.Metadata.UserID
	s := newSession(conn)
	h.add(userID, s)
	h.Log.Info("ws-hub", "client connected", "serveWS", userID)

	go h.writePump(userID, s)
	go func() {
		h.readLoop(s)
		h.remove(userID, s)
		h.Log.Info("ws-hub", "client disconnected", "serveWS", userID)
	}()
}

// readLoop discards client frames; it exists to process pongs and detect
// closed connections.
func (h *Hub) readLoop(s *session) {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains the session queue and sends keep-alive pings.
func (h *Hub) writePump(userID string, s *session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				observability.NotificationsDropped.WithLabelValues("websocket").Inc()
				h.Log.Error("ws-hub", fmt.Sprintf("write failed: %v", err), "writePump", userID)
				h.remove(userID, s)
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.remove(userID, s)
				return
			}
		}
	}
}

func (h *Hub) sessionsOf(userID string) []*session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*session, 0, len(h.sessions[userID]))
	for s := range h.sessions[userID] {
		out = append(out, s)
	}
	return out
}

func (h *Hub) add(userID string, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[userID]
	if !ok {
		set = make(map[*session]struct{})
		h.sessions[userID] = set
	}
	set[s] = struct{}{}
	observability.WSConnections.Inc()
}

func (h *Hub) remove(userID string, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[userID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.sessions, userID)
	}
	s.stop()
	observability.WSConnections.Dec()
}
