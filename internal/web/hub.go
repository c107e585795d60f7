package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Hub pushes state snapshots to every connected browser tab.
// Snapshots older than the last one sent are dropped, globally and per
// connection, so a tab never moves backwards.
type Hub struct {
	log *zap.Logger

	mu          sync.Mutex
	conns       map[*websocket.Conn]uint64 // last version written
	lastVersion uint64
	lastPayload []byte
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:   log.With(zap.String("component", "ws")),
		conns: map[*websocket.Conn]uint64{},
	}
}

// Run broadcasts every payload from ch until it is closed.
func (h *Hub) Run(ch <-chan []byte) {
	for payload := range ch {
		h.Broadcast(payload)
	}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = 0
	h.mu.Unlock()
}

// Join registers conn and sends it the newer of snapshot and the last
// broadcast state.
func (h *Hub) Join(conn *websocket.Conn, snapshot []byte) {
	v, ok := stateVersion(snapshot)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = 0
	if !ok || h.lastVersion > v {
		snapshot, v = h.lastPayload, h.lastVersion
	}
	if snapshot != nil {
		h.writeLocked(conn, v, snapshot)
	}
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) Broadcast(payload []byte) {
	v, ok := stateVersion(payload)
	if !ok {
		h.log.Warn("dropping undecodable state")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if v <= h.lastVersion {
		return
	}
	h.lastVersion = v
	h.lastPayload = payload
	for conn, sent := range h.conns {
		if v > sent {
			h.writeLocked(conn, v, payload)
		}
	}
}

func (h *Hub) writeLocked(conn *websocket.Conn, version uint64, payload []byte) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.log.Warn("ws write failed, dropping connection", zap.Error(err))
		delete(h.conns, conn)
		_ = conn.Close()
		return
	}
	h.conns[conn] = version
}

func stateVersion(payload []byte) (uint64, bool) {
	var v struct {
		Version uint64 `json:"version"`
	}
	if len(payload) == 0 || json.Unmarshal(payload, &v) != nil {
		return 0, false
	}
	return v.Version, true
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		delete(h.conns, conn)
	}
}
