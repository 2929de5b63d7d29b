// internal/handlers/hub.go
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/jason-s-yu/sabacc/internal/game"
	"github.com/sirupsen/logrus"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// client is one websocket attached to a table.
type client struct {
	conn *websocket.Conn
	send chan game.GameEvent
}

// Hub fans table events out to every attached websocket.
// Broadcast never blocks; a client whose buffer is full is disconnected.
type Hub struct {
	tableID uuid.UUID
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub for a table.
func NewHub(tableID uuid.UUID) *Hub {
	return &Hub{tableID: tableID, clients: make(map[*client]struct{})}
}

// Broadcast queues ev for every client. Safe to call with the game lock held.
func (h *Hub) Broadcast(ev game.GameEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- ev:
		default:
			logrus.WithField("table", h.tableID).Warn("client too slow, dropping")
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

// Len returns the number of attached clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// attach registers conn and starts its writer. The returned client must be detached.
func (h *Hub) attach(ctx context.Context, conn *websocket.Conn) *client {
	cl := &client{conn: conn, send: make(chan game.GameEvent, sendBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	go h.writeLoop(ctx, cl)
	return cl
}

// detach removes cl; its writer exits once the send channel is closed.
func (h *Hub) detach(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// Close disconnects every client. Each writer flushes what is queued and then
// closes its socket with a normal closure.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) writeLoop(ctx context.Context, cl *client) {
	for ev := range cl.send {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(wctx, cl.conn, ev)
		cancel()
		if err != nil {
			logrus.WithField("table", h.tableID).WithError(err).Debug("websocket write failed")
			cl.conn.Close(websocket.StatusInternalError, "write failed")
			h.detach(cl)
			return
		}
	}
	cl.conn.Close(websocket.StatusNormalClosure, "")
}

// sendTo queues ev for a single client.
func (h *Hub) sendTo(cl *client, ev game.GameEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	select {
	case cl.send <- ev:
	default:
	}
}
