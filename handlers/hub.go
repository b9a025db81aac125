// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/danielhkuo/friend-decider/models"
)

// Hub is the connection registry: session ID -> room. It is deliberately
// separate from the session aggregate; rooms hold connections, sessions
// hold participants, and the two reference each other only through
// participant IDs.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*room
}

// room tracks the live connections of one session. room.mu serializes
// command handling and fan-out for that session, so every connection
// observes broadcasts in mutation order. Rooms for different sessions do
// not contend.
type room struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*room)}
}

// lockRoom returns the room for sessionID with its mutex held, creating it
// on demand. A room emptied and discarded between lookup and lock is
// retried.
func (h *Hub) lockRoom(sessionID string) *room {
	for {
		h.mu.Lock()
		r, ok := h.rooms[sessionID]
		if !ok {
			r = &room{clients: make(map[*client]struct{})}
			h.rooms[sessionID] = r
		}
		h.mu.Unlock()

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			continue
		}
		return r
	}
}

// dropIfEmpty discards r from the hub when its last client is gone.
// Caller holds r.mu.
func (h *Hub) dropIfEmpty(sessionID string, r *room) {
	if len(r.clients) > 0 {
		return
	}
	r.closed = true
	h.mu.Lock()
	if h.rooms[sessionID] == r {
		delete(h.rooms, sessionID)
	}
	h.mu.Unlock()
}

// addLocked registers a client. Caller holds r.mu.
func (r *room) addLocked(c *client) {
	r.clients[c] = struct{}{}
}

// removeLocked unregisters a client and returns the remaining connection
// count. Caller holds r.mu.
func (r *room) removeLocked(c *client) int {
	delete(r.clients, c)
	return len(r.clients)
}

// broadcastLocked fans a message out to every connection in the room,
// except exclude when non-nil. Sends are best-effort: a client with a full
// outbound queue misses the frame rather than stalling the room. Caller
// holds r.mu.
func (r *room) broadcastLocked(msg models.ServerMessage, exclude *client) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal broadcast", "type", msg.Type, "error", err)
		return
	}
	for c := range r.clients {
		if c != exclude {
			c.enqueue(data)
		}
	}
}

// sendLocked delivers a message to a single client. Caller holds r.mu (or
// the client is not yet registered anywhere).
func sendLocked(c *client, msg models.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "type", msg.Type, "error", err)
		return
	}
	c.enqueue(data)
}
