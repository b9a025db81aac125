// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/friend-decider/models"
	"github.com/danielhkuo/friend-decider/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one websocket connection. participantID is empty until the
// join handshake succeeds; it never changes afterwards. The association is
// transient and owns nothing in the session.
type client struct {
	conn          *websocket.Conn
	send          chan []byte
	sessionID     string
	participantID string
}

// enqueue hands a frame to the write pump without blocking. A full queue
// drops the frame; the mutation path never waits on a slow consumer.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

// ChannelHandler upgrades websocket connections and runs the per-message
// command dispatch for them.
type ChannelHandler struct {
	registry *session.Registry
	hub      *Hub
}

func NewChannelHandler(registry *session.Registry, hub *Hub) *ChannelHandler {
	return &ChannelHandler{registry: registry, hub: hub}
}

// ServeWS handles GET /ws/{id}
func (h *ChannelHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "session_id", sessionID, "error", err)
		return
	}

	c := &client{
		conn:      conn,
		send:      make(chan []byte, sendQueueSize),
		sessionID: sessionID,
	}
	go c.writePump()

	if _, ok := h.registry.Get(sessionID); !ok {
		slog.Warn("websocket rejected, session not found", "session_id", sessionID)
		sendLocked(c, models.ServerMessage{Type: models.MsgError, Message: "session not found"})
		close(c.send)
		return
	}

	slog.Info("websocket connected", "session_id", sessionID)
	c.readPump(h)
}

func (c *client) readPump(h *ChannelHandler) {
	defer func() {
		h.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "session_id", c.sessionID, "error", err)
			}
			return
		}

		var msg models.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}
		h.dispatch(c, msg)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) sendError(message string) {
	sendLocked(c, models.ServerMessage{Type: models.MsgError, Message: message})
}

// dispatch validates and applies one inbound command. The room lock is
// held for the whole command, so the session mutation and its broadcast
// form one atomic step from the point of view of every other connection.
func (h *ChannelHandler) dispatch(c *client, msg models.ClientMessage) {
	sess, ok := h.registry.Get(c.sessionID)
	if !ok {
		// The session can be swept between messages; stale commands get
		// an error, never a dropped connection.
		c.sendError("session not found")
		return
	}

	r := h.hub.lockRoom(c.sessionID)
	defer r.mu.Unlock()

	if msg.Type != models.MsgJoin && c.participantID == "" {
		c.sendError("not joined")
		return
	}

	switch msg.Type {
	case models.MsgJoin:
		h.handleJoin(c, r, sess, msg)

	case models.MsgAddItem:
		item, err := sess.AddItem(c.participantID, msg.Text)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		slog.Info("item added", "session_id", c.sessionID, "text", item.Text)
		r.broadcastLocked(models.ServerMessage{Type: models.MsgItemAdded, Item: &item}, nil)

	case models.MsgRemoveItem:
		if err := sess.RemoveItem(c.participantID, msg.ItemID); err != nil {
			c.sendError(err.Error())
			return
		}
		slog.Info("item removed", "session_id", c.sessionID, "item_id", msg.ItemID)
		r.broadcastLocked(models.ServerMessage{Type: models.MsgItemRemoved, ItemID: msg.ItemID}, nil)

	case models.MsgVote:
		if err := sess.Vote(c.participantID, msg.ItemID, msg.Vote); err != nil {
			c.sendError(err.Error())
			return
		}
		r.broadcastLocked(models.ServerMessage{
			Type:          models.MsgVoteUpdated,
			ItemID:        msg.ItemID,
			ParticipantID: c.participantID,
			Vote:          msg.Vote,
		}, nil)

	case models.MsgMarkDone:
		h.handleDone(c, r, sess, true)

	case models.MsgSetDone:
		h.handleDone(c, r, sess, msg.IsDone)

	case models.MsgStartVoting:
		if err := sess.StartVoting(c.participantID); err != nil {
			c.sendError(err.Error())
			return
		}
		slog.Info("voting started", "session_id", c.sessionID)
		r.broadcastLocked(models.ServerMessage{Type: models.MsgPhaseChanged, Phase: models.PhaseVoting}, nil)

	case models.MsgShowResults:
		results, err := sess.ShowResults(c.participantID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		slog.Info("results shown", "session_id", c.sessionID, "items", len(results))
		r.broadcastLocked(models.ServerMessage{Type: models.MsgResults, Results: results}, nil)

	case models.MsgPrevPhase:
		phase, err := sess.PrevPhase(c.participantID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		slog.Info("phase reversed", "session_id", c.sessionID, "phase", phase)
		r.broadcastLocked(models.ServerMessage{Type: models.MsgPhaseChanged, Phase: phase}, nil)

	case models.MsgSetScoring:
		if msg.Favor == nil || msg.Neutral == nil || msg.Against == nil {
			c.sendError("scoring values must be integers")
			return
		}
		rules := models.ScoringRules{Favor: *msg.Favor, Neutral: *msg.Neutral, Against: *msg.Against}
		fresh, err := sess.SetScoring(c.participantID, rules)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		slog.Info("scoring updated", "session_id", c.sessionID,
			"favor", rules.Favor, "neutral", rules.Neutral, "against", rules.Against)
		r.broadcastLocked(models.ServerMessage{Type: models.MsgScoringUpdated, ScoringRules: &rules}, nil)
		if fresh != nil {
			r.broadcastLocked(models.ServerMessage{Type: models.MsgResults, Results: fresh}, nil)
		}

	default:
		slog.Warn("unknown message type", "session_id", c.sessionID, "type", msg.Type)
		c.sendError("unknown message type: " + msg.Type)
	}
}

func (h *ChannelHandler) handleJoin(c *client, r *room, sess *session.Session, msg models.ClientMessage) {
	if c.participantID != "" {
		c.sendError("already joined")
		return
	}

	participantID, name, err := sess.Join(msg.Name, msg.ExistingParticipantID)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.participantID = participantID
	r.addLocked(c)

	state := sess.Snapshot()
	slog.Info("participant joined",
		"session_id", c.sessionID,
		"participant", name,
		"participants", len(state.Participants),
	)

	sendLocked(c, models.ServerMessage{
		Type:          models.MsgState,
		ParticipantID: participantID,
		State:         &state,
	})
	r.broadcastLocked(models.ServerMessage{
		Type:          models.MsgParticipantJoined,
		ParticipantID: participantID,
		Name:          name,
	}, c)
}

func (h *ChannelHandler) handleDone(c *client, r *room, sess *session.Session, isDone bool) {
	update, err := sess.SetDone(c.participantID, isDone)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	r.broadcastLocked(models.ServerMessage{
		Type:           models.MsgDoneUpdated,
		ParticipantID:  c.participantID,
		IsDone:         isDone,
		DoneCount:      update.DoneCount,
		ConnectedCount: update.ConnectedCount,
	}, nil)

	// Consensus drives progress: once every connected participant is
	// done, the phase moves forward without waiting for the creator.
	advanced, phase, results := sess.TryAutoAdvance()
	if !advanced {
		return
	}
	slog.Info("phase auto-advanced", "session_id", c.sessionID, "phase", phase)
	if phase == models.PhaseResults {
		r.broadcastLocked(models.ServerMessage{Type: models.MsgResults, Results: results}, nil)
	} else {
		r.broadcastLocked(models.ServerMessage{Type: models.MsgPhaseChanged, Phase: phase}, nil)
	}
}

// disconnect runs the close bookkeeping for a connection: leave the room,
// mark the participant disconnected, start the idle clock when the room
// empties, and tell the remaining connections.
func (h *ChannelHandler) disconnect(c *client) {
	r := h.hub.lockRoom(c.sessionID)
	defer r.mu.Unlock()

	remaining := r.removeLocked(c)

	if c.participantID != "" {
		if sess, ok := h.registry.Get(c.sessionID); ok {
			name := sess.Disconnect(c.participantID, remaining == 0)
			slog.Info("participant disconnected",
				"session_id", c.sessionID,
				"participant", name,
				"remaining", remaining,
			)
			if remaining == 0 {
				slog.Info("all participants disconnected, session expires after grace period",
					"session_id", c.sessionID)
			}
			r.broadcastLocked(models.ServerMessage{
				Type:          models.MsgParticipantLeft,
				ParticipantID: c.participantID,
			}, nil)
		}
	}

	h.hub.dropIfEmpty(c.sessionID, r)
	close(c.send)
}
