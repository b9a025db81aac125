// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers and the realtime websocket
channel.

# HTTP Boundary

SessionHandler covers the peripheral HTTP surface:

	GET  /api/config          → GetConfig (passwordRequired probe)
	POST /api/sessions        → CreateSession (password, caps, rate limit)
	GET  /api/sessions/{id}   → GetSession (full snapshot, 404 if absent)
	GET  /api/sessions/{id}/qr → GetSessionQR (PNG join-URL code)

Session creation returns {sessionId, participantId}; the creator then joins
over the websocket with that participant ID.

# Realtime Channel

ChannelHandler upgrades GET /ws/{id} and runs the per-connection protocol:
a connection is unjoined until a successful join binds a participant ID,
then every inbound command mutates the session and fans out to the room.
Closing a connection marks its participant disconnected (the record is
retained for reconnects), starts the session's idle-expiry clock when the
room empties, and notifies the remaining connections.

# Hub

Hub maps session IDs to rooms of live connections. Each room serializes
command handling and broadcast for its session; fan-out is best-effort via
buffered per-connection queues, so one slow or broken peer never stalls
the others.

# Protocol

Inbound: join, add-item, remove-item, vote, start-voting, show-results,
mark-done, set-done, prev-phase, set-scoring. Outbound: state,
participant-joined, participant-left, item-added, item-removed,
vote-updated, phase-changed, done-updated, scoring-updated, results,
error. Malformed JSON or an unknown type yields an error frame, never a
dropped connection.
*/
package handlers
