// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Friend Decider server.

Friend Decider is a realtime group-decision tool: participants join a
shared session over a websocket, propose items, vote on them
(favor/neutral/against), and receive a weighted ranking. Sessions live in
memory and expire after everyone has been gone for five minutes.

# Starting the Server

The server requires at least one creation password:

	CREATION_PASSWORD=movie-night go run main.go

Or with flags:

	go run main.go -p 3000 -passwords "movie-night,game-night"

# Configuration

Required settings:

  - CREATION_PASSWORD (-passwords): comma-separated shared secrets gating
    session creation

Optional settings:

  - PORT (-p): server port (default: 3000)
  - MAX_SESSIONS_PER_IP (-max-sessions-per-ip): concurrent session cap per
    IP (default: 10)
  - ITEM_LIMIT (-item-limit): max items per session (default: 100)
  - STRICT_PHASES (-strict-phases): gate item and vote commands by phase
    (default: true)

A .env file is loaded when present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - session: in-memory session registry, aggregate, and phase transitions
  - scoring: pure ranking engine
  - handlers: HTTP handlers, websocket channel, connection hub
  - router: route definitions using Go 1.22+ routing
  - middleware: logging, CORS, JSON helpers, rate limiting
  - models: wire and domain types
  - auth: id generation and password validation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
