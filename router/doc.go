// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the route table using Go 1.22+ method routing.

# Routes

	GET  /health               → liveness probe
	GET  /api/config           → creation-password probe
	POST /api/sessions         → create a session
	GET  /api/sessions/{id}    → session snapshot
	GET  /api/sessions/{id}/qr → join-URL QR code
	GET  /ws/{id}              → realtime session channel

HTTP routes are wrapped with request logging; the websocket route logs
from inside its handler because the connection is long-lived.

# Usage

	mux := router.NewRouter(registry, cfg, limiter)
	http.ListenAndServe(addr, middleware.CORS(mux))
*/
package router
