// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/friend-decider/cliparse"
	"github.com/danielhkuo/friend-decider/handlers"
	"github.com/danielhkuo/friend-decider/middleware"
	"github.com/danielhkuo/friend-decider/session"
)

func NewRouter(registry *session.Registry, cfg cliparse.Config, limiter *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	hub := handlers.NewHub()
	sessionHandler := handlers.NewSessionHandler(registry, cfg, limiter)
	channelHandler := handlers.NewChannelHandler(registry, hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session management
	mux.HandleFunc("GET /api/config", middleware.WithLogging(sessionHandler.GetConfig))
	mux.HandleFunc("POST /api/sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /api/sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("GET /api/sessions/{id}/qr", middleware.WithLogging(sessionHandler.GetSessionQR))

	// Realtime channel (long-lived; logs from inside the handler)
	mux.HandleFunc("GET /ws/{id}", channelHandler.ServeWS)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("friend-decider API v1"))
	})

	return mux
}
