// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/danielhkuo/friend-decider/auth"
	"github.com/danielhkuo/friend-decider/cliparse"
	"github.com/danielhkuo/friend-decider/middleware"
	"github.com/danielhkuo/friend-decider/models"
	"github.com/danielhkuo/friend-decider/session"
)

type SessionHandler struct {
	registry *session.Registry
	cfg      cliparse.Config
	limiter  *middleware.RateLimiter
}

func NewSessionHandler(registry *session.Registry, cfg cliparse.Config, limiter *middleware.RateLimiter) *SessionHandler {
	return &SessionHandler{registry: registry, cfg: cfg, limiter: limiter}
}

// GetConfig handles GET /api/config
func (h *SessionHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ConfigResponse{
		PasswordRequired: len(h.cfg.CreationPasswords) > 0,
	})
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ip := middleware.GetClientIP(r)

	if h.cfg.MaxSessionsPerIP > 0 && h.registry.CountByCreatorIP(ip) >= h.cfg.MaxSessionsPerIP {
		slog.Warn("session limit reached", "ip", ip, "limit", h.cfg.MaxSessionsPerIP)
		middleware.ErrorResponse(w, http.StatusTooManyRequests,
			fmt.Sprintf("Session limit reached. You can have at most %d active sessions.", h.cfg.MaxSessionsPerIP))
		return
	}

	if !h.limiter.Allow(ip) {
		slog.Warn("rate limited session creation", "ip", ip)
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Too many attempts. Try again later.")
		return
	}

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := auth.CheckPassword(req.Password, h.cfg.CreationPasswords); err != nil {
		slog.Warn("session creation rejected, bad password", "creator", req.CreatorName)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	creatorName := strings.TrimSpace(req.CreatorName)
	if creatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creatorName is required")
		return
	}
	sessionName := strings.TrimSpace(req.SessionName)
	if sessionName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "sessionName is required")
		return
	}

	creatorID := auth.NewID()
	s := h.registry.Create(creatorID, creatorName, ip, sessionName, req.LockNavigation)

	slog.Info("session created",
		"session_id", s.ID(),
		"name", sessionName,
		"creator", creatorName,
		"lock_navigation", req.LockNavigation,
	)

	middleware.JSONResponse(w, http.StatusOK, models.CreateSessionResponse{
		SessionID:     s.ID(),
		ParticipantID: creatorID,
	})
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.registry.Get(r.PathValue("id"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, s.Snapshot())
}

// GetSessionQR handles GET /api/sessions/{id}/qr
// Renders a PNG QR code pointing at the session join URL.
func (h *SessionHandler) GetSessionQR(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.registry.Get(id); !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/session/%s", scheme, r.Host, id)

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		slog.Error("failed to render QR code", "session_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
