// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/friend-decider/auth"
)

const (
	// ExpiryGrace is how long a fully disconnected session survives
	// before the sweep removes it.
	ExpiryGrace = 5 * time.Minute
	// SweepInterval is the cadence of the background sweep.
	SweepInterval = 30 * time.Second
)

// Registry owns the id -> Session mapping. Sessions share no state with
// each other, so operations on different sessions run fully in parallel;
// the registry lock covers only the map itself.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	policy   Policy
}

func NewRegistry(policy Policy) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		policy:   policy,
	}
}

// Create constructs a session with the creator pre-registered as a
// disconnected participant and stores it.
func (r *Registry) Create(creatorID, creatorName, creatorIP, name string, lockNavigation bool) *Session {
	s := newSession(auth.NewID(), creatorID, creatorName, creatorIP, name, lockNavigation, r.policy)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	return s
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// CountByCreatorIP returns how many live sessions were created from ip.
func (r *Registry) CountByCreatorIP(ip string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.sessions {
		if s.CreatorIP() == ip {
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepExpired removes every session whose connections have all been
// closed for at least ExpiryGrace as of now. It only inspects and removes
// whole sessions, so it is safe to run concurrently with command handling
// on other sessions. Returns the number of sessions removed.
func (r *Registry) SweepExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		idle, ok := s.IdleSince()
		if !ok || now.Sub(idle) < ExpiryGrace {
			continue
		}
		delete(r.sessions, id)
		removed++
		slog.Info("session expired and deleted",
			"session_id", id,
			"name", s.Name(),
			"idle_since", humanize.Time(idle),
		)
	}
	return removed
}

// Run sweeps expired sessions on a fixed interval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.SweepExpired(now)
		}
	}
}
