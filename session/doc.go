// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session holds the authoritative in-memory state for decision
sessions: the Session aggregate, the Registry that owns all sessions, and
the phase-transition logic.

# Lifecycle

A session is created through Registry.Create with its creator pre-registered
as a disconnected participant, mutated only through validated commands, and
deleted by the idle sweep once every connection has been gone for
ExpiryGrace. There is no explicit delete API.

# Phases

Sessions move adding → voting → results. The creator can step forward
(StartVoting, ShowResults) or back one step (PrevPhase); stepping back to
adding clears all votes, stepping back to voting discards the cached
ranking. TryAutoAdvance fires the forward transition when every currently
connected participant has signaled done — consensus drives progress, not
just the creator.

# Concurrency

Each Session locks internally, making it the single mutation authority for
its own state; commands on one session are serialized while independent
sessions proceed in parallel. The Registry guards only its own id → Session
map, so the sweep never contends with command handling inside a session.

# Errors

Command failures wrap one of the sentinel categories (ErrNotJoined,
ErrNotFound, ErrUnauthorized, ErrInvalidInput, ErrWrongPhase,
ErrPreconditionFailed). They are synchronous, leave state unchanged, and
never terminate a connection.
*/
package session
