// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "errors"

// Command error categories. Every command failure wraps exactly one of
// these so callers can classify with errors.Is while the wrapped message
// stays suitable for sending back to the client verbatim.
var (
	ErrNotJoined          = errors.New("not joined")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("not authorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrWrongPhase         = errors.New("wrong phase")
	ErrPreconditionFailed = errors.New("precondition failed")
)
