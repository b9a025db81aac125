// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation and creation-password checks.

# ID Generation

	id := auth.NewID()

IDs are random UUIDs; the same format is used for sessions, participants,
and items.

# Creation Passwords

Session creation is gated by a shared-secret password list, configured as a
comma-separated environment variable:

	allowed := auth.ParsePasswords(os.Getenv("CREATION_PASSWORD"))
	err := auth.CheckPassword(req.Password, allowed)

CheckPassword compares in constant time and returns ErrInvalidPassword on
mismatch. WeakPasswordCount supports the startup warning for passwords
shorter than 8 characters.
*/
package auth
