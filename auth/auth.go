// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidPassword = errors.New("invalid creation password")

// NewID returns a fresh random identifier. Sessions, participants, and
// items all use the same format.
func NewID() string {
	return uuid.NewString()
}

// ParsePasswords splits a comma-separated password list, trimming
// whitespace and dropping empty entries.
func ParsePasswords(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CheckPassword validates a creation password against the allowed list.
// Every candidate is compared in constant time so the check leaks nothing
// about which entry matched.
func CheckPassword(password string, allowed []string) error {
	ok := false
	for _, candidate := range allowed {
		if hmac.Equal([]byte(password), []byte(candidate)) {
			ok = true
		}
	}
	if !ok {
		return ErrInvalidPassword
	}
	return nil
}

// WeakPasswordCount reports how many allowed passwords fall below the
// minimum recommended length. Logged as a warning at startup.
func WeakPasswordCount(allowed []string) int {
	n := 0
	for _, p := range allowed {
		if len(p) < 8 {
			n++
		}
	}
	return n
}
