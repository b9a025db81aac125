// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	if a == "" || b == "" {
		t.Fatal("Expected non-empty IDs")
	}
	if a == b {
		t.Error("Expected distinct IDs from consecutive calls")
	}
	if len(a) != 36 {
		t.Errorf("Expected UUID-length ID, got %d chars: %s", len(a), a)
	}
}

func TestParsePasswords(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "single password",
			raw:      "hunter22",
			expected: []string{"hunter22"},
		},
		{
			name:     "multiple with whitespace",
			raw:      " alpha , beta,gamma ",
			expected: []string{"alpha", "beta", "gamma"},
		},
		{
			name:     "empty string",
			raw:      "",
			expected: nil,
		},
		{
			name:     "only commas",
			raw:      ",,,",
			expected: nil,
		},
		{
			name:     "trailing comma",
			raw:      "secret,",
			expected: []string{"secret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePasswords(tt.raw)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParsePasswords(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	allowed := []string{"first-secret", "second-secret"}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "first entry matches", password: "first-secret", wantErr: false},
		{name: "second entry matches", password: "second-secret", wantErr: false},
		{name: "no match", password: "wrong", wantErr: true},
		{name: "empty password", password: "", wantErr: true},
		{name: "prefix does not match", password: "first-secre", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.password, allowed)
			if tt.wantErr && !errors.Is(err, ErrInvalidPassword) {
				t.Errorf("Expected ErrInvalidPassword, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected nil error, got %v", err)
			}
		})
	}
}

func TestCheckPasswordEmptyList(t *testing.T) {
	if err := CheckPassword("anything", nil); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Expected ErrInvalidPassword with empty allow list, got %v", err)
	}
}

func TestWeakPasswordCount(t *testing.T) {
	allowed := []string{"short", "long-enough-password", "tiny"}
	if got := WeakPasswordCount(allowed); got != 2 {
		t.Errorf("Expected 2 weak passwords, got %d", got)
	}
	if got := WeakPasswordCount(nil); got != 0 {
		t.Errorf("Expected 0 weak passwords for empty list, got %d", got)
	}
}
