// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/friend-decider/cliparse"
	"github.com/danielhkuo/friend-decider/session"
)

// TestPassword is the creation password used across tests
const TestPassword = "test-password"

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3000,
		CreationPasswords: []string{TestPassword, "second-password"},
		MaxSessionsPerIP:  10,
		ItemLimit:         100,
		StrictPhases:      true,
	}
}

// NewTestRegistry returns a registry with the standard test policy
func NewTestRegistry(t *testing.T) *session.Registry {
	t.Helper()
	cfg := GetTestConfig()
	return session.NewRegistry(session.Policy{
		ItemLimit:    cfg.ItemLimit,
		StrictPhases: cfg.StrictPhases,
	})
}

// CreateTestSession creates a session with a joined creator and returns it
// with the creator's participant ID
func CreateTestSession(t *testing.T, reg *session.Registry, name string) (*session.Session, string) {
	t.Helper()

	creatorID := "creator-" + name
	s := reg.Create(creatorID, "Creator", "192.0.2.1", name, false)
	if _, _, err := s.Join("", creatorID); err != nil {
		t.Fatalf("Failed to join creator: %v", err)
	}
	return s, creatorID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
