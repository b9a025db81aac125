// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/friend-decider/models"
)

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusNotFound, "Session not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "Not Found" || body.Message != "Session not found" {
		t.Errorf("Unexpected error body: %+v", body)
	}
}

func TestParseJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"creatorName":"Alice"}`)))

	var parsed models.CreateSessionRequest
	if err := ParseJSONBody(req, &parsed); err != nil {
		t.Fatalf("ParseJSONBody failed: %v", err)
	}
	if parsed.CreatorName != "Alice" {
		t.Errorf("Expected Alice, got %q", parsed.CreatorName)
	}

	bad := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{not json`)))
	if err := ParseJSONBody(bad, &parsed); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler must not run on preflight")
	}))

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 on preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Unexpected allow-origin: %s", got)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		remote   string
		headers  map[string]string
		expected string
	}{
		{
			name:     "x-forwarded-for single",
			remote:   "10.0.0.1:1234",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5"},
			expected: "203.0.113.5",
		},
		{
			name:     "x-forwarded-for chain",
			remote:   "10.0.0.1:1234",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"},
			expected: "203.0.113.5",
		},
		{
			name:     "x-real-ip",
			remote:   "10.0.0.1:1234",
			headers:  map[string]string{"X-Real-IP": "203.0.113.6"},
			expected: "203.0.113.6",
		},
		{
			name:     "remote addr fallback",
			remote:   "192.0.2.7:5678",
			expected: "192.0.2.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.expected {
				t.Errorf("GetClientIP = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("Attempt %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("Fourth attempt should be rejected")
	}

	// Other keys are independent
	if !rl.Allow("5.6.7.8") {
		t.Error("Different key should have its own window")
	}
}

func TestRateLimiterPrune(t *testing.T) {
	rl := NewRateLimiter(1, time.Millisecond)
	rl.Allow("1.2.3.4")

	rl.Prune(time.Now().Add(time.Second))

	rl.mu.Lock()
	n := len(rl.entries)
	rl.mu.Unlock()
	if n != 0 {
		t.Errorf("Expected pruned map, %d entries remain", n)
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	if !rl.Allow("k") {
		t.Fatal("First attempt should pass")
	}
	if rl.Allow("k") {
		t.Fatal("Second attempt inside the window should fail")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("k") {
		t.Error("Attempt after the window expires should pass")
	}
}
