// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers.

# Functions

  - WithLogging: request/response logging wrapper
  - JSONResponse: write a JSON response with status code
  - ErrorResponse: write a models.ErrorResponse
  - ParseJSONBody: decode a JSON request body
  - CORS: cross-origin headers and preflight handling
  - GetClientIP: client IP extraction (X-Forwarded-For, X-Real-IP,
    RemoteAddr)

# Rate Limiting

RateLimiter is a per-key fixed-window limiter used to throttle session
creation attempts per IP:

	limiter := middleware.NewRateLimiter(5, time.Minute)
	if !limiter.Allow(ip) { ... 429 ... }

Run prunes expired windows on an interval so the key map stays bounded.
*/
package middleware
