// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start and completion with a request id (X-Request-ID, generated
when the client sends none), the status and duration_ms. The same wrapper
feeds the prometheus request counter and latency histogram, labelled with the
mux pattern.

# Metrics

	mux.Handle("GET /metrics", middleware.MetricsHandler())

# Panics

Recover converts a handler panic into a logged JSON 500.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Village name is required")

Error bodies are {"error": "<message>"}.

# Tokens and Client IP

	token := middleware.BearerToken(r)
	ip := middleware.GetClientIP(r)
*/
package middleware
