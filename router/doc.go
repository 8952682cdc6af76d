// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voter information API.

# Route Registration

NewRouter builds an http.ServeMux with all endpoints and wraps it in the
shared middleware chain:

	h := router.NewRouter(db, cfg, surnames, cache, set)

The chain, outermost first, is panic recovery, chi's RealIP, CORS and
gzip compression.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Access codes:

	POST /api/auth/validate-code - Log in with a code
	GET  /api/auth/validate-code - Verify a session token

Voter roll (behind the token gate when REQUIRE_TOKEN is set):

	GET /api/voters/search            - Name or village search
	GET /api/voters/epic/{id}         - Lookup by EPIC id
	GET /api/voters/village           - Village list or village roll
	GET /api/voters/village/export    - Full village roll, JSON or CSV
	GET /api/voters/family-stats      - Surname clusters in a village
	GET /api/voters/analytics         - Gender and age breakdown
	GET /api/voters/demographics      - Religion and community estimate
	GET /api/voters/village-analytics - Per-village dashboard

Static election data:

	GET /api/reservations    - Seat reservations
	GET /api/divisions       - Divisions and wards
	GET /api/divisions/{no}  - One division
*/
package router
