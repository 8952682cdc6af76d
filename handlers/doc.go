// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Kolhapur ZP/PS
election voter API.

# Handler Types

Each handler is a struct holding its dependencies:

  - AuthHandler: Access-code login, token verification and the optional token gate
  - VoterHandler: Voter search, EPIC lookup, village rolls, exports and analytics
  - FixtureHandler: Seat reservations and division/ward structure

Handlers are created via constructor functions:

	authHandler := handlers.NewAuthHandler(db, cfg)
	voterHandler := handlers.NewVoterHandler(db, cfg, surnames, cache)
	fixtureHandler := handlers.NewFixtureHandler(set)

# Access Codes

	POST /api/auth/validate-code → ValidateCode (counts one use, returns a token)
	GET  /api/auth/validate-code → VerifyToken (no use counted)

A login is refused with reason invalid, deactivated, expired or usage_limit.
The use counter is incremented by a conditional UPDATE, so concurrent logins
never push a code past max_uses.

When the server runs with REQUIRE_TOKEN, RequireAccess wraps the voter
endpoints and expects an "Authorization: Bearer <token>" header.

# Voter Queries

	GET /api/voters/search            → Search
	GET /api/voters/epic/{id}         → Epic
	GET /api/voters/village           → Village (list=true for summaries)
	GET /api/voters/village/export    → Export (format=csv for a download)
	GET /api/voters/family-stats      → FamilyStats

Filters on division and ward are numeric. A value that does not parse
matches no voters.

# Analytics

	GET /api/voters/analytics         → Analytics
	GET /api/voters/demographics      → Demographics
	GET /api/voters/village-analytics → VillageAnalytics

Analytics responses are cached per normalized query string through the
cache package. Religion and community come from the surname table in the
demographics package.
*/
package handlers
