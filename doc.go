// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Kolhapur ZP/PS election voter
information API.

The server answers searches over the published voter rolls of the Kolhapur
Zilla Parishad and Panchayat Samiti elections, aggregates them into gender,
age, family and surname-based demographic breakdowns, and serves the seat
reservation and division tables. Access is sold through access codes that
carry an optional expiry and usage cap.

# Starting the Server

The server reads flags, then environment variables (a .env file is loaded
when present):

	DATABASE_URL=postgres://... TOKEN_SECRET=... go run .

Or against a local sqlite file:

	go run . -t sqlite -d ./voters.db

# Configuration

  - DATABASE_URL (-d): Postgres URL or sqlite path
  - DATABASE_TYPE (-t): postgres (default) or sqlite
  - APP_ENV: production or development
  - TOKEN_SECRET: Secret for session tokens, required in production
  - TOKEN_TTL: Session token lifetime
  - DATA_DIR: Directory overriding the embedded fixture files
  - SURNAME_FILE, SURNAME_POLICY: Surname table and which name token is the surname
  - REDIS_ADDR, REDIS_PASSWORD, CACHE_TTL: Optional analytics response cache
  - REQUIRE_TOKEN: Put the voter endpoints behind a bearer token
  - PORT (-p): Server port (default: 3318)

# Architecture

  - handlers: HTTP request handlers (access codes, voters, analytics, fixtures)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, JSON helpers
  - models: Request/response types
  - auth: Access-code rules and signed session tokens
  - filter: Query filter and pagination building
  - demographics: Name tokenizing, surname lookup and aggregation
  - fixtures: Reservation, division and surname data
  - cache: Redis-backed response cache
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
