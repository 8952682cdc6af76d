// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dspatil/kop-zp-ps-elections-2026/cache"
	"github.com/dspatil/kop-zp-ps-elections-2026/cliparse"
	"github.com/dspatil/kop-zp-ps-elections-2026/demographics"
	"github.com/dspatil/kop-zp-ps-elections-2026/fixtures"
	"github.com/dspatil/kop-zp-ps-elections-2026/handlers"
	"github.com/dspatil/kop-zp-ps-elections-2026/middleware"
)

// RootMessage is the body of GET /
const RootMessage = "kop-zp-ps-elections API v1"

func NewRouter(db *sql.DB, cfg cliparse.Config, surnames *demographics.Table, c cache.Cache, set *fixtures.Set) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	voterHandler := handlers.NewVoterHandler(db, cfg, surnames, c)
	fixtureHandler := handlers.NewFixtureHandler(set)

	// voter data sits behind the token gate when REQUIRE_TOKEN is set
	gated := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(authHandler.RequireAccess(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	// Access codes
	mux.HandleFunc("POST /api/auth/validate-code", middleware.WithLogging(authHandler.ValidateCode))
	mux.HandleFunc("GET /api/auth/validate-code", middleware.WithLogging(authHandler.VerifyToken))

	// Voter roll
	mux.HandleFunc("GET /api/voters/search", gated(voterHandler.Search))
	mux.HandleFunc("GET /api/voters/epic/{id}", gated(voterHandler.Epic))
	mux.HandleFunc("GET /api/voters/village", gated(voterHandler.Village))
	mux.HandleFunc("GET /api/voters/village/export", gated(voterHandler.Export))
	mux.HandleFunc("GET /api/voters/family-stats", gated(voterHandler.FamilyStats))

	// Analytics
	mux.HandleFunc("GET /api/voters/analytics", gated(voterHandler.Analytics))
	mux.HandleFunc("GET /api/voters/demographics", gated(voterHandler.Demographics))
	mux.HandleFunc("GET /api/voters/village-analytics", gated(voterHandler.VillageAnalytics))

	// Static election data
	mux.HandleFunc("GET /api/reservations", middleware.WithLogging(fixtureHandler.Reservations))
	mux.HandleFunc("GET /api/divisions", middleware.WithLogging(fixtureHandler.Divisions))
	mux.HandleFunc("GET /api/divisions/{no}", middleware.WithLogging(fixtureHandler.Division))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(RootMessage))
	})

	var h http.Handler = mux
	h = chimw.Compress(5)(h)
	h = middleware.CORS(h)
	h = chimw.RealIP(h)
	h = middleware.Recover(h)
	return h
}
