// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dspatil/kop-zp-ps-elections-2026/fixtures"
	"github.com/dspatil/kop-zp-ps-elections-2026/middleware"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

type FixtureHandler struct {
	set *fixtures.Set
}

func NewFixtureHandler(set *fixtures.Set) *FixtureHandler {
	return &FixtureHandler{set: set}
}

// Reservations handles GET /api/reservations
// Optional type, taluka, category and women filters
func (h *FixtureHandler) Reservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := fixtures.ReservationFilter{
		ElectionType: strings.TrimSpace(q.Get("type")),
		Taluka:       strings.TrimSpace(q.Get("taluka")),
		Category:     strings.TrimSpace(q.Get("category")),
	}
	if raw := strings.TrimSpace(q.Get("women")); raw != "" {
		women, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "women must be true or false")
			return
		}
		f.Women = &women
	}

	middleware.JSONResponse(w, http.StatusOK, h.set.FilterReservations(f))
}

// Divisions handles GET /api/divisions
func (h *FixtureHandler) Divisions(w http.ResponseWriter, r *http.Request) {
	divisions := h.set.Divisions
	if divisions == nil {
		divisions = []models.Division{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.DivisionsResponse{
		Total:     len(divisions),
		Divisions: divisions,
	})
}

// Division handles GET /api/divisions/{no}
func (h *FixtureHandler) Division(w http.ResponseWriter, r *http.Request) {
	no, err := strconv.Atoi(r.PathValue("no"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid division number")
		return
	}

	d, ok := h.set.Division(no)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Division not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, d)
}
