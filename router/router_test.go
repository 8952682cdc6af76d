// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dspatil/kop-zp-ps-elections-2026/cache"
	"github.com/dspatil/kop-zp-ps-elections-2026/cliparse"
	"github.com/dspatil/kop-zp-ps-elections-2026/fixtures"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
	"github.com/dspatil/kop-zp-ps-elections-2026/testutil"
)

func newTestRouter(t *testing.T, cfg cliparse.Config) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	set, err := fixtures.Load("")
	if err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}
	surnames, err := fixtures.LoadSurnames("", "")
	if err != nil {
		t.Fatalf("Failed to load surnames: %v", err)
	}
	testutil.InsertVoters(t, db, models.Voter{
		EpicID:   "KOP0000001",
		Name:     "पाटील राम",
		Age:      testutil.IntPtr(40),
		Gender:   models.GenderMale,
		Village:  "Uchgaon",
		Division: testutil.IntPtr(1),
		Ward:     testutil.IntPtr(1),
		Taluka:   "Karveer",
		SerialNo: "1",
	})

	return NewRouter(db, cfg, surnames, cache.Noop{}, set)
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != RootMessage {
		t.Errorf("Expected body '%s', got '%s'", RootMessage, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	// 400 and 404 from a handler still mean the route matched
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"GET", "/"},

		{"POST", "/api/auth/validate-code"},
		{"GET", "/api/auth/validate-code"},

		{"GET", "/api/voters/search"},
		{"GET", "/api/voters/epic/KOP0000001"},
		{"GET", "/api/voters/village"},
		{"GET", "/api/voters/village/export"},
		{"GET", "/api/voters/family-stats"},
		{"GET", "/api/voters/analytics"},
		{"GET", "/api/voters/demographics"},
		{"GET", "/api/voters/village-analytics"},

		{"GET", "/api/reservations"},
		{"GET", "/api/divisions"},
		{"GET", "/api/divisions/1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
			if w.Code == http.StatusNotFound && w.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Route %s %s was not matched", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/api/auth/validate-code"},
		{"POST", "/api/voters/search"},
		{"PUT", "/api/divisions/1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestUnknownPath(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/api/nothing-here", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	t.Run("epic id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/voters/epic/kop0000001", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.EpicResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.Found || resp.Voter.EpicID != "KOP0000001" {
			t.Errorf("Expected KOP0000001, got %+v", resp)
		}
	})

	t.Run("division number", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/divisions/2", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var d models.Division
		testutil.AssertJSON(t, w, &d)
		if d.DivisionNo != 2 {
			t.Errorf("Expected division 2, got %d", d.DivisionNo)
		}
	})
}

func TestRequestIDHeader(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/api/divisions", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected an X-Request-ID header")
	}

	req = httptest.NewRequest("GET", "/api/divisions", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("Expected request id 'abc-123', got '%s'", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("OPTIONS", "/api/voters/search", nil)
	req.Header.Set("Origin", "https://example.org")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://example.org" {
		t.Errorf("Expected origin to be echoed, got '%s'", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Error("Expected Authorization in allowed headers")
	}
}

func TestTokenGate(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.RequireToken = true
	mux := newTestRouter(t, cfg)

	t.Run("voter endpoints need a token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/voters/epic/KOP0000001", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
		var resp models.VerifyTokenResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Valid || resp.Reason != models.ReasonInvalid {
			t.Errorf("Expected invalid, got %+v", resp)
		}
	})

	t.Run("static data stays open", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/reservations", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	// one routed request so the counter has a sample
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/divisions", nil))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "kopvoters_http_requests_total") {
		t.Error("Expected kopvoters_http_requests_total in metrics output")
	}
}
