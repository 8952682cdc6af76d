// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dspatil/kop-zp-ps-elections-2026/auth"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
	"github.com/dspatil/kop-zp-ps-elections-2026/testutil"
)

func setupAuthHandler(t *testing.T) (*AuthHandler, *sql.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	return NewAuthHandler(db, testutil.GetTestConfig()), db
}

func login(t *testing.T, h *AuthHandler, code string) *httptest.ResponseRecorder {
	t.Helper()

	req := testutil.MakeRequest("POST", "/api/auth/validate-code", models.ValidateCodeRequest{Code: code}, nil)
	w := httptest.NewRecorder()
	h.ValidateCode(w, req)
	return w
}

func verify(t *testing.T, h *AuthHandler, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := testutil.MakeRequest("GET", "/api/auth/validate-code?token="+url.QueryEscape(token), nil, nil)
	w := httptest.NewRecorder()
	h.VerifyToken(w, req)
	return w
}

func TestValidateCode(t *testing.T) {
	h, db := setupAuthHandler(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)

	testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-OPEN", Active: true, DivisionAccess: testutil.StrPtr("1")})
	testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-OFF", Active: false})
	testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-OLD", Active: true, ExpiresAt: &past})
	testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-FULL", Active: true, MaxUses: testutil.IntPtr(2), CurrentUses: 2})
	testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-SOON", Active: true, ExpiresAt: &future, MaxUses: testutil.IntPtr(5)})

	tests := []struct {
		name           string
		code           string
		expectedStatus int
		expectedReason string
	}{
		{"valid code", "KOP-OPEN", http.StatusOK, ""},
		{"case-insensitive", "  kop-open ", http.StatusOK, ""},
		{"unknown code", "NOPE", http.StatusUnauthorized, models.ReasonInvalid},
		{"deactivated", "KOP-OFF", http.StatusUnauthorized, models.ReasonDeactivated},
		{"expired", "KOP-OLD", http.StatusUnauthorized, models.ReasonExpired},
		{"usage limit", "KOP-FULL", http.StatusUnauthorized, models.ReasonUsageLimit},
		{"future expiry", "KOP-SOON", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := login(t, h, tt.code)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				var resp models.VerifyTokenResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Valid {
					t.Error("Expected valid=false")
				}
				if resp.Reason != tt.expectedReason {
					t.Errorf("Expected reason '%s', got '%s'", tt.expectedReason, resp.Reason)
				}
				if resp.Error == "" {
					t.Error("Expected an error message")
				}
				return
			}

			var resp models.ValidateCodeResponse
			testutil.AssertJSON(t, w, &resp)
			if !resp.Valid || resp.Token == "" {
				t.Errorf("Expected a valid token, got %+v", resp)
			}
			if resp.Name != "Test User" {
				t.Errorf("Expected name 'Test User', got '%s'", resp.Name)
			}
		})
	}
}

func TestValidateCodeNonASCII(t *testing.T) {
	h, db := setupAuthHandler(t)
	id := testutil.CreateAccessCode(t, db, models.AccessCode{Code: "café-कोल्हापूर", Active: true})

	tests := []struct {
		name           string
		code           string
		expectedStatus int
	}{
		{"stored spelling", "café-कोल्हापूर", http.StatusOK},
		{"other case", " CAFÉ-कोल्हापूर ", http.StatusOK},
		{"different letters", "cafe-कोल्हापूर", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := login(t, h, tt.code)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	if got := testutil.CurrentUses(t, db, id); got != 2 {
		t.Errorf("Expected current_uses 2, got %d", got)
	}
}

func TestValidateCodeBadRequest(t *testing.T) {
	h, _ := setupAuthHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty code", `{"code":""}`},
		{"blank code", `{"code":"   "}`},
		{"no code field", `{}`},
		{"invalid json", `{code`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/validate-code", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.ValidateCode(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestValidateCodeCountsUses(t *testing.T) {
	h, db := setupAuthHandler(t)

	id := testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-CAP", Active: true, MaxUses: testutil.IntPtr(3)})

	for i := 1; i <= 3; i++ {
		w := login(t, h, "KOP-CAP")
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ValidateCodeResponse
		testutil.AssertJSON(t, w, &resp)
		// remaining is reported from the count before this login
		if resp.UsesRemaining == nil || *resp.UsesRemaining != 3-(i-1) {
			t.Errorf("Login %d: expected usesRemaining %d, got %v", i, 3-(i-1), resp.UsesRemaining)
		}
		if got := testutil.CurrentUses(t, db, id); got != i {
			t.Errorf("Login %d: expected current_uses %d, got %d", i, i, got)
		}
	}

	w := login(t, h, "KOP-CAP")
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	var resp models.VerifyTokenResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Reason != models.ReasonUsageLimit {
		t.Errorf("Expected reason usage_limit, got '%s'", resp.Reason)
	}
	if got := testutil.CurrentUses(t, db, id); got != 3 {
		t.Errorf("Expected current_uses to stay at 3, got %d", got)
	}
}

func TestValidateCodeUnlimited(t *testing.T) {
	h, db := setupAuthHandler(t)
	testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-ANY", Active: true})

	w := login(t, h, "KOP-ANY")
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ValidateCodeResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.UsesRemaining != nil {
		t.Errorf("Expected null usesRemaining, got %d", *resp.UsesRemaining)
	}
	if resp.ExpiresAt != nil {
		t.Errorf("Expected null expiresAt, got %v", resp.ExpiresAt)
	}
}

func TestVerifyToken(t *testing.T) {
	h, db := setupAuthHandler(t)
	id := testutil.CreateAccessCode(t, db, models.AccessCode{
		Code:           "KOP-VERIFY",
		Active:         true,
		MaxUses:        testutil.IntPtr(5),
		DivisionAccess: testutil.StrPtr("3"),
		WardAccess:     testutil.StrPtr("5"),
	})

	w := login(t, h, "KOP-VERIFY")
	testutil.AssertStatus(t, w, http.StatusOK)
	var loginResp models.ValidateCodeResponse
	testutil.AssertJSON(t, w, &loginResp)

	t.Run("round trip", func(t *testing.T) {
		w := verify(t, h, loginResp.Token)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.VerifyTokenResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.Valid {
			t.Fatalf("Expected valid token, got %+v", resp)
		}
		if resp.UsesRemaining == nil || *resp.UsesRemaining != *loginResp.UsesRemaining-1 {
			t.Errorf("Expected usesRemaining %d, got %v", *loginResp.UsesRemaining-1, resp.UsesRemaining)
		}
		if resp.DivisionAccess == nil || *resp.DivisionAccess != "3" || resp.WardAccess == nil || *resp.WardAccess != "5" {
			t.Errorf("Unexpected scope: %v/%v", resp.DivisionAccess, resp.WardAccess)
		}
	})

	t.Run("verify does not count a use", func(t *testing.T) {
		verify(t, h, loginResp.Token)
		verify(t, h, loginResp.Token)
		if got := testutil.CurrentUses(t, db, id); got != 1 {
			t.Errorf("Expected current_uses 1, got %d", got)
		}
	})

	t.Run("no token", func(t *testing.T) {
		w := verify(t, h, "")
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.VerifyTokenResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Valid {
			t.Error("Expected valid=false")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := verify(t, h, "not-a-token")
		testutil.AssertStatus(t, w, http.StatusUnauthorized)

		var resp models.VerifyTokenResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Reason != models.ReasonInvalid {
			t.Errorf("Expected reason invalid, got '%s'", resp.Reason)
		}
	})

	t.Run("forged token", func(t *testing.T) {
		forged, _ := auth.NewToken("someone-elses-secret", time.Hour, id, "KOP-VERIFY")
		w := verify(t, h, forged)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("token for another code value", func(t *testing.T) {
		mismatched, _ := auth.NewToken(testutil.TestTokenSecret, time.Hour, id, "OTHER")
		w := verify(t, h, mismatched)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("token for unknown code", func(t *testing.T) {
		unknown, _ := auth.NewToken(testutil.TestTokenSecret, time.Hour, "missing-id", "KOP-VERIFY")
		w := verify(t, h, unknown)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestVerifyTokenAfterStateChange(t *testing.T) {
	tests := []struct {
		name           string
		update         string
		arg            any
		expectedReason string
	}{
		{"expired after login", `UPDATE access_codes SET expires_at = $1`, time.Now().Add(-time.Minute), models.ReasonExpired},
		{"deactivated after login", `UPDATE access_codes SET active = $1`, false, models.ReasonDeactivated},
		{"cap reached after login", `UPDATE access_codes SET max_uses = $1`, 1, models.ReasonUsageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, db := setupAuthHandler(t)
			testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-STATE", Active: true})

			w := login(t, h, "KOP-STATE")
			testutil.AssertStatus(t, w, http.StatusOK)
			var loginResp models.ValidateCodeResponse
			testutil.AssertJSON(t, w, &loginResp)

			if _, err := db.Exec(tt.update, tt.arg); err != nil {
				t.Fatalf("Failed to update access code: %v", err)
			}

			w = verify(t, h, loginResp.Token)
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
			var resp models.VerifyTokenResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Valid || resp.Reason != tt.expectedReason {
				t.Errorf("Expected reason '%s', got %+v", tt.expectedReason, resp)
			}
		})
	}
}

func TestConcurrentLoginsRespectCap(t *testing.T) {
	h, db := setupAuthHandler(t)
	id := testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-RACE", Active: true, MaxUses: testutil.IntPtr(3)})

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := testutil.MakeRequest("POST", "/api/auth/validate-code", models.ValidateCodeRequest{Code: "KOP-RACE"}, nil)
			w := httptest.NewRecorder()
			h.ValidateCode(w, req)
			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 3 {
		t.Errorf("Expected 3 successful logins, got %d", successCount.Load())
	}
	if got := testutil.CurrentUses(t, db, id); got != 3 {
		t.Errorf("Expected current_uses 3, got %d", got)
	}
}

func TestRequireAccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateAccessCode(t, db, models.AccessCode{Code: "KOP-GATE", Active: true})

	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("disabled passes through", func(t *testing.T) {
		h := NewAuthHandler(db, testutil.GetTestConfig())
		w := httptest.NewRecorder()
		h.RequireAccess(next)(w, httptest.NewRequest("GET", "/api/voters/search", nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	cfg := testutil.GetTestConfig()
	cfg.RequireToken = true
	h := NewAuthHandler(db, cfg)

	w := login(t, h, "KOP-GATE")
	var loginResp models.ValidateCodeResponse
	testutil.AssertJSON(t, w, &loginResp)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + loginResp.Token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := httptest.NewRecorder()
			h.RequireAccess(next)(w, testutil.MakeRequest("GET", "/api/voters/search", nil, headers))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
