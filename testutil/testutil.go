// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dspatil/kop-zp-ps-elections-2026/auth"
	"github.com/dspatil/kop-zp-ps-elections-2026/cliparse"
	"github.com/dspatil/kop-zp-ps-elections-2026/db"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

// TestTokenSecret signs tokens in handler tests
const TestTokenSecret = "test-token-secret"

// SetupTestDB creates a fresh sqlite database file with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "voters.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  "sqlite",
		Environment:   cliparse.EnvDevelopment,
		TokenSecret:   TestTokenSecret,
		TokenTTL:      time.Hour,
		SurnamePolicy: "first",
		CacheTTL:      time.Minute,
	}
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int { return &i }

// StrPtr returns a pointer to s
func StrPtr(s string) *string { return &s }

// InsertVoters writes voters into the roll
func InsertVoters(t *testing.T, conn *sql.DB, voters ...models.Voter) {
	t.Helper()

	for _, v := range voters {
		_, err := conn.Exec(`
			INSERT INTO voters (epic_id, name, age, gender, village, division_no, ward_no, taluka, serial_no)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, v.EpicID, v.Name, v.Age, v.Gender, v.Village, v.Division, v.Ward, v.Taluka, v.SerialNo)
		if err != nil {
			t.Fatalf("Failed to insert voter %s: %v", v.EpicID, err)
		}
	}
}

// CreateAccessCode stores an access code and returns its ID. An empty ID
// or name is filled with a random ID and "Test User". Active is stored as
// given, so callers set it explicitly.
func CreateAccessCode(t *testing.T, conn *sql.DB, code models.AccessCode) string {
	t.Helper()

	if code.ID == "" {
		code.ID, _ = auth.GenerateID(12)
	}
	if code.Name == "" {
		code.Name = "Test User"
	}

	_, err := conn.Exec(`
		INSERT INTO access_codes (id, code, name, customer, division_access, ward_access, expires_at, max_uses, current_uses, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, code.ID, code.Code, code.Name, code.Customer, code.DivisionAccess, code.WardAccess,
		code.ExpiresAt, code.MaxUses, code.CurrentUses, code.Active, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create access code: %v", err)
	}

	return code.ID
}

// CurrentUses reads the usage counter of an access code
func CurrentUses(t *testing.T, conn *sql.DB, id string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT current_uses FROM access_codes WHERE id = $1`, id).Scan(&n); err != nil {
		t.Fatalf("Failed to read current_uses: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
