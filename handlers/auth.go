// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dspatil/kop-zp-ps-elections-2026/auth"
	"github.com/dspatil/kop-zp-ps-elections-2026/cliparse"
	"github.com/dspatil/kop-zp-ps-elections-2026/middleware"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, now: time.Now}
}

const accessCodeColumns = `id, code, name, customer, division_access, ward_access,
	expires_at, max_uses, current_uses, active, last_used_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccessCode(row rowScanner) (models.AccessCode, error) {
	var ac models.AccessCode
	var maxUses sql.NullInt64
	err := row.Scan(
		&ac.ID, &ac.Code, &ac.Name, &ac.Customer, &ac.DivisionAccess, &ac.WardAccess,
		&ac.ExpiresAt, &maxUses, &ac.CurrentUses, &ac.Active, &ac.LastUsedAt,
	)
	if err != nil {
		return models.AccessCode{}, err
	}
	if maxUses.Valid {
		n := int(maxUses.Int64)
		ac.MaxUses = &n
	}
	return ac, nil
}

// ValidateCode handles POST /api/auth/validate-code
// Checks the code, counts one use and returns a session token
func (h *AuthHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := auth.NormalizeCode(req.Code)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Access code is required")
		return
	}

	ctx := r.Context()
	ac, err := h.findAccessCode(ctx, code)
	if err == sql.ErrNoRows {
		h.deny(w, r, auth.ErrInvalidCode)
		return
	}
	if err != nil {
		slog.Error("failed to query access code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.now().UTC()
	if err := auth.Check(ac, now); err != nil {
		h.deny(w, r, err)
		return
	}

	// The WHERE clause re-checks the cap so two concurrent logins cannot
	// both take the last use
	var used int
	err = h.db.QueryRowContext(ctx, `
		UPDATE access_codes
		SET current_uses = current_uses + 1, last_used_at = $1
		WHERE id = $2 AND active = $3 AND (max_uses IS NULL OR current_uses < max_uses)
		RETURNING current_uses
	`, now, ac.ID, true).Scan(&used)
	if err == sql.ErrNoRows {
		h.deny(w, r, auth.ErrUsageLimit)
		return
	}
	if err != nil {
		slog.Error("failed to record access code use", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := auth.NewToken(h.cfg.TokenSecret, h.cfg.TokenTTL, ac.ID, auth.NormalizeCode(ac.Code))
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("access code accepted", "code_id", ac.ID, "uses", used)

	middleware.JSONResponse(w, http.StatusOK, models.ValidateCodeResponse{
		Valid:          true,
		Token:          token,
		Name:           ac.Name,
		DivisionAccess: ac.DivisionAccess,
		WardAccess:     ac.WardAccess,
		ExpiresAt:      ac.ExpiresAt,
		UsesRemaining:  auth.UsesRemaining(ac.MaxUses, ac.CurrentUses),
	})
}

// findAccessCode looks a normalized code up case-insensitively. SQL UPPER
// only folds ASCII on sqlite, so a code with other letters is matched by
// normalizing the stored codes here instead.
func (h *AuthHandler) findAccessCode(ctx context.Context, code string) (models.AccessCode, error) {
	ac, err := scanAccessCode(h.db.QueryRowContext(ctx,
		`SELECT `+accessCodeColumns+` FROM access_codes WHERE UPPER(code) = $1`, code))
	if err != sql.ErrNoRows || isASCII(code) {
		return ac, err
	}

	rows, err := h.db.QueryContext(ctx, `SELECT `+accessCodeColumns+` FROM access_codes ORDER BY id`)
	if err != nil {
		return models.AccessCode{}, err
	}
	defer rows.Close()

	for rows.Next() {
		ac, err := scanAccessCode(rows)
		if err != nil {
			return models.AccessCode{}, err
		}
		if auth.NormalizeCode(ac.Code) == code {
			return ac, nil
		}
	}
	if err := rows.Err(); err != nil {
		return models.AccessCode{}, err
	}
	return models.AccessCode{}, sql.ErrNoRows
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// VerifyToken handles GET /api/auth/validate-code?token=
// Same checks as login, without counting a use
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		middleware.JSONResponse(w, http.StatusOK, models.VerifyTokenResponse{Valid: false})
		return
	}

	ac, err := h.authorize(r.Context(), token)
	if isGateError(err) {
		h.deny(w, r, err)
		return
	}
	if err != nil {
		slog.Error("failed to verify token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VerifyTokenResponse{
		Valid:          true,
		Name:           ac.Name,
		DivisionAccess: ac.DivisionAccess,
		WardAccess:     ac.WardAccess,
		UsesRemaining:  auth.UsesRemaining(ac.MaxUses, ac.CurrentUses),
	})
}

// RequireAccess rejects requests without a valid bearer token when the
// server runs with REQUIRE_TOKEN. Otherwise it passes requests through.
func (h *AuthHandler) RequireAccess(next http.HandlerFunc) http.HandlerFunc {
	if !h.cfg.RequireToken {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.BearerToken(r)
		if token == "" {
			middleware.JSONResponse(w, http.StatusUnauthorized, models.VerifyTokenResponse{
				Valid:  false,
				Reason: models.ReasonInvalid,
				Error:  "Access token required",
			})
			return
		}

		_, err := h.authorize(r.Context(), token)
		if isGateError(err) {
			h.deny(w, r, err)
			return
		}
		if err != nil {
			slog.Error("failed to verify token", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		next(w, r)
	}
}

// authorize resolves a token to its access code and applies the gate rules.
// Gate failures come back as auth sentinel errors; anything else is a
// database error.
func (h *AuthHandler) authorize(ctx context.Context, token string) (models.AccessCode, error) {
	claims, err := auth.ParseToken(h.cfg.TokenSecret, token)
	if err != nil {
		return models.AccessCode{}, auth.ErrInvalidCode
	}

	ac, err := scanAccessCode(h.db.QueryRowContext(ctx,
		`SELECT `+accessCodeColumns+` FROM access_codes WHERE id = $1`, claims.CodeID))
	if err == sql.ErrNoRows {
		return models.AccessCode{}, auth.ErrInvalidCode
	}
	if err != nil {
		return models.AccessCode{}, err
	}
	if auth.NormalizeCode(ac.Code) != claims.Code {
		return models.AccessCode{}, auth.ErrInvalidCode
	}

	if err := auth.Check(ac, h.now().UTC()); err != nil {
		return models.AccessCode{}, err
	}
	return ac, nil
}

func (h *AuthHandler) deny(w http.ResponseWriter, r *http.Request, err error) {
	reason := auth.Reason(err)
	slog.Warn("access denied",
		"reason", reason,
		"path", r.URL.Path,
		"client", auth.HashIP(middleware.GetClientIP(r), h.cfg.TokenSecret),
	)
	middleware.JSONResponse(w, http.StatusUnauthorized, models.VerifyTokenResponse{
		Valid:  false,
		Reason: reason,
		Error:  auth.Message(err),
	})
}

func isGateError(err error) bool {
	return errors.Is(err, auth.ErrInvalidCode) ||
		errors.Is(err, auth.ErrDeactivated) ||
		errors.Is(err, auth.ErrExpired) ||
		errors.Is(err, auth.ErrUsageLimit)
}
