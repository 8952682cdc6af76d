// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

var (
	ErrInvalidCode = errors.New("invalid access code")
	ErrDeactivated = errors.New("access code deactivated")
	ErrExpired     = errors.New("access code expired")
	ErrUsageLimit  = errors.New("access code usage limit reached")
)

// Claims identify the access code a token was issued for.
type Claims struct {
	CodeID string `json:"codeId"`
	Code   string `json:"code"`
	jwt.RegisteredClaims
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NormalizeCode trims and upper-cases a code as typed by a user.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check applies the gate rules to a stored code in order: deactivated,
// expired, usage cap. It does not modify the code.
func Check(code models.AccessCode, now time.Time) error {
	if !code.Active {
		return ErrDeactivated
	}
	if code.ExpiresAt != nil && now.After(*code.ExpiresAt) {
		return ErrExpired
	}
	if code.MaxUses != nil && code.CurrentUses >= *code.MaxUses {
		return ErrUsageLimit
	}
	return nil
}

// UsesRemaining is max - used, never below zero; nil when unlimited.
func UsesRemaining(maxUses *int, used int) *int {
	if maxUses == nil {
		return nil
	}
	left := *maxUses - used
	if left < 0 {
		left = 0
	}
	return &left
}

// Reason maps a gate error onto its machine-readable reason.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrDeactivated):
		return models.ReasonDeactivated
	case errors.Is(err, ErrExpired):
		return models.ReasonExpired
	case errors.Is(err, ErrUsageLimit):
		return models.ReasonUsageLimit
	}
	return models.ReasonInvalid
}

// Message is the user-facing text for a gate error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrDeactivated):
		return "This access code has been deactivated"
	case errors.Is(err, ErrExpired):
		return "This access code has expired"
	case errors.Is(err, ErrUsageLimit):
		return "This access code has reached its usage limit"
	}
	return "Invalid access code"
}

// NewToken signs an HS256 token for an access code.
func NewToken(secret string, ttl time.Duration, codeID, code string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		CodeID: codeID,
		Code:   code,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   codeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry. Any failure is ErrInvalidCode
// wrapping the cause.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.CodeID == "" {
		return nil, ErrInvalidCode
	}
	return claims, nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
