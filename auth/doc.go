// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth implements the access-code gate rules and session tokens.

# Access Codes

Codes are matched case-insensitively; NormalizeCode trims and upper-cases
user input. Check applies the rules to a stored code in this order:

 1. inactive → ErrDeactivated
 2. past its expiry → ErrExpired
 3. current uses >= max uses → ErrUsageLimit

Reason and Message turn those errors into the "reason" field and the
user-facing text of a 401 response.

The usage counter itself is incremented by the login handler with a single
conditional UPDATE so concurrent logins cannot exceed the cap.

# Tokens

A successful login returns an HS256 JWT:

	token, err := auth.NewToken(secret, ttl, codeID, code)
	claims, err := auth.ParseToken(secret, token)

Claims carry the code id and code; the jti is a random UUID. A token without
the server secret cannot be forged.

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)

Used when logging failed logins so raw addresses are not written to logs.
*/
package auth
