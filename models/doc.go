// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Voter: one electoral-roll row, read-only
  - AccessCode: shared access code with expiry, usage cap and counter
  - SurnameInfo: religion/community labels for a surname (English + Marathi)
  - ReservationSeat, Division, Ward: static fixture data

# Response Types

All JSON uses camelCase keys. Errors are always:

	{"error": "message"}

The access-code verify endpoint additionally reports a machine reason:

	ReasonInvalid     = "invalid"
	ReasonDeactivated = "deactivated"
	ReasonExpired     = "expired"
	ReasonUsageLimit  = "usage_limit"

# Constants

Gender labels as printed on the roll (anything else counts as other):

	GenderMale   = "पुरुष"
	GenderFemale = "स्त्री"

Election bodies:

	ElectionZP = "ZP"
	ElectionPS = "PS"
*/
package models
