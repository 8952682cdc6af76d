// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package demographics

import (
	"fmt"
	"strings"
)

// Policy picks which whitespace token of a full name is the surname.
type Policy int

const (
	// FirstToken reads rolls printed as "surname given-name father-name".
	FirstToken Policy = iota
	// LastToken reads names printed as "given-name ... surname".
	LastToken
)

// ParsePolicy maps "first" / "last" onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return FirstToken, nil
	case "last":
		return LastToken, nil
	}
	return FirstToken, fmt.Errorf("unknown surname policy %q", s)
}

func (p Policy) String() string {
	if p == LastToken {
		return "last"
	}
	return "first"
}

// Surname returns the surname token of name, or "" for a blank name.
// A single-token name is its own surname under both policies.
func Surname(name string, p Policy) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}
	if p == LastToken {
		return tokens[len(tokens)-1]
	}
	return tokens[0]
}

// GivenName returns the token next to the surname: the second token under
// FirstToken, the first under LastToken. "" when the name has one token.
func GivenName(name string, p Policy) string {
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return ""
	}
	if p == LastToken {
		return tokens[0]
	}
	return tokens[1]
}
