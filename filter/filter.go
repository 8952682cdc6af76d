// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Mode says how a request parameter is matched against its column.
type Mode int

const (
	ExactInt Mode = iota // parsed as an integer, compared with =
	Exact                // compared with =
	Contains             // case-insensitive substring
	Band                 // named age band preset
)

// Field binds one request parameter to one column.
type Field struct {
	Param  string
	Column string
	Mode   Mode
}

// ScopeRule decides how division and ward combine when both are given.
type ScopeRule int

const (
	// Combine applies division and ward as independent AND conditions.
	Combine ScopeRule = iota
	// WardOverrides drops the division condition whenever a ward is given.
	WardOverrides
)

// Recognised voter filter fields.
var (
	Division        = Field{Param: "division", Column: "division_no", Mode: ExactInt}
	Ward            = Field{Param: "ward", Column: "ward_no", Mode: ExactInt}
	Village         = Field{Param: "village", Column: "village", Mode: Exact}
	VillageContains = Field{Param: "village", Column: "village", Mode: Contains}
	VillageByName   = Field{Param: "name", Column: "village", Mode: Exact}
	NameContains    = Field{Param: "name", Column: "name", Mode: Contains}
	AgeGroup        = Field{Param: "ageGroup", Column: "age", Mode: Band}
)

// Spec is the validated set of fields an endpoint accepts.
type Spec struct {
	fields []Field
	scope  ScopeRule
}

// MustSpec builds a Spec and panics on a duplicate parameter or an unknown
// mode. Specs are package-level values, so a bad one fails at start-up.
func MustSpec(scope ScopeRule, fields ...Field) Spec {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Param == "" || f.Column == "" {
			panic("filter: field needs a param and a column")
		}
		if seen[f.Param] {
			panic(fmt.Sprintf("filter: duplicate param %q", f.Param))
		}
		if f.Mode < ExactInt || f.Mode > Band {
			panic(fmt.Sprintf("filter: unknown mode %d for %q", f.Mode, f.Param))
		}
		seen[f.Param] = true
	}
	return Spec{fields: fields, scope: scope}
}

// Build turns request values into a parameterized predicate. Blank values
// contribute nothing, unknown age bands are ignored, and a non-numeric value
// for an integer field makes the predicate match no rows.
func (s Spec) Build(values url.Values) *Query {
	q := &Query{}

	wardGiven := strings.TrimSpace(values.Get(Ward.Param)) != ""

	for _, f := range s.fields {
		raw := strings.TrimSpace(values.Get(f.Param))
		if raw == "" {
			continue
		}
		if s.scope == WardOverrides && f.Param == Division.Param && wardGiven {
			continue
		}

		switch f.Mode {
		case ExactInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				q.And("1 = 0")
				continue
			}
			q.And(f.Column + " = " + q.Arg(n))
		case Exact:
			q.And(f.Column + " = " + q.Arg(raw))
		case Contains:
			q.And("LOWER(" + f.Column + ") LIKE LOWER(" + q.Arg("%"+escapeLike(raw)+"%") + `) ESCAPE '\'`)
		case Band:
			band, ok := LookupBand(raw)
			if !ok {
				continue
			}
			q.And(band.Condition(f.Column, q))
		}
	}

	return q
}

// Query accumulates AND conditions and their positional arguments.
type Query struct {
	conds []string
	args  []any
}

// Arg appends a value and returns its placeholder.
func (q *Query) Arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// And adds a condition. Values inside it must come from Arg.
func (q *Query) And(cond string) {
	q.conds = append(q.conds, cond)
}

// Where renders "WHERE a AND b", or "" when there are no conditions.
func (q *Query) Where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.conds, " AND ")
}

// Args returns the positional arguments in placeholder order.
func (q *Query) Args() []any {
	return q.args
}

// Conditions returns the individual predicates.
func (q *Query) Conditions() []string {
	return q.conds
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
