// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package filter builds parameterized WHERE clauses for the voter endpoints.

Every recognised parameter is declared once as a Field with its column and
match mode. An endpoint picks the fields it accepts:

	var searchFilter = filter.MustSpec(filter.Combine,
		filter.NameContains, filter.VillageContains, filter.Division, filter.Ward)

	q := searchFilter.Build(r.URL.Query())
	rows, err := db.QueryContext(ctx, "SELECT ... FROM voters "+q.Where(), q.Args()...)

User values only ever travel as arguments; the predicate text holds
placeholders ($1, $2, ...). Callers that need more arguments after Build use
q.Arg so numbering stays consistent.

Division and ward either combine (both ANDed) or, with WardOverrides, a ward
replaces the division condition.
*/
package filter
