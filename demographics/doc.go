// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package demographics estimates religion and community from voter surnames.

The estimate is non-authoritative: a surname is looked up in a static table
and anything unmatched is reported as Unknown (अज्ञात).

# Tokenizing

	surname := demographics.Surname("पाटील राजेंद्र शंकर", demographics.FirstToken) // "पाटील"

FirstToken suits rolls printed surname-first; LastToken suits given-name-first
lists. The server uses one configured policy everywhere.

# Surname Table

	table, err := demographics.LoadFile("surnames.csv") // or .json

Keys are NFC-normalized, case-folded and trimmed. Matching is exact.

# Aggregation

	resp := demographics.Aggregate(names, table, policy)

returns religion (all labels) and community (top 8) with percentages of the
voters that have a non-empty name.

ClusterFamilies groups voters sharing a surname; TopTokens ranks surnames or
given names by frequency.
*/
package demographics
