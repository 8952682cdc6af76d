// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package filter

// AgeBand is an inclusive age range. Max == 0 means open-ended.
type AgeBand struct {
	Key string
	Min int
	Max int
}

// Contains reports whether age falls in the band.
func (b AgeBand) Contains(age int) bool {
	if age < b.Min {
		return false
	}
	return b.Max == 0 || age <= b.Max
}

// Condition renders the band as a predicate on column, binding its bounds
// through q.
func (b AgeBand) Condition(column string, q *Query) string {
	if b.Max == 0 {
		return column + " >= " + q.Arg(b.Min)
	}
	return column + " BETWEEN " + q.Arg(b.Min) + " AND " + q.Arg(b.Max)
}

// PresetBands are the values accepted by the ageGroup parameter.
var PresetBands = []AgeBand{
	{Key: "18-25", Min: 18, Max: 25},
	{Key: "26-35", Min: 26, Max: 35},
	{Key: "36-45", Min: 36, Max: 45},
	{Key: "46-60", Min: 46, Max: 60},
	{Key: "60+", Min: 61},
}

// ReportBands are the four bands reported by the analytics endpoints.
var ReportBands = []AgeBand{
	{Key: "18-25", Min: 18, Max: 25},
	{Key: "26-40", Min: 26, Max: 40},
	{Key: "41-60", Min: 41, Max: 60},
	{Key: "60+", Min: 61},
}

// Special-interest groups.
var (
	FirstTimeVoters = AgeBand{Key: "firstTime", Min: 18, Max: 21}
	SeniorVoters    = AgeBand{Key: "senior", Min: 80}
	YoungVoters     = AgeBand{Key: "young", Min: 18, Max: 35}
)

// LookupBand finds a preset by key.
func LookupBand(key string) (AgeBand, bool) {
	for _, b := range PresetBands {
		if b.Key == key {
			return b, true
		}
	}
	return AgeBand{}, false
}
