// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package demographics

import (
	"math"
	"sort"

	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

// MaxCommunities caps the community distribution.
const MaxCommunities = 8

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Percent is count/total*100 rounded to one decimal; 0 when total is 0.
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(count) / float64(total) * 100)
}

// Aggregate infers religion and community from the surname of every name and
// returns both distributions. Voters with a blank name are skipped and do not
// count towards the total. Entries are sorted by count, descending; equal
// counts keep the order in which the label was first seen.
func Aggregate(names []string, table *Table, p Policy) models.DemographicsResponse {
	religions := newTally()
	communities := newTally()
	total := 0

	for _, name := range names {
		token := Surname(name, p)
		if token == "" {
			continue
		}
		total++

		info, ok := table.Lookup(token)
		if !ok {
			info = models.SurnameInfo{}
		}
		religions.add(info.Religion, info.ReligionMr)
		communities.add(info.Community, info.CommunityMr)
	}

	resp := models.DemographicsResponse{
		Religion:    religions.entries(total, 0),
		Community:   communities.entries(total, MaxCommunities),
		TotalVoters: total,
	}
	return resp
}

type tally struct {
	index map[string]int
	list  []models.DemographicEntry
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) add(label, labelMr string) {
	if label == "" {
		label, labelMr = models.UnknownLabel, models.UnknownLabelMr
	}
	if i, ok := t.index[label]; ok {
		t.list[i].Count++
		return
	}
	t.index[label] = len(t.list)
	t.list = append(t.list, models.DemographicEntry{Name: label, NameMr: labelMr, Count: 1})
}

// entries returns the sorted list, truncated to limit when limit > 0.
func (t *tally) entries(total, limit int) []models.DemographicEntry {
	out := make([]models.DemographicEntry, len(t.list))
	copy(out, t.list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Percentage = Percent(out[i].Count, total)
	}
	return out
}

// TopTokens counts tokens and returns the n most frequent, ties in first-seen
// order. Blank tokens are ignored.
func TopTokens(tokens []string, n int) []models.TokenCount {
	index := make(map[string]int)
	var list []models.TokenCount
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if i, ok := index[tok]; ok {
			list[i].Count++
			continue
		}
		index[tok] = len(list)
		list = append(list, models.TokenCount{Name: tok, Count: 1})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Count > list[j].Count
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	if list == nil {
		list = []models.TokenCount{}
	}
	return list
}
