// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package demographics

import (
	"sort"
	"strings"

	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

// Gender classes
const (
	Male   = "male"
	Female = "female"
	Other  = "other"
)

// ClassifyGender maps a roll label onto male, female or other.
func ClassifyGender(label string) string {
	switch strings.TrimSpace(label) {
	case models.GenderMale:
		return Male
	case models.GenderFemale:
		return Female
	}
	return Other
}

// HouseholdKey is the part of a serial number before the first "/", or the
// whole serial when there is none. Members sharing a key are assumed to share
// a house.
func HouseholdKey(serial string) string {
	serial = strings.TrimSpace(serial)
	if i := strings.Index(serial, "/"); i >= 0 {
		return strings.TrimSpace(serial[:i])
	}
	return serial
}

// ClusterFamilies groups voters by surname and returns every group with at
// least two members, largest first, ties by surname.
func ClusterFamilies(voters []models.Voter, p Policy) []models.FamilyGroup {
	type group struct {
		display    string
		members    int
		ageSum     int
		ageCount   int
		minAge     int
		maxAge     int
		male       int
		female     int
		households map[string]struct{}
	}

	groups := make(map[string]*group)
	var order []string

	for _, v := range voters {
		token := Surname(v.Name, p)
		key := Normalize(token)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{display: token, households: make(map[string]struct{})}
			groups[key] = g
			order = append(order, key)
		}
		g.members++
		if v.Age != nil {
			age := *v.Age
			if g.ageCount == 0 || age < g.minAge {
				g.minAge = age
			}
			if g.ageCount == 0 || age > g.maxAge {
				g.maxAge = age
			}
			g.ageSum += age
			g.ageCount++
		}
		switch ClassifyGender(v.Gender) {
		case Male:
			g.male++
		case Female:
			g.female++
		}
		if hk := HouseholdKey(v.SerialNo); hk != "" {
			g.households[hk] = struct{}{}
		}
	}

	families := []models.FamilyGroup{}
	for _, key := range order {
		g := groups[key]
		if g.members < 2 {
			continue
		}
		fam := models.FamilyGroup{
			Surname:    g.display,
			Members:    g.members,
			Male:       g.male,
			Female:     g.female,
			Households: len(g.households),
		}
		if fam.Households == 0 {
			fam.Households = 1
		}
		if g.ageCount > 0 {
			avg := Round1(float64(g.ageSum) / float64(g.ageCount))
			minAge, maxAge := g.minAge, g.maxAge
			fam.AvgAge, fam.MinAge, fam.MaxAge = &avg, &minAge, &maxAge
		}
		families = append(families, fam)
	}

	sort.SliceStable(families, func(i, j int) bool {
		if families[i].Members != families[j].Members {
			return families[i].Members > families[j].Members
		}
		return families[i].Surname < families[j].Surname
	})
	return families
}
