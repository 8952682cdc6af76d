// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/dspatil/kop-zp-ps-elections-2026/demographics"
	"github.com/dspatil/kop-zp-ps-elections-2026/filter"
	"github.com/dspatil/kop-zp-ps-elections-2026/middleware"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

// Analytics handles GET /api/voters/analytics
// Totals for the whole roll, a division or a ward (ward wins over division)
func (h *VoterHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scoped := strings.TrimSpace(q.Get("division")) != "" || strings.TrimSpace(q.Get("ward")) != ""

	h.serveCached(w, r, "analytics", func(ctx context.Context) (any, error) {
		query := analyticsFilter.Build(q)

		cols := []string{"COUNT(*)", genderSums(query)}
		bands := append([]filter.AgeBand{}, filter.ReportBands...)
		bands = append(bands, filter.FirstTimeVoters, filter.SeniorVoters)
		for _, b := range bands {
			cols = append(cols, `COALESCE(SUM(CASE WHEN `+b.Condition("age", query)+` THEN 1 ELSE 0 END), 0)`)
		}

		counts := make([]int, 3+len(bands))
		dest := make([]any, len(counts))
		for i := range counts {
			dest[i] = &counts[i]
		}
		err := h.db.QueryRowContext(ctx,
			`SELECT `+strings.Join(cols, ", ")+` FROM voters `+query.Where(), query.Args()...,
		).Scan(dest...)
		if err != nil {
			return nil, err
		}

		total, male, female := counts[0], counts[1], counts[2]
		if total == 0 {
			return nil, errNoData
		}

		resp := models.AnalyticsResponse{
			Total:     total,
			Gender:    genderBreakdown(total, male, female),
			AgeGroups: make(map[string]int, len(filter.ReportBands)),
		}
		for i, b := range filter.ReportBands {
			resp.AgeGroups[b.Key] = counts[3+i]
		}
		n := len(filter.ReportBands)
		resp.SpecialCategories = models.SpecialCategories{
			FirstTimeVoters: counts[3+n],
			SeniorVoters:    counts[4+n],
		}

		if scoped {
			villages, err := h.villageSummaries(ctx, analyticsFilter.Build(q))
			if err != nil {
				return nil, err
			}
			resp.Villages = villages
		}
		return resp, nil
	})
}

func genderBreakdown(total, male, female int) models.GenderBreakdown {
	other := total - male - female
	return models.GenderBreakdown{
		Male:             male,
		Female:           female,
		Other:            other,
		MalePercentage:   demographics.Percent(male, total),
		FemalePercentage: demographics.Percent(female, total),
		OtherPercentage:  demographics.Percent(other, total),
	}
}

// Demographics handles GET /api/voters/demographics
// Surname based religion and community estimate for one village
func (h *VoterHandler) Demographics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("village")) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Village is required")
		return
	}

	h.serveCached(w, r, "demographics", func(ctx context.Context) (any, error) {
		names, err := h.villageNames(ctx, scopedVillage.Build(q))
		if err != nil {
			return nil, err
		}
		return demographics.Aggregate(names, h.surnames, h.policy), nil
	})
}

func (h *VoterHandler) villageNames(ctx context.Context, query *filter.Query) ([]string, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT COALESCE(name, '') FROM voters `+query.Where()+` ORDER BY epic_id`, query.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// VillageAnalytics handles GET /api/voters/village-analytics
// Campaign view of one village: age by gender, common names, focus groups
func (h *VoterHandler) VillageAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	village := strings.TrimSpace(q.Get("village"))
	if village == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Village is required")
		return
	}

	h.serveCached(w, r, "village-analytics", func(ctx context.Context) (any, error) {
		query := scopedVillage.Build(q)
		voters, err := h.queryVoters(ctx,
			`SELECT `+voterColumns+` FROM voters `+query.Where()+` ORDER BY epic_id`, query.Args()...)
		if err != nil {
			return nil, err
		}
		return h.villageAnalytics(village, voters), nil
	})
}

func (h *VoterHandler) villageAnalytics(village string, voters []models.Voter) models.VillageAnalyticsResponse {
	resp := models.VillageAnalyticsResponse{
		Village:   village,
		Total:     len(voters),
		AgeGender: make(map[string]models.GenderCounts, len(filter.ReportBands)),
	}
	for _, b := range filter.ReportBands {
		resp.AgeGender[b.Key] = models.GenderCounts{}
	}

	var male, female int
	names := make([]string, 0, len(voters))
	surnames := make([]string, 0, len(voters))
	given := make([]string, 0, len(voters))

	for _, v := range voters {
		gender := demographics.ClassifyGender(v.Gender)
		switch gender {
		case demographics.Male:
			male++
		case demographics.Female:
			female++
			resp.FocusGroups.WomenVoters++
		}

		if v.Age != nil {
			age := *v.Age
			for _, b := range filter.ReportBands {
				if b.Contains(age) {
					resp.AgeGender[b.Key] = addGender(resp.AgeGender[b.Key], gender)
					break
				}
			}
			if filter.FirstTimeVoters.Contains(age) {
				resp.FocusGroups.FirstTimeVoters++
			}
			if filter.SeniorVoters.Contains(age) {
				resp.FocusGroups.SeniorVoters++
			}
			if gender == demographics.Female && filter.YoungVoters.Contains(age) {
				resp.FocusGroups.YoungWomen++
			}
		}

		names = append(names, v.Name)
		surnames = append(surnames, demographics.Surname(v.Name, h.policy))
		given = append(given, demographics.GivenName(v.Name, h.policy))
	}

	resp.Gender = genderBreakdown(len(voters), male, female)
	resp.Surnames = demographics.TopTokens(surnames, topTokenCount)
	resp.FirstNames = demographics.TopTokens(given, topTokenCount)
	resp.Demographics = demographics.Aggregate(names, h.surnames, h.policy)
	return resp
}

func addGender(c models.GenderCounts, gender string) models.GenderCounts {
	c.Total++
	switch gender {
	case demographics.Male:
		c.Male++
	case demographics.Female:
		c.Female++
	default:
		c.Other++
	}
	return c
}
