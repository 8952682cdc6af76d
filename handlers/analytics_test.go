// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dspatil/kop-zp-ps-elections-2026/models"
	"github.com/dspatil/kop-zp-ps-elections-2026/testutil"
)

func TestAnalytics(t *testing.T) {
	handler, _ := setupVoterHandler(t)

	t.Run("whole roll", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Analytics(w, testutil.MakeRequest("GET", "/api/voters/analytics", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.AnalyticsResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Total != 10 {
			t.Errorf("Expected 10 voters, got %d", resp.Total)
		}
		wantGender := models.GenderBreakdown{
			Male: 5, Female: 4, Other: 1,
			MalePercentage: 50, FemalePercentage: 40, OtherPercentage: 10,
		}
		if resp.Gender != wantGender {
			t.Errorf("Expected gender %+v, got %+v", wantGender, resp.Gender)
		}
		wantAges := map[string]int{"18-25": 3, "26-40": 3, "41-60": 1, "60+": 2}
		for band, n := range wantAges {
			if resp.AgeGroups[band] != n {
				t.Errorf("Expected %d voters in %s, got %d", n, band, resp.AgeGroups[band])
			}
		}
		if resp.SpecialCategories.FirstTimeVoters != 2 || resp.SpecialCategories.SeniorVoters != 1 {
			t.Errorf("Unexpected special categories: %+v", resp.SpecialCategories)
		}
		if resp.Villages != nil {
			t.Errorf("Expected no village breakdown without a scope, got %v", resp.Villages)
		}
	})

	tests := []struct {
		name             string
		query            string
		expectedStatus   int
		expectedTotal    int
		expectedVillages int
	}{
		{"division", "?division=1", http.StatusOK, 8, 2},
		{"ward overrides division", "?division=2&ward=2", http.StatusOK, 2, 1},
		{"ward only", "?ward=3", http.StatusOK, 2, 1},
		{"unknown division", "?division=9", http.StatusNotFound, 0, 0},
		{"non-numeric ward", "?ward=x", http.StatusNotFound, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Analytics(w, testutil.MakeRequest("GET", "/api/voters/analytics"+tt.query, nil, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Error != "No data found" {
					t.Errorf("Expected 'No data found', got '%s'", resp.Error)
				}
				return
			}

			var resp models.AnalyticsResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Total != tt.expectedTotal {
				t.Errorf("Expected total %d, got %d", tt.expectedTotal, resp.Total)
			}
			if len(resp.Villages) != tt.expectedVillages {
				t.Errorf("Expected %d villages, got %d", tt.expectedVillages, len(resp.Villages))
			}
		})
	}
}

func TestAnalyticsCached(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedRoll(t, db)
	c := newMemoryCache()
	handler := NewVoterHandler(db, testutil.GetTestConfig(), testSurnames(), c)

	first := httptest.NewRecorder()
	handler.Analytics(first, testutil.MakeRequest("GET", "/api/voters/analytics?division=1", nil, nil))
	testutil.AssertStatus(t, first, http.StatusOK)

	if _, err := db.Exec(`DELETE FROM voters`); err != nil {
		t.Fatalf("Failed to clear voters: %v", err)
	}

	second := httptest.NewRecorder()
	handler.Analytics(second, testutil.MakeRequest("GET", "/api/voters/analytics?division=1", nil, nil))
	testutil.AssertStatus(t, second, http.StatusOK)

	var resp models.AnalyticsResponse
	testutil.AssertJSON(t, second, &resp)
	if resp.Total != 8 {
		t.Errorf("Expected cached total 8, got %d", resp.Total)
	}
	if c.hits != 1 {
		t.Errorf("Expected 1 cache hit, got %d", c.hits)
	}

	// a different scope is not served from the cache
	third := httptest.NewRecorder()
	handler.Analytics(third, testutil.MakeRequest("GET", "/api/voters/analytics?division=2", nil, nil))
	testutil.AssertStatus(t, third, http.StatusNotFound)
}

func TestDemographics(t *testing.T) {
	handler, _ := setupVoterHandler(t)

	t.Run("missing village", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Demographics(w, testutil.MakeRequest("GET", "/api/voters/demographics", nil, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("village", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Demographics(w, testutil.MakeRequest("GET", "/api/voters/demographics?village=Uchgaon", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.DemographicsResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.TotalVoters != 6 {
			t.Errorf("Expected 6 voters, got %d", resp.TotalVoters)
		}
		if len(resp.Religion) != 2 {
			t.Fatalf("Expected 2 religions, got %d", len(resp.Religion))
		}
		if r := resp.Religion[0]; r.Name != "Hindu" || r.Count != 5 || r.Percentage != 83.3 {
			t.Errorf("Unexpected first religion: %+v", r)
		}
		if r := resp.Religion[1]; r.Name != "Muslim" || r.Count != 1 || r.Percentage != 16.7 {
			t.Errorf("Unexpected second religion: %+v", r)
		}
		if c := resp.Community[0]; c.Name != "Maratha" || c.NameMr != "मराठा" {
			t.Errorf("Unexpected first community: %+v", c)
		}
	})

	t.Run("unmatched surnames are unknown", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Demographics(w, testutil.MakeRequest("GET", "/api/voters/demographics?village=Shiye", nil, nil))

		var resp models.DemographicsResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Religion) != 1 || resp.Religion[0].Name != models.UnknownLabel || resp.Religion[0].Percentage != 100 {
			t.Errorf("Expected everything Unknown, got %+v", resp.Religion)
		}
	})

	t.Run("no voters", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Demographics(w, testutil.MakeRequest("GET", "/api/voters/demographics?village=Nowhere", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.DemographicsResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.TotalVoters != 0 || len(resp.Religion) != 0 || len(resp.Community) != 0 {
			t.Errorf("Expected empty demographics, got %+v", resp)
		}
		if resp.Religion == nil || resp.Community == nil {
			t.Error("Expected empty lists, not null")
		}
	})
}

func TestVillageAnalytics(t *testing.T) {
	handler, _ := setupVoterHandler(t)

	t.Run("missing village", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.VillageAnalytics(w, testutil.MakeRequest("GET", "/api/voters/village-analytics", nil, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	w := httptest.NewRecorder()
	handler.VillageAnalytics(w, testutil.MakeRequest("GET", "/api/voters/village-analytics?village=Uchgaon", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.VillageAnalyticsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Village != "Uchgaon" || resp.Total != 6 {
		t.Errorf("Expected 6 voters in Uchgaon, got %s/%d", resp.Village, resp.Total)
	}
	if resp.Gender.Male != 3 || resp.Gender.Female != 3 || resp.Gender.MalePercentage != 50 {
		t.Errorf("Unexpected gender: %+v", resp.Gender)
	}

	wantAgeGender := map[string]models.GenderCounts{
		"18-25": {Total: 2, Female: 2},
		"26-40": {Total: 3, Male: 2, Female: 1},
		"41-60": {},
		"60+":   {Total: 1, Male: 1},
	}
	for band, want := range wantAgeGender {
		if got := resp.AgeGender[band]; got != want {
			t.Errorf("AgeGender[%s] = %+v, want %+v", band, got, want)
		}
	}

	if len(resp.Surnames) != 3 || resp.Surnames[0].Name != "पाटील" || resp.Surnames[0].Count != 3 {
		t.Errorf("Unexpected surnames: %+v", resp.Surnames)
	}
	if len(resp.FirstNames) != 6 || resp.FirstNames[0].Name != "राम" {
		t.Errorf("Unexpected first names: %+v", resp.FirstNames)
	}

	wantFocus := models.FocusGroups{FirstTimeVoters: 1, YoungWomen: 2, SeniorVoters: 1, WomenVoters: 3}
	if resp.FocusGroups != wantFocus {
		t.Errorf("Expected focus groups %+v, got %+v", wantFocus, resp.FocusGroups)
	}
	if resp.Demographics.TotalVoters != 6 || len(resp.Demographics.Religion) != 2 {
		t.Errorf("Unexpected demographics: %+v", resp.Demographics)
	}
}
