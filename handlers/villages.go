// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"container/heap"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"

	"github.com/dspatil/kop-zp-ps-elections-2026/demographics"
	"github.com/dspatil/kop-zp-ps-elections-2026/filter"
	"github.com/dspatil/kop-zp-ps-elections-2026/middleware"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

// exportRow is one CSV line of a village export
type exportRow struct {
	SerialNo string `csv:"serial_no"`
	EpicID   string `csv:"epic_id"`
	Name     string `csv:"name"`
	Age      string `csv:"age"`
	Gender   string `csv:"gender"`
	Village  string `csv:"village"`
	Division string `csv:"division"`
	Ward     string `csv:"ward"`
	Taluka   string `csv:"taluka"`
}

// Village handles GET /api/voters/village
// list=true enumerates villages, otherwise name selects one village
func (h *VoterHandler) Village(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	if q.Get("list") == "true" {
		villages, err := h.villageSummaries(ctx, villageListFilter.Build(q))
		if err != nil {
			slog.Error("failed to list villages", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.VillageListResponse{
			Total:    len(villages),
			Villages: villages,
		})
		return
	}

	village := strings.TrimSpace(q.Get("name"))
	if village == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Village name is required")
		return
	}

	page := filter.ParsePage(q, villageDefaultLimit, villageMaxLimit)

	statsQuery := villageVoterFilter.Build(q)
	var stats models.GenderCounts
	err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*), `+genderSums(statsQuery)+` FROM voters `+statsQuery.Where(),
		statsQuery.Args()...,
	).Scan(&stats.Total, &stats.Male, &stats.Female)
	if err != nil {
		slog.Error("failed to count village voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	stats.Other = stats.Total - stats.Male - stats.Female

	listQuery := villageVoterFilter.Build(q)
	sqlText := `SELECT ` + voterColumns + ` FROM voters ` + listQuery.Where() +
		` ORDER BY name, epic_id LIMIT ` + listQuery.Arg(page.Limit) + ` OFFSET ` + listQuery.Arg(page.Offset)
	voters, err := h.queryVoters(ctx, sqlText, listQuery.Args()...)
	if err != nil {
		slog.Error("failed to query village voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VillageVotersResponse{
		Village:    village,
		Total:      stats.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: filter.TotalPages(stats.Total, page.Limit),
		Stats:      stats,
		Voters:     voters,
	})
}

// Export handles GET /api/voters/village/export
// Returns the whole village (capped) in serial order, as JSON or CSV
func (h *VoterHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	village := strings.TrimSpace(q.Get("name"))
	if village == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Village name is required")
		return
	}

	// rows stream through a heap that keeps the first exportLimit in serial order
	query := exportFilter.Build(q)
	kept := &serialHeap{}
	err := h.eachVoter(r.Context(), `SELECT `+voterColumns+` FROM voters `+query.Where(), func(v models.Voter) {
		heap.Push(kept, v)
		if kept.Len() > h.exportLimit {
			heap.Pop(kept)
		}
	}, query.Args()...)
	if err != nil {
		slog.Error("failed to export village", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	voters := append([]models.Voter{}, *kept...)
	SortBySerial(voters)

	slog.Info("village exported", "village", village, "rows", humanize.Comma(int64(len(voters))))

	if q.Get("format") == "csv" {
		writeCSV(w, village, voters)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ExportResponse{
		Village: village,
		Count:   len(voters),
		Voters:  voters,
	})
}

func writeCSV(w http.ResponseWriter, village string, voters []models.Voter) {
	rows := make([]*exportRow, 0, len(voters))
	for _, v := range voters {
		rows = append(rows, &exportRow{
			SerialNo: v.SerialNo,
			EpicID:   v.EpicID,
			Name:     v.Name,
			Age:      optionalInt(v.Age),
			Gender:   v.Gender,
			Village:  v.Village,
			Division: optionalInt(v.Division),
			Ward:     optionalInt(v.Ward),
			Taluka:   v.Taluka,
		})
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="voters.csv"; filename*=UTF-8''`+url.PathEscape(village)+`.csv`)
	w.WriteHeader(http.StatusOK)
	if err := gocsv.Marshal(rows, w); err != nil {
		slog.Error("failed to write CSV export", "error", err)
	}
}

func optionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// SortBySerial orders voters by the numeric prefix of their serial number.
// Serials without one go last; ties and the rest are ordered by name, then
// EPIC id.
func SortBySerial(voters []models.Voter) {
	sort.Slice(voters, func(i, j int) bool {
		return serialLess(voters[i], voters[j])
	})
}

func serialLess(a, b models.Voter) bool {
	an, aok := serialNumber(a.SerialNo)
	bn, bok := serialNumber(b.SerialNo)
	if aok != bok {
		return aok
	}
	if aok && an != bn {
		return an < bn
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.EpicID < b.EpicID
}

// serialHeap is a max-heap in serial order: the root is the voter an export
// drops first.
type serialHeap []models.Voter

func (s serialHeap) Len() int           { return len(s) }
func (s serialHeap) Less(i, j int) bool { return serialLess(s[j], s[i]) }
func (s serialHeap) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func (s *serialHeap) Push(x any) { *s = append(*s, x.(models.Voter)) }

func (s *serialHeap) Pop() any {
	old := *s
	v := old[len(old)-1]
	*s = old[:len(old)-1]
	return v
}

// serialNumber parses the leading digits of a serial such as "123/4"
func serialNumber(serial string) (int, bool) {
	serial = strings.TrimSpace(serial)
	end := 0
	for end < len(serial) && serial[end] >= '0' && serial[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(serial[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FamilyStats handles GET /api/voters/family-stats
// Groups the village by surname and reports every group of two or more
func (h *VoterHandler) FamilyStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	village := strings.TrimSpace(q.Get("village"))
	if village == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Village is required")
		return
	}

	query := scopedVillage.Build(q)
	voters, err := h.queryVoters(r.Context(),
		`SELECT `+voterColumns+` FROM voters `+query.Where()+` ORDER BY epic_id`, query.Args()...)
	if err != nil {
		slog.Error("failed to query family voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	families := demographics.ClusterFamilies(voters, h.policy)
	total := len(families)

	limit := filter.ParsePage(q, familyDefaultLimit, familyMaxLimit).Limit
	if len(families) > limit {
		families = families[:limit]
	}

	middleware.JSONResponse(w, http.StatusOK, models.FamilyStatsResponse{
		Village:       village,
		TotalFamilies: total,
		Families:      families,
	})
}
