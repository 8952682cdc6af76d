// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dspatil/kop-zp-ps-elections-2026/cache"
	"github.com/dspatil/kop-zp-ps-elections-2026/cliparse"
	"github.com/dspatil/kop-zp-ps-elections-2026/demographics"
	"github.com/dspatil/kop-zp-ps-elections-2026/filter"
	"github.com/dspatil/kop-zp-ps-elections-2026/middleware"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

// Page sizes per endpoint
const (
	searchDefaultLimit  = 20
	searchMaxLimit      = 100
	villageDefaultLimit = 50
	villageMaxLimit     = 200
	familyDefaultLimit  = 20
	familyMaxLimit      = 50
	exportMaxRows       = 20000
	minEpicLength       = 3
	topTokenCount       = 10
)

// Filters accepted by each endpoint
var (
	searchFilter       = filter.MustSpec(filter.Combine, filter.NameContains, filter.VillageContains, filter.Division, filter.Ward)
	villageListFilter  = filter.MustSpec(filter.Combine, filter.Division, filter.Ward)
	villageVoterFilter = filter.MustSpec(filter.Combine, filter.VillageByName, filter.Division, filter.Ward, filter.AgeGroup)
	exportFilter       = filter.MustSpec(filter.Combine, filter.VillageByName, filter.Division, filter.Ward)
	scopedVillage      = filter.MustSpec(filter.Combine, filter.Village, filter.Division, filter.Ward)
	analyticsFilter    = filter.MustSpec(filter.WardOverrides, filter.Division, filter.Ward)
)

const voterColumns = `epic_id, name, age, gender, village, division_no, ward_no, taluka, serial_no`

var errNoData = errors.New("no data")

type VoterHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	surnames *demographics.Table
	policy   demographics.Policy
	cache    cache.Cache

	// exportLimit caps the rows of one village export
	exportLimit int
}

func NewVoterHandler(db *sql.DB, cfg cliparse.Config, surnames *demographics.Table, c cache.Cache) *VoterHandler {
	policy, err := demographics.ParsePolicy(cfg.SurnamePolicy)
	if err != nil {
		slog.Warn("falling back to first-token surnames", "error", err)
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &VoterHandler{
		db:          db,
		cfg:         cfg,
		surnames:    surnames,
		policy:      policy,
		cache:       c,
		exportLimit: exportMaxRows,
	}
}

// Search handles GET /api/voters/search
func (h *VoterHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("name")) == "" && strings.TrimSpace(q.Get("village")) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Name or village is required")
		return
	}

	page := filter.ParsePage(q, searchDefaultLimit, searchMaxLimit)
	query := searchFilter.Build(q)
	ctx := r.Context()

	var total int
	err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters `+query.Where(), query.Args()...).Scan(&total)
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sqlText := `SELECT ` + voterColumns + ` FROM voters ` + query.Where() +
		` ORDER BY name, epic_id LIMIT ` + query.Arg(page.Limit) + ` OFFSET ` + query.Arg(page.Offset)
	voters, err := h.queryVoters(ctx, sqlText, query.Args()...)
	if err != nil {
		slog.Error("failed to search voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SearchResponse{
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: filter.TotalPages(total, page.Limit),
		Voters:     voters,
	})
}

// Epic handles GET /api/voters/epic/{id}
func (h *VoterHandler) Epic(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if len(id) < minEpicLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid EPIC ID")
		return
	}

	voters, err := h.queryVoters(r.Context(),
		`SELECT `+voterColumns+` FROM voters WHERE UPPER(epic_id) = $1 LIMIT 1`, strings.ToUpper(id))
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(voters) == 0 {
		middleware.JSONResponse(w, http.StatusNotFound, models.EpicResponse{Found: false, Error: "Voter not found"})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EpicResponse{Found: true, Voter: &voters[0]})
}

// queryVoters runs a query selecting voterColumns and reads every row before
// returning, so the connection is free for the next statement.
func (h *VoterHandler) queryVoters(ctx context.Context, query string, args ...any) ([]models.Voter, error) {
	voters := []models.Voter{}
	err := h.eachVoter(ctx, query, func(v models.Voter) {
		voters = append(voters, v)
	}, args...)
	if err != nil {
		return nil, err
	}
	return voters, nil
}

// eachVoter streams the rows of a voterColumns query into fn
func (h *VoterHandler) eachVoter(ctx context.Context, query string, fn func(models.Voter), args ...any) error {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return err
		}
		fn(v)
	}
	return rows.Err()
}

func scanVoter(row rowScanner) (models.Voter, error) {
	var v models.Voter
	var name, gender, village, taluka, serial sql.NullString
	var age, division, ward sql.NullInt64
	err := row.Scan(&v.EpicID, &name, &age, &gender, &village, &division, &ward, &taluka, &serial)
	if err != nil {
		return models.Voter{}, err
	}
	v.Name = name.String
	v.Gender = gender.String
	v.Village = village.String
	v.Taluka = taluka.String
	v.SerialNo = serial.String
	v.Age = intOrNil(age)
	v.Division = intOrNil(division)
	v.Ward = intOrNil(ward)
	return v, nil
}

func intOrNil(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}

// genderSums renders the male/female SUM columns for a gender count query
func genderSums(q *filter.Query) string {
	return `COALESCE(SUM(CASE WHEN TRIM(gender) = ` + q.Arg(models.GenderMale) + ` THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN TRIM(gender) = ` + q.Arg(models.GenderFemale) + ` THEN 1 ELSE 0 END), 0)`
}

// villageSummaries groups the rows matched by q per village
func (h *VoterHandler) villageSummaries(ctx context.Context, q *filter.Query) ([]models.VillageSummary, error) {
	q.And(`village <> ''`)
	sqlText := `SELECT village, COUNT(*), ` + genderSums(q) + `
		FROM voters ` + q.Where() + `
		GROUP BY village
		ORDER BY village`

	rows, err := h.db.QueryContext(ctx, sqlText, q.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	villages := []models.VillageSummary{}
	for rows.Next() {
		var s models.VillageSummary
		if err := rows.Scan(&s.Village, &s.Total, &s.Male, &s.Female); err != nil {
			return nil, err
		}
		s.Other = s.Total - s.Male - s.Female
		villages = append(villages, s)
	}
	return villages, rows.Err()
}

// serveCached answers from the response cache when possible, otherwise runs
// compute and stores its encoded result. errNoData becomes a 404.
func (h *VoterHandler) serveCached(w http.ResponseWriter, r *http.Request, endpoint string, compute func(context.Context) (any, error)) {
	ctx := r.Context()
	key := cache.Key(endpoint, r.URL.Query())

	if body, ok := h.cache.Get(ctx, key); ok {
		middleware.RawJSONResponse(w, http.StatusOK, body)
		return
	}

	resp, err := compute(ctx)
	if errors.Is(err, errNoData) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No data found")
		return
	}
	if err != nil {
		slog.Error("failed to compute "+endpoint, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to encode "+endpoint, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.cache.Set(ctx, key, body)
	middleware.RawJSONResponse(w, http.StatusOK, body)
}
