// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fixtures

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dspatil/kop-zp-ps-elections-2026/demographics"
	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

// File names looked up in the data directory and the embedded set
const (
	ReservationsFile = "reservations.json"
	DivisionsFile    = "divisions.json"
	SurnamesFile     = "surnames.json"
)

//go:embed data/*.json
var embedded embed.FS

// Set holds the static datasets served next to the voter roll.
type Set struct {
	Reservations []models.ReservationSeat
	Divisions    []models.Division
}

// ReservationFilter narrows the reservation list. Zero values match all.
type ReservationFilter struct {
	ElectionType string
	Taluka       string
	Category     string
	Women        *bool
}

type reservationRow struct {
	ID           string `json:"id"`
	ElectionType string `json:"electionType"`
	Division     string `json:"division"`
	Taluka       string `json:"taluka"`
	Category     string `json:"category"`
	SourcePage   int    `json:"sourcePage"`
}

// Open returns the named fixture from dataDir when present there, otherwise
// the embedded copy.
func Open(dataDir, name string) (io.ReadCloser, error) {
	if dataDir != "" {
		f, err := os.Open(filepath.Join(dataDir, name))
		if err == nil {
			slog.Info("using fixture override", "file", name, "dir", dataDir)
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to open fixture %s: %w", name, err)
		}
	}
	f, err := embedded.Open("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("no embedded fixture %s: %w", name, err)
	}
	return f, nil
}

// Load reads the reservation and ward-composition fixtures.
func Load(dataDir string) (*Set, error) {
	var rows []reservationRow
	if err := decode(dataDir, ReservationsFile, &rows); err != nil {
		return nil, err
	}

	set := &Set{Reservations: make([]models.ReservationSeat, 0, len(rows))}
	for _, row := range rows {
		category, women, err := NormalizeCategory(row.Category)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", row.ID, err)
		}
		electionType := strings.ToUpper(strings.TrimSpace(row.ElectionType))
		if electionType != models.ElectionZP && electionType != models.ElectionPS {
			return nil, fmt.Errorf("seat %s: unknown election type %q", row.ID, row.ElectionType)
		}
		set.Reservations = append(set.Reservations, models.ReservationSeat{
			ID:           row.ID,
			ElectionType: electionType,
			Division:     row.Division,
			Taluka:       row.Taluka,
			Category:     category,
			Women:        women,
			SourcePage:   row.SourcePage,
		})
	}

	if err := decode(dataDir, DivisionsFile, &set.Divisions); err != nil {
		return nil, err
	}
	sort.SliceStable(set.Divisions, func(i, j int) bool {
		return set.Divisions[i].DivisionNo < set.Divisions[j].DivisionNo
	})

	return set, nil
}

// LoadSurnames reads the surname table: path when given (.json or .csv),
// otherwise surnames.json from dataDir or the embedded copy.
func LoadSurnames(dataDir, path string) (*demographics.Table, error) {
	if path != "" {
		return demographics.LoadFile(path)
	}
	f, err := Open(dataDir, SurnamesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return demographics.LoadJSON(f)
}

// NormalizeCategory splits a printed category such as "OBC (Women)" into
// the base category and the women flag.
func NormalizeCategory(raw string) (string, bool, error) {
	s := strings.TrimSpace(raw)
	women := false
	if i := strings.Index(s, "("); i >= 0 {
		suffix := strings.TrimSpace(s[i:])
		if !strings.EqualFold(suffix, "(Women)") {
			return "", false, fmt.Errorf("unknown category %q", raw)
		}
		women = true
		s = strings.TrimSpace(s[:i])
	}
	for _, c := range []string{models.CategoryGeneral, models.CategoryOBC, models.CategorySC, models.CategoryST} {
		if strings.EqualFold(s, c) {
			return c, women, nil
		}
	}
	return "", false, fmt.Errorf("unknown category %q", raw)
}

// FilterReservations returns the matching seats with per-category and women
// totals.
func (s *Set) FilterReservations(f ReservationFilter) models.ReservationsResponse {
	resp := models.ReservationsResponse{
		Summary: models.ReservationSummary{ByCategory: map[string]int{}},
		Seats:   []models.ReservationSeat{},
	}
	for _, seat := range s.Reservations {
		if f.ElectionType != "" && !strings.EqualFold(seat.ElectionType, f.ElectionType) {
			continue
		}
		if f.Taluka != "" && !strings.EqualFold(seat.Taluka, f.Taluka) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(seat.Category, f.Category) {
			continue
		}
		if f.Women != nil && seat.Women != *f.Women {
			continue
		}
		resp.Seats = append(resp.Seats, seat)
		resp.Summary.ByCategory[seat.Category]++
		if seat.Women {
			resp.Summary.Women++
		}
	}
	resp.Total = len(resp.Seats)
	return resp
}

// Division finds a division by number.
func (s *Set) Division(no int) (models.Division, bool) {
	for _, d := range s.Divisions {
		if d.DivisionNo == no {
			return d, true
		}
	}
	return models.Division{}, false
}

func decode(dataDir, name string, v interface{}) error {
	f, err := Open(dataDir, name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
