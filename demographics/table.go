// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package demographics

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/dspatil/kop-zp-ps-elections-2026/models"
)

// Table maps normalized surnames to religion/community labels. It is built
// once and only read afterwards, so concurrent lookups are safe.
type Table struct {
	entries map[string]models.SurnameInfo
}

// csvRow is one line of a surname CSV file.
type csvRow struct {
	Surname     string `csv:"surname"`
	Religion    string `csv:"religion"`
	ReligionMr  string `csv:"religion_mr"`
	Community   string `csv:"community"`
	CommunityMr string `csv:"community_mr"`
}

// Normalize composes, case-folds and trims a surname token.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// cases.Caser is stateful; one per call
	return cases.Fold().String(norm.NFC.String(s))
}

// NewTable builds a Table from raw surname keys. When two raw keys normalize
// to the same surname the first one (in sorted key order for maps) wins and
// the duplicate is logged.
func NewTable(raw map[string]models.SurnameInfo) *Table {
	t := &Table{entries: make(map[string]models.SurnameInfo, len(raw))}
	for _, key := range sortedKeys(raw) {
		t.add(key, raw[key])
	}
	return t
}

func (t *Table) add(surname string, info models.SurnameInfo) {
	key := Normalize(surname)
	if key == "" {
		return
	}
	if _, dup := t.entries[key]; dup {
		slog.Warn("duplicate surname mapping ignored", "surname", surname)
		return
	}
	t.entries[key] = info
}

// Lookup returns the labels for a surname token, matching exactly after
// normalization.
func (t *Table) Lookup(token string) (models.SurnameInfo, bool) {
	if t == nil {
		return models.SurnameInfo{}, false
	}
	info, ok := t.entries[Normalize(token)]
	return info, ok
}

// Len reports the number of surnames.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// LoadJSON reads an object of surname → labels.
func LoadJSON(r io.Reader) (*Table, error) {
	var raw map[string]models.SurnameInfo
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode surname JSON: %w", err)
	}
	return NewTable(raw), nil
}

// LoadCSV reads rows with the header
// surname,religion,religion_mr,community,community_mr.
func LoadCSV(r io.Reader) (*Table, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode surname CSV: %w", err)
	}
	t := &Table{entries: make(map[string]models.SurnameInfo, len(rows))}
	for _, row := range rows {
		t.add(row.Surname, models.SurnameInfo{
			Religion:    row.Religion,
			ReligionMr:  row.ReligionMr,
			Community:   row.Community,
			CommunityMr: row.CommunityMr,
		})
	}
	return t, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open surname file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".json":
		return LoadJSON(f)
	}
	return nil, fmt.Errorf("unsupported surname file type %q", filepath.Ext(path))
}

func sortedKeys(m map[string]models.SurnameInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
