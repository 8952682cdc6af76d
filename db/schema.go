// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to types both postgres and sqlite accept.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	// Voter roll, loaded by the batch import and never written by the API
	`CREATE TABLE IF NOT EXISTS voters (
    epic_id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    age INTEGER,
    gender TEXT NOT NULL DEFAULT '',
    village TEXT NOT NULL DEFAULT '',
    division_no INTEGER,
    ward_no INTEGER,
    taluka TEXT NOT NULL DEFAULT '',
    serial_no TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS idx_voters_village ON voters(village)`,
	`CREATE INDEX IF NOT EXISTS idx_voters_division ON voters(division_no)`,
	`CREATE INDEX IF NOT EXISTS idx_voters_ward ON voters(ward_no)`,
	`CREATE INDEX IF NOT EXISTS idx_voters_name ON voters(name)`,

	// Access codes, created out of band
	`CREATE TABLE IF NOT EXISTS access_codes (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    customer TEXT,
    division_access TEXT,
    ward_access TEXT,
    expires_at TIMESTAMP,
    max_uses INTEGER,
    current_uses INTEGER NOT NULL DEFAULT 0,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    last_used_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (current_uses >= 0)
)`,
	`CREATE INDEX IF NOT EXISTS idx_access_codes_upper_code ON access_codes(UPPER(code))`,
}
