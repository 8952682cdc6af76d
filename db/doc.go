// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the voter store and creates its schema.

# Connecting

Open picks the driver from the configuration and pings with a bounded retry:

	conn, err := db.Open(cfg)

Supported drivers:

  - postgres: github.com/lib/pq. Outside production a URL without sslmode
    gets sslmode=require (encrypted, certificate not verified); production
    gets sslmode=verify-full.
  - sqlite: modernc.org/sqlite, used for local runs and tests. The pool is
    limited to one connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voters: the electoral roll (epic_id, name, age, gender, village,
    division_no, ward_no, taluka, serial_no). Read-only for the API.
  - access_codes: shared access codes with expiry, usage cap, usage counter
    and active flag. Only current_uses and last_used_at are written by the API.

# Indexes

  - voters.village, voters.division_no, voters.ward_no, voters.name
  - UPPER(access_codes.code) for case-insensitive lookup
*/
package db
