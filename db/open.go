// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"gopkg.in/matryer/try.v1"
	_ "modernc.org/sqlite"

	"github.com/dspatil/kop-zp-ps-elections-2026/cliparse"
)

// PingAttempts bounds how many times Open pings the store before giving up.
var PingAttempts = 5

// Open connects to the configured store and verifies the connection.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	driver, dsn, err := DriverAndDSN(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(20)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	err = try.Do(func(attempt int) (bool, error) {
		pingErr := conn.Ping()
		if pingErr != nil {
			slog.Warn("database ping failed", "attempt", attempt, "error", pingErr)
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}
		return attempt < PingAttempts, pingErr
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return conn, nil
}

// DriverAndDSN maps the configuration onto a database/sql driver name and
// connection string. Outside production a postgres URL without an explicit
// sslmode gets sslmode=require: encrypted, certificate not verified.
func DriverAndDSN(cfg cliparse.Config) (string, string, error) {
	switch cfg.DatabaseType {
	case "sqlite":
		return "sqlite", cfg.DatabaseURL, nil
	case "postgres", "":
		dsn, err := withSSLMode(cfg.DatabaseURL, cfg.IsProduction())
		if err != nil {
			return "", "", err
		}
		return "postgres", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

func withSSLMode(raw string, production bool) (string, error) {
	if !strings.HasPrefix(raw, "postgres://") && !strings.HasPrefix(raw, "postgresql://") {
		// key=value DSN, leave untouched
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}
	q := u.Query()
	if q.Get("sslmode") != "" {
		return raw, nil
	}
	if production {
		q.Set("sslmode", "verify-full")
	} else {
		q.Set("sslmode", "require")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
