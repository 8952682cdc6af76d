// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file is read first (path set with -env-file, default ./.env). Values
already present in the environment win over the file.

# CLI Flags and Environment Variables

	-p               PORT            Server port (default: 3000)
	-d               DATABASE_URL    Connection string (required)
	-t               DATABASE_TYPE   postgres (default) or sqlite
	-e               APP_ENV         production or development (default)
	-token-secret    TOKEN_SECRET    Access token signing secret
	-token-ttl       TOKEN_TTL       Access token lifetime (default: 720h)
	-data-dir        DATA_DIR        Fixture directory override
	-surnames        SURNAME_FILE    Surname mapping file (.json or .csv)
	-surname-policy  SURNAME_POLICY  first (default) or last
	-redis           REDIS_ADDR      Response cache address (optional)
	                 REDIS_PASSWORD  Response cache password
	-cache-ttl       CACHE_TTL       Response cache lifetime (default: 10m)
	-require-token   REQUIRE_TOKEN   Gate voter endpoints behind a token

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is not postgres or sqlite
  - TOKEN_SECRET is missing while APP_ENV=production
  - a duration, boolean or surname policy does not parse
*/
package cliparse
