package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	devTokenSecret = "dev-only-token-secret"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	Environment   string
	TokenSecret   string
	TokenTTL      time.Duration
	DataDir       string
	SurnameFile   string
	SurnamePolicy string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	RequireToken  bool
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file (default ./.env) is loaded first when present; it never
// overrides variables that are already set.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, tokenTTL, cacheTTL, requireToken string

	fs := flag.NewFlagSet("kop-elections", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading env")

	// Network / store
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres or sqlite)")
	fs.StringVar(&cfg.Environment, "e", "", "Runtime environment (production or development)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "Access token signing secret (prefer env)")
	fs.StringVar(&tokenTTL, "token-ttl", "", "Access token lifetime, e.g. 720h")

	// Fixtures and demographics
	fs.StringVar(&cfg.DataDir, "data-dir", "", "Directory overriding the embedded fixtures")
	fs.StringVar(&cfg.SurnameFile, "surnames", "", "Surname mapping file (.json or .csv)")
	fs.StringVar(&cfg.SurnamePolicy, "surname-policy", "", "Surname token policy (first or last)")

	// Cache
	fs.StringVar(&cfg.RedisAddr, "redis", "", "Redis address for the response cache")
	fs.StringVar(&cacheTTL, "cache-ttl", "", "Response cache lifetime, e.g. 10m")

	fs.StringVar(&requireToken, "require-token", "", "Require an access token on voter endpoints (true/false)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = getenv("DATABASE_TYPE", "postgres")
	}
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.Environment == "" {
		cfg.Environment = getenv("APP_ENV", EnvDevelopment)
	}
	cfg.Environment = strings.ToLower(cfg.Environment)

	if cfg.TokenSecret == "" {
		cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	}
	if cfg.TokenSecret == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("TOKEN_SECRET required in production")
		}
		cfg.TokenSecret = devTokenSecret
	}

	var err error
	if cfg.TokenTTL, err = parseDuration(tokenTTL, "TOKEN_TTL", 30*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = parseDuration(cacheTTL, "CACHE_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("DATA_DIR")
	}
	if cfg.SurnameFile == "" {
		cfg.SurnameFile = os.Getenv("SURNAME_FILE")
	}
	if cfg.SurnamePolicy == "" {
		cfg.SurnamePolicy = getenv("SURNAME_POLICY", "first")
	}
	if cfg.SurnamePolicy != "first" && cfg.SurnamePolicy != "last" {
		return Config{}, fmt.Errorf("surname policy must be first or last, got %q", cfg.SurnamePolicy)
	}

	if cfg.RedisAddr == "" {
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if requireToken == "" {
		requireToken = os.Getenv("REQUIRE_TOKEN")
	}
	if requireToken != "" {
		cfg.RequireToken, err = strconv.ParseBool(requireToken)
		if err != nil {
			return Config{}, errors.New("invalid REQUIRE_TOKEN value")
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(flagVal, key string, fallback time.Duration) (time.Duration, error) {
	raw := flagVal
	if raw == "" {
		raw = os.Getenv(key)
	}
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return d, nil
}
