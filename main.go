package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"

	"github.com/dspatil/kop-zp-ps-elections-2026/cache"
	"github.com/dspatil/kop-zp-ps-elections-2026/cliparse"
	"github.com/dspatil/kop-zp-ps-elections-2026/db"
	"github.com/dspatil/kop-zp-ps-elections-2026/fixtures"
	"github.com/dspatil/kop-zp-ps-elections-2026/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect and verify, retrying the ping
	dbConn, err := db.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Static data
	surnames, err := fixtures.LoadSurnames(cfg.DataDir, cfg.SurnameFile)
	if err != nil {
		slog.Error("surname table load failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Surname table loaded", "entries", humanize.Comma(int64(surnames.Len())))

	set, err := fixtures.Load(cfg.DataDir)
	if err != nil {
		slog.Error("fixture load failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Election fixtures loaded",
		"seats", len(set.Reservations),
		"divisions", len(set.Divisions),
	)

	// Response cache, only when redis is configured and reachable
	var responseCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		pingErr := client.Ping(ctx).Err()
		cancel()
		if pingErr != nil {
			slog.Warn("redis unavailable, caching disabled", "addr", cfg.RedisAddr, "error", pingErr)
			client.Close()
		} else {
			defer client.Close()
			responseCache = cache.NewRedis(client, cfg.CacheTTL)
			slog.Info("Response cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	// Create router
	handler := router.NewRouter(dbConn, cfg, surnames, responseCache, set)

	// Create server
	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "env", cfg.Environment, "require_token", cfg.RequireToken)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
