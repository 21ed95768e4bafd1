package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		logging.LogError(logger, "invalid HOS rule set", err, slog.String("path", cfg.RulesPath))
		os.Exit(1)
	}

	conn, err := openDB(cfg)
	if err != nil {
		logging.LogError(logger, "database unavailable", err, slog.String("driver", string(cfg.DBDriver)))
		os.Exit(1)
	}
	defer logging.SafeCloseWithLogging(conn, logger, "close database")

	if err := repositories.InitSchema(conn); err != nil {
		logging.LogError(logger, "schema initialization failed", err)
		os.Exit(1)
	}

	metrics.RegisterDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var distanceCache ports.DistanceCache = cache.NewSQLDistanceCache(conn, cfg.DBDriver)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logging.LogError(logger, "redis unavailable, using SQL distance cache only", err)
		} else {
			defer logging.SafeCloseWithLogging(rdb, logger, "close redis")
			// Redis answers first; SQL keeps results across Redis evictions.
			distanceCache = cache.NewLayeredDistanceCache(
				cache.NewRedisDistanceCache(rdb, cfg.RedisTTL),
				distanceCache,
			)
		}
	}

	repo := repositories.NewSQLTripRepository(conn, cfg.DBDriver)
	planner := &services.TripPlanner{
		Rules:         rules,
		Repo:          repo,
		LookupTimeout: cfg.LookupTimeout,
	}

	if cfg.ORSAPIKey != "" {
		provider, err := distance.NewORSProvider(cfg.ORSAPIKey, distanceCache, cache.NewSQLGeocodeCache(conn, cfg.DBDriver),
			distance.WithRateLimit(cfg.ORSRatePerSecond))
		if err != nil {
			logging.LogError(logger, "ORS provider setup failed", err)
			os.Exit(1)
		}
		planner.Distance = provider
		planner.Geocoder = provider
	} else {
		logger.Warn("ORS_API_KEY not set; distances use route heuristics and stops carry no coordinates")
	}

	router := api.NewRouter(api.Deps{
		Planner:     planner,
		Repo:        repo,
		Ping:        conn.PingContext,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	// Write timeout covers cold-cache geocode and matrix lookups.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "server failed", err)
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "graceful shutdown failed", err)
	}
}

func openDB(cfg config.Config) (*sql.DB, error) {
	if cfg.DBDriver == db.SQLite && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("openDB: create data dir: %w", err)
		}
	}
	return db.Open(cfg.DBDriver, cfg.DSN())
}
