package main

import (
	"context"
	"cvrp-route-service/internal/adapters/cache"
	"cvrp-route-service/internal/adapters/repositories"
	"cvrp-route-service/internal/api"
	"cvrp-route-service/internal/config"
	"cvrp-route-service/internal/platform/db"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/services"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	configPath := flag.String("config", "", "optional YAML config file (defaults to $CONFIG_FILE)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	defaultAlgo, err := services.ParseAlgorithm(cfg.DefaultAlgorithm)
	if err != nil {
		log.Fatal(err)
	}

	sqliteDB, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	// Initialize schema and seed problem instances on startup for local runs.
	if err := initAndSeed(sqliteDB, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	solutionCache, closeCache, err := openCache(cfg, sqliteDB)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	router := api.NewRouter(api.Deps{
		Problems:         repositories.NewSqliteProblemRepository(sqliteDB),
		Solutions:        repositories.NewSqliteSolutionRepository(sqliteDB),
		Cache:            solutionCache,
		DefaultAlgorithm: defaultAlgo,
		Limiter:          limiter,
		MaxNodes:         cfg.MaxNodes,
	})

	// Savings on a few thousand customers is CPU bound; the write timeout leaves room for it.
	log.Printf("Server listening addr=:%s cache=%s algorithm=%s", cfg.Port, cfg.CacheBackend, defaultAlgo)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(sqliteDB *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(sqliteDB); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, fs.ErrNotExist) {
		log.Printf("seed path not found, skipping seeding: path=%s", seedPath)
		return nil
	}

	n, err := repositories.SeedFromVRP(sqliteDB, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Printf("seeded problems: count=%d path=%s", n, seedPath)

	return nil
}

// openCache selects the solution cache backend. The returned func releases
// any connection the backend opened.
func openCache(cfg config.Config, sqliteDB *sql.DB) (ports.SolutionCache, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case "none":
		return nil, noop, nil
	case "sqlite":
		return cache.NewSqliteSolutionCache(sqliteDB, cfg.CacheTTL), noop, nil
	case "postgres":
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open cache: %w", err)
		}
		if err := cache.InitSQLSchema(context.Background(), pg); err != nil {
			_ = pg.Close()
			return nil, noop, fmt.Errorf("open cache: %w", err)
		}
		return cache.NewSQLSolutionCache(pg, cfg.CacheTTL), func() { _ = pg.Close() }, nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rdb, err := cache.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open cache: %w", err)
		}
		return cache.NewRedisSolutionCache(rdb, cfg.CacheTTL), func() { _ = rdb.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("open cache: unknown backend %q", cfg.CacheBackend)
	}
}
