package main

import (
	"context"
	"cvrp-route-service/internal/adapters/cache"
	"cvrp-route-service/internal/adapters/repositories"
	"cvrp-route-service/internal/config"
	"cvrp-route-service/internal/platform/db"
	"database/sql"
	"flag"
	"log"
	"strings"
)

// dbtool prepares the databases ahead of a deployment: it creates the SQLite
// schema, loads problem instances, and creates the Postgres cache table when
// DATABASE_URL is set.
func main() {
	configPath := flag.String("config", "", "optional YAML config file (defaults to $CONFIG_FILE)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	sqliteDB, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	initAndSeed(sqliteDB, cfg.SeedPath)

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Println("DATABASE_URL not set, skipping Postgres cache schema.")
		return
	}

	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	log.Println("Initializing Postgres cache schema...")
	if err := cache.InitSQLSchema(context.Background(), pg); err != nil {
		log.Fatalf("cache schema initialization failed: %v", err)
	}
	log.Println("Cache schema ready.")
}

func initAndSeed(sqliteDB *sql.DB, seedPath string) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(sqliteDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	n, err := repositories.SeedFromVRP(sqliteDB, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. problems=%d", n)
}
