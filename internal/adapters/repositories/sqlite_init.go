package repositories

import (
	"context"
	"cvrp-route-service/internal/adapters/vrpfile"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createProblemsQuery := `
	CREATE TABLE IF NOT EXISTS problems (
		name TEXT PRIMARY KEY,
		dimension INTEGER NOT NULL,
		capacity REAL NOT NULL,
		depot INTEGER NOT NULL
	);
	`

	createProblemNodesQuery := `
	CREATE TABLE IF NOT EXISTS problem_nodes (
		problem_name TEXT NOT NULL REFERENCES problems(name) ON DELETE CASCADE,
		node_index INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		demand REAL NOT NULL,
		PRIMARY KEY (problem_name, node_index)
	);
	`

	createSolutionsQuery := `
	CREATE TABLE IF NOT EXISTS solutions (
		solution_id TEXT PRIMARY KEY,
		problem_name TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		total_distance REAL NOT NULL,
		routes_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createSolutionCacheQuery := `
	CREATE TABLE IF NOT EXISTS solution_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at INTEGER
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solutions_problem_name
	ON solutions(problem_name, created_at);
	`

	statements := []string{
		createProblemsQuery,
		createProblemNodesQuery,
		createSolutionsQuery,
		createSolutionCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the database with CVRP instances from TSPLIB files.
//
// seedPath may name a single .vrp file or a directory whose .vrp files are
// loaded in lexical order. Problems are stored under their NAME (or file name
// when NAME is absent); reseeding replaces them. Returns the number of
// problems stored.
func SeedFromVRP(db *sql.DB, seedPath string) (int, error) {
	info, err := os.Stat(seedPath)
	if err != nil {
		return 0, fmt.Errorf("seed problems: stat %q: %w", seedPath, err)
	}

	files := []string{seedPath}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(seedPath, "*.vrp"))
		if err != nil {
			return 0, fmt.Errorf("seed problems: list %q: %w", seedPath, err)
		}
		sort.Strings(files)
	}

	repo := NewSqliteProblemRepository(db)
	for _, f := range files {
		p, err := vrpfile.LoadProblemFile(f)
		if err != nil {
			return 0, fmt.Errorf("seed problems: %w", err)
		}

		if strings.TrimSpace(p.Name) == "" {
			p.Name = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		}

		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("seed problems: %q: %w", f, err)
		}

		if err := repo.SaveProblem(context.Background(), p); err != nil {
			return 0, fmt.Errorf("seed problems: %w", err)
		}
	}

	return len(files), nil
}
