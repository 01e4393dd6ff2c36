package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLSolutionCache is a Postgres-backed cache for solved problems.
type SQLSolutionCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLSolutionCache(db *sql.DB, ttl time.Duration) *SQLSolutionCache {
	return &SQLSolutionCache{DB: db, TTL: ttl}
}

// Create the solution_cache table in Postgres.
func InitSQLSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init solution cache schema: DB is nil")
	}

	_, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS solution_cache (
		cache_key TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		expires_at TIMESTAMPTZ
	);
	`)
	if err != nil {
		return fmt.Errorf("init solution cache schema: %w", err)
	}

	return nil
}

// Fetch one cached solution by key.
func (s *SQLSolutionCache) Get(ctx context.Context, key string) (_ *domain.Solution, _ bool, err error) {
	defer obs.Time(ctx, "solution.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("solution cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get solution cache: key must not be empty")
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT payload
	FROM solution_cache
	WHERE cache_key = $1
		AND (expires_at IS NULL OR expires_at > now());
	`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get solution cache: query solution_cache table: %w", err)
	}

	sol, err := decodeSolution(payload)
	if err != nil {
		return nil, false, fmt.Errorf("get solution cache: %w", err)
	}

	return sol, true, nil
}

// Store one solution, replacing any previous entry for key.
func (s *SQLSolutionCache) Put(ctx context.Context, key string, sol *domain.Solution) (err error) {
	defer obs.Time(ctx, "solution.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("solution cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert solution cache: key must not be empty")
	}

	payload, err := encodeSolution(sol)
	if err != nil {
		return fmt.Errorf("insert solution cache: %w", err)
	}

	var expiresAt sql.NullTime
	if s.TTL > 0 {
		expiresAt = sql.NullTime{Time: time.Now().Add(s.TTL).UTC(), Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO solution_cache (cache_key, payload, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`, key, string(payload), expiresAt)
	if err != nil {
		return fmt.Errorf("insert solution cache key=%q: %w", key, err)
	}

	return nil
}
