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

// SQLite backed cache for solved problems.
// Entries older than TTL are treated as misses; a zero TTL never expires.
type SqliteSolutionCache struct {
	DB  *sql.DB
	TTL time.Duration

	now func() time.Time
}

func NewSqliteSolutionCache(db *sql.DB, ttl time.Duration) *SqliteSolutionCache {
	return &SqliteSolutionCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SqliteSolutionCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Fetch one cached solution by key.
func (s *SqliteSolutionCache) Get(ctx context.Context, key string) (_ *domain.Solution, _ bool, err error) {
	defer obs.Time(ctx, "solution.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("solution cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get solution cache: key must not be empty")
	}

	var (
		payload   string
		expiresAt sql.NullInt64
	)
	err = s.DB.QueryRowContext(ctx, `
	SELECT
		payload,
		expires_at
	FROM solution_cache
	WHERE cache_key = ?;
	`, key).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get solution cache: query solution_cache table: %w", err)
	}

	if expiresAt.Valid && s.clock().Unix() >= expiresAt.Int64 {
		return nil, false, nil
	}

	sol, err := decodeSolution([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("get solution cache: %w", err)
	}

	return sol, true, nil
}

// Store one solution, replacing any previous entry for key.
func (s *SqliteSolutionCache) Put(ctx context.Context, key string, sol *domain.Solution) (err error) {
	defer obs.Time(ctx, "solution.cache.sqlite.Put")(&err)

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

	var expiresAt sql.NullInt64
	if s.TTL > 0 {
		expiresAt = sql.NullInt64{Int64: s.clock().Add(s.TTL).Unix(), Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO solution_cache (
		cache_key,
		payload,
		expires_at
	)
	VALUES (?, ?, ?);
	`, key, string(payload), expiresAt)
	if err != nil {
		return fmt.Errorf("insert solution cache key=%q: %w", key, err)
	}

	return nil
}
