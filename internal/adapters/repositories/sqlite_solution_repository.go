package repositories

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLite-backed implementation of the SolutionRepository port.
// Routes are stored as a JSON array of node index arrays.
type SqliteSolutionRepository struct{ DB *sql.DB }

func NewSqliteSolutionRepository(db *sql.DB) *SqliteSolutionRepository {
	return &SqliteSolutionRepository{DB: db}
}

func (s *SqliteSolutionRepository) SaveSolution(ctx context.Context, sol *domain.Solution) error {
	if s.DB == nil {
		return errors.New("sqlite solution repository: DB is nil")
	}

	if sol == nil || strings.TrimSpace(sol.ID) == "" {
		return errors.New("save solution: solution id must not be empty")
	}

	routesJSON, err := json.Marshal(sol.Routes)
	if err != nil {
		return fmt.Errorf("save solution %s: encode routes: %w", sol.ID, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO solutions (
		solution_id,
		problem_name,
		algorithm,
		total_distance,
		routes_json,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`,
		sol.ID,
		sol.ProblemName,
		sol.Algorithm,
		sol.TotalDistance,
		string(routesJSON),
		sol.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save solution %s: insert: %w", sol.ID, err)
	}

	return nil
}

func (s *SqliteSolutionRepository) GetSolution(ctx context.Context, id string) (*domain.Solution, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite solution repository: DB is nil")
	}

	var (
		sol        domain.Solution
		routesJSON string
		createdAt  string
	)
	err := s.DB.QueryRowContext(ctx, `
	SELECT
		solution_id,
		problem_name,
		algorithm,
		total_distance,
		routes_json,
		created_at
	FROM solutions
	WHERE solution_id = ?;
	`, strings.TrimSpace(id)).Scan(
		&sol.ID,
		&sol.ProblemName,
		&sol.Algorithm,
		&sol.TotalDistance,
		&routesJSON,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get solution %s: %w", id, ports.ErrSolutionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get solution %s: scan row: %w", id, err)
	}

	if err := json.Unmarshal([]byte(routesJSON), &sol.Routes); err != nil {
		return nil, fmt.Errorf("get solution %s: decode routes: %w", id, err)
	}

	sol.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("get solution %s: parse created_at: %w", id, err)
	}

	return &sol, nil
}
