package repositories

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLite-backed implementation of the ProblemRepository port.
type SqliteProblemRepository struct{ DB *sql.DB }

func NewSqliteProblemRepository(db *sql.DB) *SqliteProblemRepository {
	return &SqliteProblemRepository{DB: db}
}

// Store a problem and its nodes, replacing any problem with the same name.
func (s *SqliteProblemRepository) SaveProblem(ctx context.Context, p *domain.Problem) error {
	if s.DB == nil {
		return errors.New("sqlite problem repository: DB is nil")
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errors.New("save problem: name must not be empty")
	}

	if len(p.Coordinates) != len(p.Demands) {
		return fmt.Errorf("save problem %q: %w: coordinates and demands differ in length", name, domain.ErrMalformedInput)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save problem: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM problem_nodes WHERE problem_name = ?;`, name); err != nil {
		return fmt.Errorf("save problem %q: clear nodes: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT OR REPLACE INTO problems (
		name,
		dimension,
		capacity,
		depot
	)
	VALUES (?, ?, ?, ?);
	`, name, len(p.Coordinates), p.Capacity, p.Depot)
	if err != nil {
		return fmt.Errorf("save problem %q: insert problem: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO problem_nodes (
		problem_name,
		node_index,
		x,
		y,
		demand
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save problem %q: prepare node insert: %w", name, err)
	}
	defer stmt.Close()

	for i, c := range p.Coordinates {
		if _, err := stmt.ExecContext(ctx, name, i, c.X, c.Y, p.Demands[i]); err != nil {
			return fmt.Errorf("save problem %q: insert node %d: %w", name, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save problem %q: commit tx: %w", name, err)
	}

	return nil
}

// Return all stored problems ordered by name.
func (s *SqliteProblemRepository) ListProblems(ctx context.Context) ([]*domain.Problem, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite problem repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		name,
		dimension,
		capacity,
		depot
	FROM problems
	ORDER BY name;
	`)
	if err != nil {
		return nil, fmt.Errorf("list problems: query problems table: %w", err)
	}
	defer rows.Close()

	problems := make([]*domain.Problem, 0, 16)
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, fmt.Errorf("list problems: %w", err)
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list problems: row iteration: %w", err)
	}
	rows.Close()

	for _, p := range problems {
		if err := s.loadNodes(ctx, p); err != nil {
			return nil, fmt.Errorf("list problems: %w", err)
		}
	}

	return problems, nil
}

// Return one problem by name.
func (s *SqliteProblemRepository) GetProblem(ctx context.Context, name string) (*domain.Problem, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite problem repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT
		name,
		dimension,
		capacity,
		depot
	FROM problems
	WHERE name = ?;
	`, strings.TrimSpace(name))

	p, err := scanProblem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get problem %q: %w", name, ports.ErrProblemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get problem %q: %w", name, err)
	}

	if err := s.loadNodes(ctx, p); err != nil {
		return nil, fmt.Errorf("get problem %q: %w", name, err)
	}

	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProblem(sc scanner) (*domain.Problem, error) {
	var (
		p         domain.Problem
		dimension int
	)
	if err := sc.Scan(&p.Name, &dimension, &p.Capacity, &p.Depot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan problem row: %w", err)
	}
	p.Coordinates = make([]domain.Coordinates, dimension)
	p.Demands = make([]float64, dimension)
	return &p, nil
}

func (s *SqliteProblemRepository) loadNodes(ctx context.Context, p *domain.Problem) error {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		node_index,
		x,
		y,
		demand
	FROM problem_nodes
	WHERE problem_name = ?
	ORDER BY node_index;
	`, p.Name)
	if err != nil {
		return fmt.Errorf("load nodes for %q: %w", p.Name, err)
	}
	defer rows.Close()

	seen := 0
	for rows.Next() {
		var (
			idx    int
			x, y   float64
			demand float64
		)
		if err := rows.Scan(&idx, &x, &y, &demand); err != nil {
			return fmt.Errorf("load nodes for %q: scan row: %w", p.Name, err)
		}
		if idx < 0 || idx >= len(p.Coordinates) {
			return fmt.Errorf("load nodes for %q: node index %d outside dimension %d", p.Name, idx, len(p.Coordinates))
		}
		p.Coordinates[idx] = domain.Coordinates{X: x, Y: y}
		p.Demands[idx] = demand
		seen++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load nodes for %q: row iteration: %w", p.Name, err)
	}

	if seen != len(p.Coordinates) {
		return fmt.Errorf("load nodes for %q: found %d nodes, want %d", p.Name, seen, len(p.Coordinates))
	}

	return nil
}
