package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
)

var ErrProblemNotFound = errors.New("problem not found")

// Port: a boundary for retrieving stored CVRP instances.
type ProblemRepository interface {
	// Retrieve all stored problems.
	ListProblems(ctx context.Context) ([]*domain.Problem, error)
	// Retrieve one problem by name, ErrProblemNotFound if absent.
	GetProblem(ctx context.Context, name string) (*domain.Problem, error)
}
