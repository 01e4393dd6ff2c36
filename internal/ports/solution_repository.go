package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
)

var ErrSolutionNotFound = errors.New("solution not found")

// Port: durable storage for computed solutions.
type SolutionRepository interface {
	SaveSolution(ctx context.Context, sol *domain.Solution) error
	// Retrieve one solution by id, ErrSolutionNotFound if absent.
	GetSolution(ctx context.Context, id string) (*domain.Solution, error)
}
