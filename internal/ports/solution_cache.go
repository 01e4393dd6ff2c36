package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
)

// Port: a keyed cache of solved problems.
// Keys are opaque and built by the caller from the problem content and algorithm.
type SolutionCache interface {
	// Return the cached solution and whether it was present.
	Get(ctx context.Context, key string) (*domain.Solution, bool, error)
	Put(ctx context.Context, key string, sol *domain.Solution) error
}
