package services

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	m       map[string]*domain.Solution
	gets    int
	puts    int
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{m: map[string]*domain.Solution{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*domain.Solution, bool, error) {
	c.gets++
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	s, ok := c.m[key]
	return s, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, sol *domain.Solution) error {
	c.puts++
	c.m[key] = sol
	return nil
}

type memoryRepo struct {
	problems map[string]*domain.Problem
}

func (r *memoryRepo) ListProblems(ctx context.Context) ([]*domain.Problem, error) {
	out := make([]*domain.Problem, 0, len(r.problems))
	for _, p := range r.problems {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) GetProblem(ctx context.Context, name string) (*domain.Problem, error) {
	p, ok := r.problems[name]
	if !ok {
		return nil, ports.ErrProblemNotFound
	}
	return p, nil
}

func TestSolveProblemScoresAndCaches(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	p := twoCustomerProblem(10)

	first, err := SolveProblem(ctx, p, SavingsAlgorithm, cache)
	require.NoError(t, err)
	assert.Equal(t, []domain.Route{{0, 1, 2, 0}}, first.Routes)
	assert.InDelta(t, 4.0, first.TotalDistance, 1e-12)
	assert.Equal(t, "savings", first.Algorithm)
	assert.Equal(t, "two", first.ProblemName)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 1, cache.puts)

	p.Name = "renamed copy"
	second, err := SolveProblem(ctx, p, SavingsAlgorithm, cache)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts, "cache hit should not write")
	assert.Equal(t, first.Routes, second.Routes)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "renamed copy", second.ProblemName)
}

func TestSolveProblemCacheFailureIsNotFatal(t *testing.T) {
	cache := newMemoryCache()
	cache.failGet = true

	sol, err := SolveProblem(context.Background(), twoCustomerProblem(9), NearestNeighbourAlgorithm, cache)
	require.NoError(t, err)
	// Two separate round trips: 2 + 4.
	assert.InDelta(t, 6.0, sol.TotalDistance, 1e-12)
	assert.Len(t, sol.Routes, 2)
}

func TestSolveProblemErrors(t *testing.T) {
	ctx := context.Background()

	_, err := SolveProblem(ctx, twoCustomerProblem(10), Algorithm("tabu"), nil)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	bad := twoCustomerProblem(4)
	_, err = SolveProblem(ctx, bad, SavingsAlgorithm, nil)
	assert.ErrorIs(t, err, domain.ErrInfeasibleDemand)

	bad = twoCustomerProblem(10)
	bad.Depot = 9
	_, err = SolveProblem(ctx, bad, NearestNeighbourAlgorithm, nil)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestSolveStored(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{problems: map[string]*domain.Problem{"two": twoCustomerProblem(10)}}

	sol, err := SolveStored(ctx, SolveRequest{ProblemName: " two ", Algorithm: NearestNeighbourAlgorithm}, repo, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.Route{{0, 1, 2, 0}}, sol.Routes)

	_, err = SolveStored(ctx, SolveRequest{ProblemName: "missing", Algorithm: SavingsAlgorithm}, repo, nil)
	assert.ErrorIs(t, err, ports.ErrProblemNotFound)

	_, err = SolveStored(ctx, SolveRequest{Algorithm: SavingsAlgorithm}, repo, nil)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = SolveStored(ctx, SolveRequest{ProblemName: "two"}, nil, nil)
	assert.Error(t, err)

	_, err = SolveStored(ctx, SolveRequest{ProblemName: "two", Algorithm: SavingsAlgorithm, MaxNodes: 2}, repo, nil)
	assert.ErrorIs(t, err, domain.ErrProblemTooLarge)

	_, err = SolveStored(ctx, SolveRequest{ProblemName: "two", Algorithm: SavingsAlgorithm, MaxNodes: 3}, repo, nil)
	assert.NoError(t, err)
}

func TestCacheKey(t *testing.T) {
	a := twoCustomerProblem(10)
	b := twoCustomerProblem(10)
	b.Name = "other"

	assert.Equal(t, CacheKey(a, SavingsAlgorithm), CacheKey(b, SavingsAlgorithm))
	assert.NotEqual(t, CacheKey(a, SavingsAlgorithm), CacheKey(a, NearestNeighbourAlgorithm))

	b.Demands[1] = 4
	assert.NotEqual(t, CacheKey(a, SavingsAlgorithm), CacheKey(b, SavingsAlgorithm))
	assert.Len(t, CacheKey(a, SavingsAlgorithm), 64)
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{
		"nn":                NearestNeighbourAlgorithm,
		"Nearest_Neighbour": NearestNeighbourAlgorithm,
		"nearest_neighbor":  NearestNeighbourAlgorithm,
		" savings ":         SavingsAlgorithm,
		"cw":                SavingsAlgorithm,
	} {
		got, err := ParseAlgorithm(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAlgorithm("genetic")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
