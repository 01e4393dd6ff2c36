package services

import (
	"context"
	"crypto/sha256"
	"cvrp-route-service/internal/adapters/distance"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/metrics"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SolveRequest struct {
	ProblemName string
	Algorithm   Algorithm
	// MaxNodes bounds the stored problem's size; zero means no limit.
	MaxNodes int
}

// CacheKey fingerprints the problem content and algorithm.
// The problem name is left out so identical instances share cache entries.
func CacheKey(p *domain.Problem, algo Algorithm) string {
	var b strings.Builder
	b.WriteString(string(algo))
	b.WriteString("|depot=")
	b.WriteString(strconv.Itoa(p.Depot))
	b.WriteString("|cap=")
	b.WriteString(strconv.FormatFloat(p.Capacity, 'g', -1, 64))
	for i, c := range p.Coordinates {
		b.WriteString("|")
		b.WriteString(strconv.FormatFloat(c.X, 'g', -1, 64))
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(c.Y, 'g', -1, 64))
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(p.Demands[i], 'g', -1, 64))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// SolveProblem runs one construction heuristic on p.
//
// The result is verified (depot boundaries, coverage, capacity) and scored by
// total Euclidean distance. When cache is non-nil it is consulted first and
// filled afterwards; cache failures are logged and never fail the solve.
// Every returned Solution carries a fresh ID.
func SolveProblem(
	ctx context.Context,
	p *domain.Problem,
	algo Algorithm,
	cache ports.SolutionCache,
) (_ *domain.Solution, err error) {
	defer obs.Time(ctx, "services.SolveProblem")(&err)

	start := time.Now()
	outcome := "ok"
	defer func() {
		if err != nil {
			outcome = "error"
		}
		metrics.ObserveSolve(string(algo), outcome, time.Since(start))
	}()

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("solve problem: %w", err)
	}

	var key string
	if cache != nil {
		key = CacheKey(p, algo)
		cached, ok, err := cache.Get(ctx, key)
		if err != nil {
			log.Printf("solution cache read failed: key=%s err=%v", key, err)
		}
		if ok && cached != nil {
			outcome = "cache_hit"
			return stamp(cached, p, algo), nil
		}
	}

	dist, err := distance.NewMatrixProvider(ctx, p.Dimension(), distance.NewEuclideanProvider(p.Coordinates))
	if err != nil {
		return nil, fmt.Errorf("solve problem: %w", err)
	}

	var routes []domain.Route
	switch algo {
	case NearestNeighbourAlgorithm:
		routes, err = NearestNeighbour(p, dist)
	case SavingsAlgorithm:
		routes, err = Savings(ctx, p, dist)
	default:
		return nil, fmt.Errorf("solve problem: %w: %q", ErrUnknownAlgorithm, algo)
	}
	if err != nil {
		return nil, fmt.Errorf("solve problem: %w", err)
	}

	if err := domain.VerifyRoutes(routes, p); err != nil {
		return nil, fmt.Errorf("solve problem: %s produced %w", algo, err)
	}

	sol := stamp(&domain.Solution{
		Routes:        routes,
		TotalDistance: TotalDistance(routes, dist),
	}, p, algo)

	if cache != nil {
		if err := cache.Put(ctx, key, sol); err != nil {
			log.Printf("solution cache write failed: key=%s err=%v", key, err)
		}
	}

	return sol, nil
}

// SolveStored loads a stored problem by name and solves it.
func SolveStored(
	ctx context.Context,
	req SolveRequest,
	repo ports.ProblemRepository,
	cache ports.SolutionCache,
) (*domain.Solution, error) {
	if repo == nil {
		return nil, errors.New("solve stored: repository must be non-nil")
	}

	name := strings.TrimSpace(req.ProblemName)
	if name == "" {
		return nil, fmt.Errorf("solve stored: %w: problem name must be non-empty", domain.ErrMalformedInput)
	}

	p, err := repo.GetProblem(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("solve stored: get problem %q: %w", name, err)
	}

	if err := p.CheckSize(req.MaxNodes); err != nil {
		return nil, fmt.Errorf("solve stored: problem %q: %w", name, err)
	}

	sol, err := SolveProblem(ctx, p, req.Algorithm, cache)
	if err != nil {
		return nil, fmt.Errorf("solve stored: %w", err)
	}

	return sol, nil
}

func stamp(src *domain.Solution, p *domain.Problem, algo Algorithm) *domain.Solution {
	routes := make([]domain.Route, len(src.Routes))
	for i, r := range src.Routes {
		routes[i] = append(domain.Route(nil), r...)
	}
	return &domain.Solution{
		ID:            uuid.NewString(),
		ProblemName:   p.Name,
		Algorithm:     string(algo),
		Routes:        routes,
		TotalDistance: src.TotalDistance,
		CreatedAt:     time.Now().UTC(),
	}
}
