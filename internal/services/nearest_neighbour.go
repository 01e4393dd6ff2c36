package services

import (
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"errors"
	"fmt"
	"slices"
)

type candidate struct {
	node     int
	distance float64
}

// Build routes using a greedy nearest-neighbour algorithm.
//
// Each vehicle leaves the depot and repeatedly moves to the closest unvisited
// customer it can still carry. When nothing fits it returns to the depot and a
// fresh vehicle takes over. Equal distances are broken by ascending node index,
// so the result is deterministic.
func NearestNeighbour(p *domain.Problem, dist ports.DistanceProvider) ([]domain.Route, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("nearest neighbour: %w", err)
	}

	if dist == nil {
		return nil, errors.New("nearest neighbour: distance provider must be non-nil")
	}

	unvisited := p.Customers()
	routes := []domain.Route{}
	vehicle := domain.NewVehicle(p.Capacity, p.Depot)
	candidates := make([]candidate, 0, len(unvisited))

	for len(unvisited) > 0 {
		last := vehicle.Last()

		candidates = candidates[:0]
		for _, n := range unvisited {
			candidates = append(candidates, candidate{node: n, distance: dist.Distance(last, n)})
		}
		// Stable sort keeps ascending node order among equal distances.
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			switch {
			case a.distance < b.distance:
				return -1
			case a.distance > b.distance:
				return 1
			}
			return 0
		})

		next := -1
		for _, c := range candidates {
			if vehicle.CanCarry(p.Demands[c.node]) {
				next = c.node
				break
			}
		}

		if next == -1 {
			// An empty vehicle that fits nothing would never make progress.
			if vehicle.Empty() {
				n := candidates[0].node
				return nil, fmt.Errorf("nearest neighbour: %w", &domain.InfeasibleDemandError{
					Node:     n,
					Demand:   p.Demands[n],
					Capacity: p.Capacity,
				})
			}
			routes = append(routes, vehicle.Close())
			continue
		}

		if err := vehicle.Visit(next, p.Demands[next]); err != nil {
			return nil, fmt.Errorf("nearest neighbour: %w", err)
		}
		unvisited = slices.DeleteFunc(unvisited, func(n int) bool { return n == next })
	}

	if !vehicle.Empty() {
		routes = append(routes, vehicle.Close())
	}

	return routes, nil
}
