package domain

import (
	"fmt"
	"time"
)

// Represents a single vehicle tour.
// A Route is an ordered sequence of node indices that begins and ends at the
// depot; the nodes in between are the customers it serves.
type Route []int

// Interior returns the customer sequence without the depot endpoints.
func (r Route) Interior() []int {
	if len(r) < 2 {
		return nil
	}
	return r[1 : len(r)-1]
}

// Load sums the demands of the route's customers.
func (r Route) Load(demands []float64) float64 {
	total := 0.0
	for _, n := range r.Interior() {
		total += demands[n]
	}
	return total
}

// Represents the output of one constructor run on one problem.
// A Solution is immutable planning data; TotalDistance is the sum of the
// Euclidean lengths of all routes.
type Solution struct {
	ID            string
	ProblemName   string
	Algorithm     string
	Routes        []Route
	TotalDistance float64
	CreatedAt     time.Time
}

// Verify checks that the routes form a feasible solution of p.
//
// Every route must start and end at the depot and carry no more than the
// vehicle capacity, and every customer must be visited exactly once across all
// routes.
func (s *Solution) Verify(p *Problem) error {
	return VerifyRoutes(s.Routes, p)
}

// VerifyRoutes is Verify for a bare route set.
func VerifyRoutes(routes []Route, p *Problem) error {
	seen := make([]int, p.Dimension())
	for ri, r := range routes {
		if len(r) < 2 || r[0] != p.Depot || r[len(r)-1] != p.Depot {
			return fmt.Errorf("%w: route %d does not start and end at depot %d: %v", ErrInvalidSolution, ri, p.Depot, r)
		}

		for _, n := range r.Interior() {
			if n < 0 || n >= p.Dimension() {
				return fmt.Errorf("%w: route %d visits unknown node %d", ErrInvalidSolution, ri, n)
			}
			if n == p.Depot {
				return fmt.Errorf("%w: route %d visits the depot mid-route", ErrInvalidSolution, ri)
			}
			seen[n]++
		}

		if load := r.Load(p.Demands); load > p.Capacity {
			return fmt.Errorf("%w: route %d load=%g exceeds capacity=%g", ErrInvalidSolution, ri, load, p.Capacity)
		}
	}

	for _, c := range p.Customers() {
		switch {
		case seen[c] == 0:
			return fmt.Errorf("%w: customer %d is not visited", ErrInvalidSolution, c)
		case seen[c] > 1:
			return fmt.Errorf("%w: customer %d is visited %d times", ErrInvalidSolution, c, seen[c])
		}
	}

	return nil
}
