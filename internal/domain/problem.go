package domain

import (
	"fmt"
	"math"
)

// Represents a single CVRP instance.
// Coordinates[i] and Demands[i] describe node i; Depot is the index every route
// starts and ends at. All vehicles share the same Capacity.
// A Problem is immutable input to the route constructors.
type Problem struct {
	Name        string
	Coordinates []Coordinates
	Demands     []float64
	Capacity    float64
	Depot       int
}

// Number of nodes, depot included.
func (p *Problem) Dimension() int { return len(p.Coordinates) }

// Customers returns every non-depot node index in ascending order.
func (p *Problem) Customers() []int {
	out := make([]int, 0, len(p.Coordinates))
	for i := range p.Coordinates {
		if i != p.Depot {
			out = append(out, i)
		}
	}
	return out
}

// CheckSize rejects problems with more than maxNodes nodes, depot included.
// Construction needs O(n^2) memory, so callers serving untrusted input bound n
// before solving. A non-positive maxNodes disables the check.
func (p *Problem) CheckSize(maxNodes int) error {
	if maxNodes <= 0 || p == nil || p.Dimension() <= maxNodes {
		return nil
	}
	return fmt.Errorf("%w: %w: %d nodes exceeds limit of %d", ErrMalformedInput, ErrProblemTooLarge, p.Dimension(), maxNodes)
}

// Validate checks the problem once at entry.
//
// Structural problems are reported as ErrMalformedInput. A customer whose demand
// exceeds capacity is reported as *InfeasibleDemandError, since no route could
// ever serve it. The depot's own demand is never loaded and is not checked
// against capacity.
func (p *Problem) Validate() error {
	if p == nil {
		return malformed("problem is nil")
	}

	n := len(p.Coordinates)
	if n == 0 {
		return malformed("problem has no nodes")
	}

	if len(p.Demands) != n {
		return malformed("coordinates and demands differ in length (%d != %d)", n, len(p.Demands))
	}

	if p.Depot < 0 || p.Depot >= n {
		return malformed("depot index %d out of range [0,%d)", p.Depot, n)
	}

	if p.Capacity < 0 || math.IsNaN(p.Capacity) || math.IsInf(p.Capacity, 0) {
		return malformed("capacity must be a finite non-negative number, got %g", p.Capacity)
	}

	for i, c := range p.Coordinates {
		if !finite(c.X) || !finite(c.Y) {
			return malformed("node %d has non-finite coordinates (%g, %g)", i, c.X, c.Y)
		}
	}

	for i, d := range p.Demands {
		if !finite(d) || d < 0 {
			return malformed("node %d demand must be a finite non-negative number, got %g", i, d)
		}
	}

	for i, d := range p.Demands {
		if i == p.Depot {
			continue
		}
		if d > p.Capacity {
			return &InfeasibleDemandError{Node: i, Demand: d, Capacity: p.Capacity}
		}
	}

	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
