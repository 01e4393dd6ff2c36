package distance

import (
	"cvrp-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// EuclideanProvider computes planar straight-line distances between problem
// nodes on demand. It holds no mutable state and is safe for concurrent use.
type EuclideanProvider struct {
	points []orb.Point
}

func NewEuclideanProvider(coords []domain.Coordinates) *EuclideanProvider {
	points := make([]orb.Point, len(coords))
	for i, c := range coords {
		points[i] = c.Point()
	}
	return &EuclideanProvider{points: points}
}

func (e *EuclideanProvider) Distance(from, to int) float64 {
	return planar.Distance(e.points[from], e.points[to])
}
