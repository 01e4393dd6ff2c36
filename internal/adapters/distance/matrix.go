package distance

import (
	"context"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MatrixProvider serves distances from a precomputed n x n table.
//
// Savings construction asks for every pairwise distance at least once and
// nearest-neighbour asks for the same rows repeatedly, so one upfront pass
// replaces O(n^2) repeated square roots with lookups.
type MatrixProvider struct {
	n    int
	dist []float64
}

// NewMatrixProvider fills the table row by row in parallel from src.
// Rows are independent, so the result does not depend on scheduling.
func NewMatrixProvider(ctx context.Context, n int, src ports.DistanceProvider) (_ *MatrixProvider, err error) {
	defer obs.Time(ctx, "distance.NewMatrixProvider")(&err)

	if src == nil {
		return nil, errors.New("build distance matrix: source provider is nil")
	}

	if n < 0 {
		return nil, fmt.Errorf("build distance matrix: negative dimension %d", n)
	}

	m := &MatrixProvider{n: n, dist: make([]float64, n*n)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := m.dist[i*n : (i+1)*n]
			for j := range row {
				if i != j {
					row[j] = src.Distance(i, j)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build distance matrix: %w", err)
	}

	return m, nil
}

func (m *MatrixProvider) Distance(from, to int) float64 {
	return m.dist[from*m.n+to]
}

// Size returns the matrix order.
func (m *MatrixProvider) Size() int { return m.n }
