package services

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// SavingsEntry proposes linking From (the right end of one route) to To (the
// left end of another). Value is the distance saved compared with serving both
// customers on separate depot round trips.
type SavingsEntry struct {
	Value float64
	From  int
	To    int
}

// BuildSavings computes the directed savings list for every pair of customers.
//
// For customers i < j the saving is d(depot,i) + d(depot,j) - d(i,j), emitted
// once as (i,j) and once as (j,i). The list is sorted by descending value with
// a stable sort, so equal values keep generation order: i ascending, then j
// ascending, (i,j) before (j,i).
//
// Rows are computed concurrently; each row owns a fixed segment of the output.
func BuildSavings(ctx context.Context, p *domain.Problem, dist ports.DistanceProvider) (_ []SavingsEntry, err error) {
	defer obs.Time(ctx, "savings.BuildSavings")(&err)

	if dist == nil {
		return nil, errors.New("build savings: distance provider must be non-nil")
	}

	customers := p.Customers()
	m := len(customers)
	if m < 2 {
		return []SavingsEntry{}, nil
	}

	savings := make([]SavingsEntry, m*(m-1))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for a := 0; a < m-1; a++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			i := customers[a]
			di := dist.Distance(p.Depot, i)
			k := a * (2*m - a - 1)
			for _, j := range customers[a+1:] {
				v := di + dist.Distance(p.Depot, j) - dist.Distance(i, j)
				savings[k] = SavingsEntry{Value: v, From: i, To: j}
				savings[k+1] = SavingsEntry{Value: v, From: j, To: i}
				k += 2
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build savings: %w", err)
	}

	slices.SortStableFunc(savings, func(a, b SavingsEntry) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})

	return savings, nil
}
