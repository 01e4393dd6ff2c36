package services

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"errors"
	"fmt"
)

const noNode = -1

// partialRoute is an arena slot for a route under construction.
// Node order lives in the engine's next links; the slot only tracks the
// two endpoints and the accumulated load.
type partialRoute struct {
	head  int
	tail  int
	load  float64
	alive bool
}

// mergeEngine runs the Clarke-Wright savings merge over one problem.
//
// tailOpen[n] is true while n may still be the From side of a link, i.e. while
// n is unrouted or the last node of its route. headOpen[n] is the same for the
// To side and the first node of a route. Clearing these flags is the candidate
// pruning step: any later entry with From == p or To == q is skipped.
type mergeEngine struct {
	demands  []float64
	capacity float64

	routes  []partialRoute
	routeOf []int
	next    []int

	tailOpen []bool
	headOpen []bool
}

func newMergeEngine(p *domain.Problem) *mergeEngine {
	n := p.Dimension()
	e := &mergeEngine{
		demands:  p.Demands,
		capacity: p.Capacity,
		routeOf:  make([]int, n),
		next:     make([]int, n),
		tailOpen: make([]bool, n),
		headOpen: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		e.routeOf[i] = noNode
		e.next[i] = noNode
		e.tailOpen[i] = true
		e.headOpen[i] = true
	}
	return e
}

// MergeSavings consumes a descending savings list and returns the interior
// node sequence of every route, without the depot.
//
// For each entry (p, q) in order:
//   - p and q on different routes: join route(p) followed by route(q) when the
//     combined load fits, otherwise skip the entry.
//   - p and q on the same route: skip, joining would close a sub-tour.
//   - q leads an existing route: prepend p when it fits.
//   - p ends an existing route: append q when it fits.
//   - neither routed: open a new route [p, q] when both fit together.
//
// After every accepted entry p can no longer be a From and q can no longer be a
// To. The reverse pair (q, p) and every pair of nodes sharing a route are never
// considered again because they fall into the same-route case.
//
// Customers that no accepted entry touched come last as single-customer
// routes in ascending node order.
func MergeSavings(savings []SavingsEntry, p *domain.Problem) [][]int {
	e := newMergeEngine(p)
	for _, s := range savings {
		e.apply(s.From, s.To)
	}
	return e.result(p.Customers())
}

func (e *mergeEngine) apply(p, q int) {
	if !e.tailOpen[p] || !e.headOpen[q] {
		return
	}

	rp, rq := e.routeOf[p], e.routeOf[q]

	switch {
	case rp != noNode && rq != noNode && rp != rq:
		if e.routes[rp].load+e.routes[rq].load > e.capacity {
			return
		}
		e.join(rp, rq)

	case rp != noNode && rp == rq:
		return

	case rp == noNode && rq == noNode:
		if e.demands[p]+e.demands[q] > e.capacity {
			return
		}
		e.open(p, q)

	default:
		target := rp
		if target == noNode {
			target = rq
		}
		r := &e.routes[target]

		switch {
		case r.head == q:
			if e.demands[p]+r.load > e.capacity {
				return
			}
			e.extendHead(target, p)
		case r.tail == p:
			if r.load+e.demands[q] > e.capacity {
				return
			}
			e.extendTail(target, q)
		default:
			// A routed node off its route's boundary has both flags cleared,
			// so the filter above never lets it through.
			return
		}
	}

	e.tailOpen[p] = false
	e.headOpen[q] = false
}

func (e *mergeEngine) open(p, q int) {
	id := len(e.routes)
	e.routes = append(e.routes, partialRoute{
		head:  p,
		tail:  q,
		load:  e.demands[p] + e.demands[q],
		alive: true,
	})
	e.routeOf[p], e.routeOf[q] = id, id
	e.next[p] = q
}

func (e *mergeEngine) extendHead(id, p int) {
	r := &e.routes[id]
	e.next[p] = r.head
	r.head = p
	r.load += e.demands[p]
	e.routeOf[p] = id
}

func (e *mergeEngine) extendTail(id, q int) {
	r := &e.routes[id]
	e.next[r.tail] = q
	r.tail = q
	r.load += e.demands[q]
	e.routeOf[q] = id
}

// join splices route b after route a. Slot a keeps its position in the output
// order; slot b is retired.
func (e *mergeEngine) join(a, b int) {
	ra, rb := &e.routes[a], &e.routes[b]
	e.next[ra.tail] = rb.head
	for n := rb.head; n != noNode; n = e.next[n] {
		e.routeOf[n] = a
	}
	ra.tail = rb.tail
	ra.load += rb.load
	rb.alive = false
}

func (e *mergeEngine) result(customers []int) [][]int {
	out := make([][]int, 0, len(e.routes))
	for _, r := range e.routes {
		if !r.alive {
			continue
		}
		seq := []int{}
		for n := r.head; n != noNode; n = e.next[n] {
			seq = append(seq, n)
		}
		out = append(out, seq)
	}

	for _, c := range customers {
		if e.routeOf[c] == noNode {
			out = append(out, []int{c})
		}
	}

	return out
}

// Build routes using the Clarke-Wright savings heuristic.
//
// Savings are computed for every customer pair, merged greedily by descending
// value under the capacity limit, and every resulting sequence is closed with
// the depot on both ends.
func Savings(ctx context.Context, p *domain.Problem, dist ports.DistanceProvider) ([]domain.Route, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("savings: %w", err)
	}

	if dist == nil {
		return nil, errors.New("savings: distance provider must be non-nil")
	}

	savings, err := BuildSavings(ctx, p, dist)
	if err != nil {
		return nil, fmt.Errorf("savings: %w", err)
	}

	interiors := MergeSavings(savings, p)
	routes := make([]domain.Route, 0, len(interiors))
	for _, seq := range interiors {
		r := make(domain.Route, 0, len(seq)+2)
		r = append(r, p.Depot)
		r = append(r, seq...)
		r = append(r, p.Depot)
		routes = append(routes, r)
	}

	return routes, nil
}
