package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineProblem() *Problem {
	return &Problem{
		Name:        "line",
		Coordinates: []Coordinates{{0, 0}, {1, 0}, {2, 0}},
		Demands:     []float64{0, 5, 5},
		Capacity:    10,
		Depot:       0,
	}
}

func TestProblemValidate(t *testing.T) {
	require.NoError(t, lineProblem().Validate())

	cases := []struct {
		name   string
		mutate func(p *Problem)
	}{
		{"no nodes", func(p *Problem) { p.Coordinates = nil; p.Demands = nil }},
		{"length mismatch", func(p *Problem) { p.Demands = p.Demands[:2] }},
		{"depot negative", func(p *Problem) { p.Depot = -1 }},
		{"depot too large", func(p *Problem) { p.Depot = 3 }},
		{"negative capacity", func(p *Problem) { p.Capacity = -1 }},
		{"negative demand", func(p *Problem) { p.Demands[1] = -2 }},
		{"nan coordinate", func(p *Problem) { p.Coordinates[2].Y = math.NaN() }},
		{"inf demand", func(p *Problem) { p.Demands[2] = math.Inf(1) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := lineProblem()
			tc.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput), "got %v", err)
		})
	}

	var nilProblem *Problem
	assert.ErrorIs(t, nilProblem.Validate(), ErrMalformedInput)
}

func TestProblemValidateInfeasibleDemand(t *testing.T) {
	p := lineProblem()
	p.Demands[2] = 11

	err := p.Validate()
	require.ErrorIs(t, err, ErrInfeasibleDemand)

	var ide *InfeasibleDemandError
	require.True(t, errors.As(err, &ide))
	assert.Equal(t, 2, ide.Node)
	assert.Equal(t, 11.0, ide.Demand)
	assert.Equal(t, 10.0, ide.Capacity)
}

func TestProblemDepotDemandIgnored(t *testing.T) {
	p := lineProblem()
	p.Demands[0] = 100

	assert.NoError(t, p.Validate())
}

func TestProblemCustomers(t *testing.T) {
	p := lineProblem()
	p.Depot = 1

	assert.Equal(t, []int{0, 2}, p.Customers())
	assert.Equal(t, 3, p.Dimension())
}

func TestVerifyRoutes(t *testing.T) {
	p := lineProblem()

	require.NoError(t, VerifyRoutes([]Route{{0, 1, 2, 0}}, p))
	require.NoError(t, VerifyRoutes([]Route{{0, 2, 0}, {0, 1, 0}}, p))

	bad := map[string][]Route{
		"missing customer": {{0, 1, 0}},
		"duplicate":        {{0, 1, 0}, {0, 1, 2, 0}},
		"no depot start":   {{1, 2, 0}},
		"depot mid-route":  {{0, 1, 0, 2, 0}},
		"unknown node":     {{0, 1, 2, 7, 0}},
		"too short":        {{0}},
	}
	for name, routes := range bad {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, VerifyRoutes(routes, p), ErrInvalidSolution)
		})
	}

	p.Capacity = 9
	sol := &Solution{Routes: []Route{{0, 1, 2, 0}}}
	assert.ErrorIs(t, sol.Verify(p), ErrInvalidSolution)
}

func TestRouteInteriorAndLoad(t *testing.T) {
	r := Route{0, 4, 2, 0}
	demands := []float64{0, 1, 2, 3, 4}

	assert.Equal(t, []int{4, 2}, r.Interior())
	assert.Equal(t, 6.0, r.Load(demands))
	assert.Nil(t, Route{0}.Interior())
}

func TestProblemCheckSize(t *testing.T) {
	p := lineProblem()

	require.NoError(t, p.CheckSize(3))
	require.NoError(t, p.CheckSize(0), "zero disables the limit")

	err := p.CheckSize(2)
	assert.ErrorIs(t, err, ErrProblemTooLarge)
	assert.ErrorIs(t, err, ErrMalformedInput)
}
