package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput reports structurally invalid problem input.
	ErrMalformedInput = errors.New("malformed input")
	// ErrInfeasibleDemand reports a customer no vehicle can ever carry.
	ErrInfeasibleDemand = errors.New("infeasible demand")
	// ErrInvalidSolution reports a route set that breaks coverage, capacity or depot boundaries.
	ErrInvalidSolution = errors.New("invalid solution")
	// ErrProblemTooLarge reports a problem with more nodes than the caller allows.
	ErrProblemTooLarge = errors.New("problem too large")
)

// InfeasibleDemandError names the node whose demand exceeds vehicle capacity.
type InfeasibleDemandError struct {
	Node     int
	Demand   float64
	Capacity float64
}

func (e *InfeasibleDemandError) Error() string {
	return fmt.Sprintf("infeasible demand: node %d demand=%g exceeds capacity=%g", e.Node, e.Demand, e.Capacity)
}

func (e *InfeasibleDemandError) Unwrap() error { return ErrInfeasibleDemand }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
