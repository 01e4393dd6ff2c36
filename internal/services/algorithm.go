package services

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm names a route construction heuristic.
type Algorithm string

const (
	NearestNeighbourAlgorithm Algorithm = "nearest_neighbour"
	SavingsAlgorithm          Algorithm = "savings"
)

// Algorithms lists every supported heuristic in presentation order.
var Algorithms = []Algorithm{NearestNeighbourAlgorithm, SavingsAlgorithm}

// ParseAlgorithm accepts canonical names and common short aliases.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest_neighbour", "nearest_neighbor", "nearest-neighbour", "nn":
		return NearestNeighbourAlgorithm, nil
	case "savings", "clarke_wright", "clarke-wright", "cw":
		return SavingsAlgorithm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}
