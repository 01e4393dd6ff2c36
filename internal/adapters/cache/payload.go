package cache

import (
	"cvrp-route-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
)

// Cached form of a solution. Identity fields (ID, problem name, timestamps)
// are assigned per request and are not stored.
type cachedSolution struct {
	Algorithm     string         `json:"algorithm"`
	Routes        []domain.Route `json:"routes"`
	TotalDistance float64        `json:"total_distance"`
}

func encodeSolution(sol *domain.Solution) ([]byte, error) {
	if sol == nil {
		return nil, errors.New("encode solution: solution is nil")
	}

	b, err := json.Marshal(cachedSolution{
		Algorithm:     sol.Algorithm,
		Routes:        sol.Routes,
		TotalDistance: sol.TotalDistance,
	})
	if err != nil {
		return nil, fmt.Errorf("encode solution: %w", err)
	}

	return b, nil
}

func decodeSolution(b []byte) (*domain.Solution, error) {
	var c cachedSolution
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode solution: %w", err)
	}

	return &domain.Solution{
		Algorithm:     c.Algorithm,
		Routes:        c.Routes,
		TotalDistance: c.TotalDistance,
	}, nil
}
