package services

import (
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
)

// RouteDistance sums the distances between consecutive stops of one route.
func RouteDistance(r domain.Route, dist ports.DistanceProvider) float64 {
	total := 0.0
	for i := 0; i+1 < len(r); i++ {
		total += dist.Distance(r[i], r[i+1])
	}
	return total
}

// TotalDistance sums RouteDistance over every route.
func TotalDistance(routes []domain.Route, dist ports.DistanceProvider) float64 {
	total := 0.0
	for _, r := range routes {
		total += RouteDistance(r, dist)
	}
	return total
}
