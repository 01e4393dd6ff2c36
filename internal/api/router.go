package api

import (
	"cvrp-route-service/internal/api/handlers"
	"cvrp-route-service/internal/metrics"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/services"
	"net/http"

	"golang.org/x/time/rate"
)

// Dependencies of the HTTP API. Solutions and Cache may be nil.
type Deps struct {
	Problems         ports.ProblemRepository
	Solutions        ports.SolutionRepository
	Cache            ports.SolutionCache
	DefaultAlgorithm services.Algorithm
	// Limiter applies to the problem and solution endpoints; nil disables it.
	Limiter *rate.Limiter
	// MaxNodes bounds the problems POST /solutions will solve; zero means no limit.
	MaxNodes int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	algo := deps.DefaultAlgorithm
	if algo == "" {
		algo = services.SavingsAlgorithm
	}

	problemHandler := &handlers.ProblemHandler{Repo: deps.Problems}
	solutionHandler := &handlers.SolutionHandler{
		Problems:         deps.Problems,
		Solutions:        deps.Solutions,
		Cache:            deps.Cache,
		DefaultAlgorithm: algo,
		MaxNodes:         deps.MaxNodes,
	}

	limited := func(h http.HandlerFunc) http.Handler {
		return rateLimitMiddleware(deps.Limiter, h)
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/problems", limited(problemHandler.List))
	mux.Handle("/problems/{name}", limited(problemHandler.Get))
	mux.Handle("/solutions", limited(solutionHandler.Create))
	mux.Handle("/solutions/{id}", limited(solutionHandler.Get))

	metrics.RegisterDefault()
	return requestIDMiddleware(loggingMiddleware(mux))
}
