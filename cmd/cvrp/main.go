package main

import (
	"context"
	"cvrp-route-service/internal/adapters/distance"
	"cvrp-route-service/internal/adapters/vrpfile"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/services"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// cvrp solves a single TSPLIB instance from the command line and compares the
// heuristics against an optional reference solution.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("cvrp", flag.ContinueOnError)
	fs.SetOutput(out)
	vrpPath := fs.String("vrp", "", "TSPLIB .vrp instance (required)")
	solPath := fs.String("sol", "", "optional CVRPLIB .sol reference solution")
	algo := fs.String("algo", "all", "heuristic to run: all, nearest_neighbour, savings")
	showRoutes := fs.Bool("routes", false, "print every route")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*vrpPath) == "" {
		return errors.New("cvrp: -vrp is required")
	}

	algos := services.Algorithms
	if *algo != "all" {
		a, err := services.ParseAlgorithm(*algo)
		if err != nil {
			return fmt.Errorf("cvrp: %w", err)
		}
		algos = []services.Algorithm{a}
	}

	p, err := vrpfile.LoadProblemFile(*vrpPath)
	if err != nil {
		return fmt.Errorf("cvrp: %w", err)
	}

	fmt.Fprintf(out, "Instance %s: %d customers, capacity %g\n", p.Name, len(p.Customers()), p.Capacity)

	if *solPath != "" {
		routes, cost, err := vrpfile.LoadSolutionFile(*solPath, p.Depot)
		if err != nil {
			return fmt.Errorf("cvrp: %w", err)
		}
		if err := domain.VerifyRoutes(routes, p); err != nil {
			return fmt.Errorf("cvrp: reference solution %q: %w", *solPath, err)
		}

		d := services.TotalDistance(routes, distance.NewEuclideanProvider(p.Coordinates))
		fmt.Fprintf(out, "\nBest VRP Distance: %.4f (file cost %g, %d vehicles)\n", d, cost, len(routes))
		if *showRoutes {
			printRoutes(out, routes)
		}
	}

	for _, a := range algos {
		sol, err := services.SolveProblem(ctx, p, a, nil)
		if err != nil {
			return fmt.Errorf("cvrp: %w", err)
		}

		fmt.Fprintf(out, "\n%s Distance: %.4f (%d vehicles)\n", label(a), sol.TotalDistance, len(sol.Routes))
		if *showRoutes {
			printRoutes(out, sol.Routes)
		}
	}

	return nil
}

func label(a services.Algorithm) string {
	switch a {
	case services.NearestNeighbourAlgorithm:
		return "Nearest Neighbour Heuristic"
	case services.SavingsAlgorithm:
		return "Savings Heuristic"
	default:
		return string(a)
	}
}

func printRoutes(out io.Writer, routes []domain.Route) {
	for i, r := range routes {
		fmt.Fprintf(out, "  Route #%d: %v\n", i+1, r.Interior())
	}
}
