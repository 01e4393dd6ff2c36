// Package vrpfile reads CVRP instances in the TSPLIB format and reference
// solutions in the CVRPLIB ".sol" format.
//
// TSPLIB node ids are 1-based; they are converted to 0-based indices, so the
// conventional depot id 1 becomes index 0. Customer numbers in ".sol" files
// count the non-depot nodes from 1 in ascending order, so with the depot at
// index 0 they are used as indices unchanged.
package vrpfile

import (
	"bufio"
	"cvrp-route-service/internal/domain"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("vrp file syntax error")

type section int

const (
	sectionHeader section = iota
	sectionCoords
	sectionDemands
	sectionDepot
	sectionDone
)

func syntaxErr(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

// LoadProblemFile opens path and parses it with LoadProblem.
func LoadProblemFile(path string) (*domain.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load problem file: %w", err)
	}
	defer f.Close()

	p, err := LoadProblem(f)
	if err != nil {
		return nil, fmt.Errorf("load problem file %q: %w", path, err)
	}

	return p, nil
}

// LoadProblem parses a TSPLIB CVRP instance with EUC_2D coordinates.
// The returned problem is not validated.
func LoadProblem(r io.Reader) (*domain.Problem, error) {
	p := &domain.Problem{}
	dimension := -1
	haveCapacity := false
	state := sectionHeader
	coordSeen := []bool{}
	demandSeen := []bool{}
	depotSet := false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case upper == "EOF":
			state = sectionDone
			continue
		case strings.HasPrefix(upper, "NODE_COORD_SECTION"):
			state = sectionCoords
			continue
		case strings.HasPrefix(upper, "DEMAND_SECTION"):
			state = sectionDemands
			continue
		case strings.HasPrefix(upper, "DEPOT_SECTION"):
			state = sectionDepot
			continue
		}

		if state == sectionDone {
			break
		}

		if state != sectionHeader && dimension < 0 {
			return nil, syntaxErr(lineNo, "DIMENSION must precede data sections")
		}

		switch state {
		case sectionHeader:
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				return nil, syntaxErr(lineNo, "expected KEY : VALUE, got %q", line)
			}
			key = strings.ToUpper(strings.TrimSpace(key))
			value = strings.TrimSpace(value)

			switch key {
			case "NAME":
				p.Name = value
			case "DIMENSION":
				n, err := strconv.Atoi(value)
				if err != nil || n <= 0 {
					return nil, syntaxErr(lineNo, "invalid DIMENSION %q", value)
				}
				dimension = n
				p.Coordinates = make([]domain.Coordinates, n)
				p.Demands = make([]float64, n)
				coordSeen = make([]bool, n)
				demandSeen = make([]bool, n)
			case "CAPACITY":
				c, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, syntaxErr(lineNo, "invalid CAPACITY %q", value)
				}
				p.Capacity = c
				haveCapacity = true
			case "TYPE":
				if !strings.EqualFold(value, "CVRP") {
					return nil, syntaxErr(lineNo, "unsupported TYPE %q", value)
				}
			case "EDGE_WEIGHT_TYPE":
				if !strings.EqualFold(value, "EUC_2D") {
					return nil, syntaxErr(lineNo, "unsupported EDGE_WEIGHT_TYPE %q", value)
				}
			}

		case sectionCoords:
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return nil, syntaxErr(lineNo, "expected `id x y`, got %q", line)
			}
			idx, err := nodeIndex(fields[0], dimension)
			if err != nil {
				return nil, syntaxErr(lineNo, "%v", err)
			}
			x, errX := strconv.ParseFloat(fields[1], 64)
			y, errY := strconv.ParseFloat(fields[2], 64)
			if errX != nil || errY != nil {
				return nil, syntaxErr(lineNo, "invalid coordinates %q", line)
			}
			p.Coordinates[idx] = domain.Coordinates{X: x, Y: y}
			coordSeen[idx] = true

		case sectionDemands:
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, syntaxErr(lineNo, "expected `id demand`, got %q", line)
			}
			idx, err := nodeIndex(fields[0], dimension)
			if err != nil {
				return nil, syntaxErr(lineNo, "%v", err)
			}
			d, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, syntaxErr(lineNo, "invalid demand %q", fields[1])
			}
			p.Demands[idx] = d
			demandSeen[idx] = true

		case sectionDepot:
			if line == "-1" {
				state = sectionHeader
				continue
			}
			if depotSet {
				return nil, syntaxErr(lineNo, "multiple depots are not supported")
			}
			idx, err := nodeIndex(line, dimension)
			if err != nil {
				return nil, syntaxErr(lineNo, "%v", err)
			}
			p.Depot = idx
			depotSet = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load problem: read: %w", err)
	}

	if dimension < 0 {
		return nil, fmt.Errorf("%w: missing DIMENSION", ErrSyntax)
	}
	if !haveCapacity {
		return nil, fmt.Errorf("%w: missing CAPACITY", ErrSyntax)
	}
	for i := 0; i < dimension; i++ {
		if !coordSeen[i] {
			return nil, fmt.Errorf("%w: node %d has no coordinates", ErrSyntax, i+1)
		}
		if !demandSeen[i] {
			return nil, fmt.Errorf("%w: node %d has no demand", ErrSyntax, i+1)
		}
	}

	return p, nil
}

func nodeIndex(field string, dimension int) (int, error) {
	id, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q", field)
	}
	if id < 1 || id > dimension {
		return 0, fmt.Errorf("node id %d outside 1..%d", id, dimension)
	}
	return id - 1, nil
}

// LoadSolutionFile opens path and parses it with LoadSolution.
func LoadSolutionFile(path string, depot int) ([]domain.Route, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("load solution file: %w", err)
	}
	defer f.Close()

	routes, cost, err := LoadSolution(f, depot)
	if err != nil {
		return nil, 0, fmt.Errorf("load solution file %q: %w", path, err)
	}

	return routes, cost, nil
}

// LoadSolution parses "Route #k: c1 c2 ..." lines and an optional "Cost X"
// line. Customer k maps to the k-th non-depot node index, skipping depot.
// Each route is wrapped with depot on both ends. The reported cost is 0 when
// the file has none.
func LoadSolution(r io.Reader, depot int) ([]domain.Route, float64, error) {
	routes := []domain.Route{}
	cost := 0.0

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "route"):
			_, body, ok := strings.Cut(line, ":")
			if !ok {
				return nil, 0, syntaxErr(lineNo, "expected `Route #k: ...`, got %q", line)
			}
			route := domain.Route{depot}
			for _, f := range strings.Fields(body) {
				c, err := strconv.Atoi(f)
				if err != nil || c < 1 {
					return nil, 0, syntaxErr(lineNo, "invalid customer %q", f)
				}
				if c <= depot {
					c--
				}
				route = append(route, c)
			}
			route = append(route, depot)
			routes = append(routes, route)

		case strings.HasPrefix(lower, "cost"):
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, 0, syntaxErr(lineNo, "expected `Cost X`, got %q", line)
			}
			c, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, 0, syntaxErr(lineNo, "invalid cost %q", fields[1])
			}
			cost = c

		default:
			return nil, 0, syntaxErr(lineNo, "unexpected line %q", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("load solution: read: %w", err)
	}

	return routes, cost, nil
}
