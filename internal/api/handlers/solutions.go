package handlers

import (
	"cvrp-route-service/internal/api/dto"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
)

// Largest request body accepted by Create.
const maxSolveBody = 8 << 20

type SolutionHandler struct {
	Problems         ports.ProblemRepository
	Solutions        ports.SolutionRepository
	Cache            ports.SolutionCache
	DefaultAlgorithm services.Algorithm
	// MaxNodes bounds inline and stored problems; zero means no limit.
	MaxNodes int
}

// Create solves a stored or inline problem and persists the result.
func (h *SolutionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SolveRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSolveBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	algo := h.DefaultAlgorithm
	if strings.TrimSpace(req.Algorithm) != "" {
		parsed, err := services.ParseAlgorithm(req.Algorithm)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		algo = parsed
	}

	name := strings.TrimSpace(req.Problem)
	if (name == "") == (req.Inline == nil) {
		writeError(w, r, http.StatusBadRequest, "exactly one of problem or inline is required")
		return
	}

	var (
		sol *domain.Solution
		err error
	)
	if req.Inline != nil {
		p := inlineProblem(req.Inline)
		if err = p.CheckSize(h.MaxNodes); err == nil {
			sol, err = services.SolveProblem(r.Context(), p, algo, h.Cache)
		}
	} else {
		sol, err = services.SolveStored(r.Context(), services.SolveRequest{
			ProblemName: name,
			Algorithm:   algo,
			MaxNodes:    h.MaxNodes,
		}, h.Problems, h.Cache)
	}
	if err != nil {
		writeSolveError(w, r, err)
		return
	}

	if h.Solutions != nil {
		if err := h.Solutions.SaveSolution(r.Context(), sol); err != nil {
			log.Printf("save solution failed: id=%s err=%v", sol.ID, err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	writeJSON(w, r, http.StatusCreated, solutionResponse(sol))
}

func (h *SolutionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Solutions == nil {
		writeError(w, r, http.StatusNotFound, "solution not found")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	sol, err := h.Solutions.GetSolution(r.Context(), id)
	if errors.Is(err, ports.ErrSolutionNotFound) {
		writeError(w, r, http.StatusNotFound, "solution not found")
		return
	}
	if err != nil {
		log.Printf("get solution failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, solutionResponse(sol))
}

// Map solver errors to client or server failures.
func writeSolveError(w http.ResponseWriter, r *http.Request, err error) {
	var infeasible *domain.InfeasibleDemandError
	switch {
	case errors.Is(err, ports.ErrProblemNotFound):
		writeError(w, r, http.StatusNotFound, "problem not found")
	case errors.Is(err, domain.ErrProblemTooLarge):
		writeError(w, r, http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &infeasible):
		writeError(w, r, http.StatusUnprocessableEntity, infeasible.Error())
	case errors.Is(err, domain.ErrMalformedInput), errors.Is(err, services.ErrUnknownAlgorithm):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Printf("solve failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func inlineProblem(in *dto.InlineProblemRequest) *domain.Problem {
	p := &domain.Problem{
		Name:        strings.TrimSpace(in.Name),
		Capacity:    in.Capacity,
		Depot:       in.Depot,
		Coordinates: make([]domain.Coordinates, 0, len(in.Nodes)),
		Demands:     make([]float64, 0, len(in.Nodes)),
	}
	if p.Name == "" {
		p.Name = "inline"
	}
	for _, n := range in.Nodes {
		p.Coordinates = append(p.Coordinates, domain.Coordinates{X: n.X, Y: n.Y})
		p.Demands = append(p.Demands, n.Demand)
	}
	return p
}

func solutionResponse(sol *domain.Solution) dto.SolutionResponse {
	routes := make([][]int, 0, len(sol.Routes))
	for _, rt := range sol.Routes {
		routes = append(routes, []int(rt))
	}

	return dto.SolutionResponse{
		SolutionID:    sol.ID,
		Problem:       sol.ProblemName,
		Algorithm:     sol.Algorithm,
		Vehicles:      len(sol.Routes),
		TotalDistance: sol.TotalDistance,
		Routes:        routes,
		CreatedAt:     sol.CreatedAt,
	}
}
