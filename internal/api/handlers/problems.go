package handlers

import (
	"cvrp-route-service/internal/api/dto"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"errors"
	"log"
	"net/http"
	"strings"
)

// ProblemHandler exposes read-only problem retrieval endpoints.
type ProblemHandler struct {
	Repo ports.ProblemRepository
}

func (h *ProblemHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	problems, err := h.Repo.ListProblems(r.Context())
	if err != nil {
		log.Printf("list problems failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListProblemsResponse{
		Problems: make([]dto.ProblemSummaryResponse, 0, len(problems)),
	}
	for _, p := range problems {
		res.Problems = append(res.Problems, summarize(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ProblemHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "problem name is required")
		return
	}

	p, err := h.Repo.GetProblem(r.Context(), name)
	if errors.Is(err, ports.ErrProblemNotFound) {
		writeError(w, r, http.StatusNotFound, "problem not found")
		return
	}
	if err != nil {
		log.Printf("get problem failed: name=%s err=%v", name, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ProblemResponse{
		ProblemSummaryResponse: summarize(p),
		Nodes:                  make([]dto.NodeResponse, 0, p.Dimension()),
	}
	for i, c := range p.Coordinates {
		res.Nodes = append(res.Nodes, dto.NodeResponse{
			Index:  i,
			X:      c.X,
			Y:      c.Y,
			Demand: p.Demands[i],
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func summarize(p *domain.Problem) dto.ProblemSummaryResponse {
	customers := p.Customers()
	total := 0.0
	for _, c := range customers {
		total += p.Demands[c]
	}

	return dto.ProblemSummaryResponse{
		Name:        p.Name,
		Dimension:   p.Dimension(),
		Customers:   len(customers),
		Capacity:    p.Capacity,
		Depot:       p.Depot,
		TotalDemand: total,
	}
}
