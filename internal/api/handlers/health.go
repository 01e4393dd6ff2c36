package handlers

import (
	"cvrp-route-service/internal/services"
	"net/http"
)

type healthResponse struct {
	Status     string   `json:"status"`
	Algorithms []string `json:"algorithms"`
}

// Health provides a minimal liveness check endpoint.
// It also reports the heuristics the solver accepts.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := healthResponse{Status: "ok", Algorithms: make([]string, 0, len(services.Algorithms))}
	for _, a := range services.Algorithms {
		res.Algorithms = append(res.Algorithms, string(a))
	}
	writeJSON(w, r, http.StatusOK, res)
}
