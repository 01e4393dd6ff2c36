package handlers

import (
	"cvrp-route-service/internal/platform/obs"
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

// Errors carry the request id so clients can correlate them with server logs.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	res := map[string]string{"error": msg}
	if id := obs.RequestID(r.Context()); id != "" {
		res["request_id"] = id
	}
	writeJSON(w, r, status, res)
}
