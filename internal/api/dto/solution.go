package dto

import "time"

type NodeRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Demand float64 `json:"demand"`
}

// InlineProblemRequest describes a problem sent with the request instead of
// one stored by name. Nodes are indexed in the order given.
type InlineProblemRequest struct {
	Name     string        `json:"name"`
	Capacity float64       `json:"capacity"`
	Depot    int           `json:"depot"`
	Nodes    []NodeRequest `json:"nodes"`
}

type SolveRequest struct {
	Problem   string                `json:"problem"`
	Inline    *InlineProblemRequest `json:"inline"`
	Algorithm string                `json:"algorithm"`
}

type SolutionResponse struct {
	SolutionID    string    `json:"solution_id"`
	Problem       string    `json:"problem"`
	Algorithm     string    `json:"algorithm"`
	Vehicles      int       `json:"vehicles"`
	TotalDistance float64   `json:"total_distance"`
	Routes        [][]int   `json:"routes"`
	CreatedAt     time.Time `json:"created_at"`
}
