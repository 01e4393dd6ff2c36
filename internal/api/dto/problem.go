package dto

type ProblemSummaryResponse struct {
	Name        string  `json:"name"`
	Dimension   int     `json:"dimension"`
	Customers   int     `json:"customers"`
	Capacity    float64 `json:"capacity"`
	Depot       int     `json:"depot"`
	TotalDemand float64 `json:"total_demand"`
}

type ListProblemsResponse struct {
	Problems []ProblemSummaryResponse `json:"problems"`
}

type NodeResponse struct {
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Demand float64 `json:"demand"`
}

type ProblemResponse struct {
	ProblemSummaryResponse
	Nodes []NodeResponse `json:"nodes"`
}
