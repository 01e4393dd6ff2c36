package ports

// Contract for retrieving the travel distance between two problem nodes.
// Implementations are pure: the same pair always yields the same distance.
type DistanceProvider interface {
	// Return the distance from node `from` to node `to`.
	Distance(from, to int) float64
}
