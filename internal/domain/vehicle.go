package domain

import "fmt"

// Vehicle accumulates one route while it is being built.
// It starts at the depot with no load and refuses any customer that would push
// the load past Capacity.
type Vehicle struct {
	Capacity float64
	Depot    int
	Load     float64
	Stops    []int
}

func NewVehicle(capacity float64, depot int) *Vehicle {
	return &Vehicle{
		Capacity: capacity,
		Depot:    depot,
	}
}

// Last returns the most recently visited node, the depot for an empty vehicle.
func (v *Vehicle) Last() int {
	if len(v.Stops) == 0 {
		return v.Depot
	}
	return v.Stops[len(v.Stops)-1]
}

// Empty reports whether no customer has been loaded yet.
func (v *Vehicle) Empty() bool { return len(v.Stops) == 0 }

// CanCarry reports whether demand still fits.
func (v *Vehicle) CanCarry(demand float64) bool {
	return v.Load+demand <= v.Capacity
}

// Visit loads a single customer onto the vehicle.
func (v *Vehicle) Visit(node int, demand float64) error {
	if !v.CanCarry(demand) {
		return fmt.Errorf("visit node %d: load=%g + demand=%g exceeds capacity=%g", node, v.Load, demand, v.Capacity)
	}
	v.Stops = append(v.Stops, node)
	v.Load += demand
	return nil
}

// Close returns the finished depot-to-depot route and resets the vehicle.
func (v *Vehicle) Close() Route {
	r := make(Route, 0, len(v.Stops)+2)
	r = append(r, v.Depot)
	r = append(r, v.Stops...)
	r = append(r, v.Depot)
	v.Stops = nil
	v.Load = 0
	return r
}
