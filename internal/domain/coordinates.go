package domain

import "github.com/paulmach/orb"

// Immutable planar coordinates of a problem node.
type Coordinates struct {
	X float64
	Y float64
}

// Return coordinates as an orb point for planar geometry helpers.
func (c Coordinates) Point() orb.Point { return orb.Point{c.X, c.Y} }
