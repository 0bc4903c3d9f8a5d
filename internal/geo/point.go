// Package geo provides the spatial grid: points, named areas, and the
// region-level partition into housing, transport, work, and hospital.
package geo

// Point is an integer grid coordinate. 0 <= X, Y < grid size.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// neighborOffsets is the 8-connected neighborhood.
var neighborOffsets = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
