// Package locationmap holds the authoritative bijection between grid
// cells and citizens for one region, and the mutations the hourly
// simulator, interventions, and travel assimilation perform against it.
package locationmap

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/geo"
)

// Map is the authoritative Point -> Citizen mapping for one region, with a
// back-reference for O(1) lookup by agent id. Per the Design Notes, this
// uses a single write map with in-place commit: one source of truth,
// mutated only at routine-decision commit points within a tick, which
// satisfies the no-collision invariant (§8.2) as long as every mutation
// goes through MoveAgent/GotoHospital.
type Map struct {
	RegionID string
	Grid     geo.Grid

	cells map[geo.Point]*citizen.Citizen
	index map[uuid.UUID]geo.Point
}

// New creates an empty map over the given grid.
func New(grid geo.Grid) *Map {
	return &Map{
		RegionID: grid.RegionID,
		Grid:     grid,
		cells:    make(map[geo.Point]*citizen.Citizen),
		index:    make(map[uuid.UUID]geo.Point),
	}
}

// Place inserts c at p unconditionally. Used only during population
// initialization, when vacancy has already been arranged by the caller.
func (m *Map) Place(p geo.Point, c *citizen.Citizen) {
	if _, occupied := m.cells[p]; occupied {
		panic(fmt.Sprintf("locationmap: cell %v already occupied during placement", p))
	}
	c.Current = p
	m.cells[p] = c
	m.index[c.ID] = p
}

// At returns the citizen at p, if any.
func (m *Map) At(p geo.Point) (*citizen.Citizen, bool) {
	c, ok := m.cells[p]
	return c, ok
}

// Vacant reports whether p holds no citizen.
func (m *Map) Vacant(p geo.Point) bool {
	_, occupied := m.cells[p]
	return !occupied
}

// PointOf returns the current cell of the citizen with the given id.
func (m *Map) PointOf(id uuid.UUID) (geo.Point, bool) {
	p, ok := m.index[id]
	return p, ok
}

// MoveAgent writes the citizen at `from` to `to` if `to` is vacant;
// otherwise it leaves the agent at `from` unchanged. Returns the agent's
// resulting cell. Preserves the no-collision invariant.
func (m *Map) MoveAgent(from, to geo.Point) geo.Point {
	if from == to {
		return from
	}
	if !m.Vacant(to) {
		return from
	}
	c := m.cells[from]
	if c == nil {
		panic(fmt.Sprintf("locationmap: move_agent from empty cell %v", from))
	}
	delete(m.cells, from)
	m.cells[to] = c
	c.Current = to
	m.index[c.ID] = to
	return to
}

// GotoHospital scans the hospital area for the first vacant cell (in a
// stable row-major order) and moves the agent there. Returns whether a bed
// was found and the resulting cell.
func (m *Map) GotoHospital(from geo.Point) (bool, geo.Point) {
	h := m.Grid.Hospital
	for y := h.Min.Y; y <= h.Max.Y; y++ {
		for x := h.Min.X; x <= h.Max.X; x++ {
			p := geo.Point{X: x, Y: y}
			if m.Vacant(p) {
				return true, m.MoveAgent(from, p)
			}
		}
	}
	return false, from
}

// Count returns the number of citizens currently mapped, deceased
// citizens included.
func (m *Map) Count() int {
	return len(m.cells)
}

// All returns every citizen in the map, in a stable id-sorted order —
// the "unspecified but stable order" the hourly simulator iterates in.
func (m *Map) All() []*citizen.Citizen {
	out := make([]*citizen.Citizen, 0, len(m.cells))
	for _, c := range m.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Remove deletes the citizen at p from the map entirely — used when a
// citizen emigrates or commutes out. Deceased citizens stay in the map.
func (m *Map) Remove(p geo.Point) (*citizen.Citizen, bool) {
	c, ok := m.cells[p]
	if !ok {
		return nil, false
	}
	delete(m.cells, p)
	delete(m.index, c.ID)
	return c, true
}
