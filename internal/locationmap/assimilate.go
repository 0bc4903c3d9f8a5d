package locationmap

import (
	"fmt"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/geo"
	"github.com/epirust-go/epirust/internal/travel"
)

// maxAssimilationRetries bounds the random draws within the destination
// area before placeInArea falls back to an exhaustive scan of that area;
// only if the scan also finds no vacant cell is the incoming
// migrator/commuter treated as an assimilation-mismatch error (spec §7 —
// silent loss is forbidden).
const maxAssimilationRetries = 64

// RemoveMigrators deletes the given departing citizens from the map.
func (m *Map) RemoveMigrators(ids []geo.Point) {
	for _, p := range ids {
		m.Remove(p)
	}
}

// AssimilateMigrants reconstitutes each incoming Migrator into a full
// Citizen bound to this region's geometry, placing it in a random vacant
// housing cell. It returns the reconstituted citizens (for counts
// bookkeeping by the caller).
func (m *Map) AssimilateMigrants(incoming []travel.Migrator, src geo.IntSource) []*citizen.Citizen {
	out := make([]*citizen.Citizen, 0, len(incoming))
	for _, mi := range incoming {
		c := m.placeInArea(m.Grid.Housing, src, func(home geo.Point) *citizen.Citizen {
			return &citizen.Citizen{
				ID:                  mi.ID,
				Immunity:            mi.Immunity,
				Vaccinated:          mi.Vaccinated,
				UsesPublicTransport: mi.UsesPublicTransport,
				Disease:             mi.Disease,
				HomeRegion:          m.RegionID,
				WorkRegion:          m.RegionID,
				Home:                home,
				Work:                m.Grid.Work.GetRandomPoint(src),
				Transport:           m.Grid.Transport.GetRandomPoint(src),
				Working:             true,
			}
		})
		out = append(out, c)
	}
	return out
}

// AssimilateCommuters reconstitutes each incoming Commuter. atWorkArea
// determines whether the commuter lands in the work area (arriving to
// work) or the housing area (returning home).
func (m *Map) AssimilateCommuters(incoming []travel.Commuter, src geo.IntSource, atWorkArea bool) []*citizen.Citizen {
	area := m.Grid.Housing
	if atWorkArea {
		area = m.Grid.Work
	}
	out := make([]*citizen.Citizen, 0, len(incoming))
	for _, ci := range incoming {
		c := m.placeInArea(area, src, func(p geo.Point) *citizen.Citizen {
			cc := &citizen.Citizen{
				ID:                  ci.ID,
				Immunity:            ci.Immunity,
				Vaccinated:          ci.Vaccinated,
				UsesPublicTransport: ci.UsesPublicTransport,
				Disease:             ci.Disease,
				HomeRegion:          ci.HomeRegion,
				WorkRegion:          ci.WorkRegion,
				Working:             true,
			}
			if atWorkArea {
				cc.Work = p
			} else {
				cc.Home = p
			}
			return cc
		})
		out = append(out, c)
	}
	return out
}

// placeInArea finds a vacant cell in area, builds the citizen via build,
// and places it there. It retries within the area (spec §7's "locally
// recovered" case) before escalating to an assimilation-mismatch panic.
func (m *Map) placeInArea(area geo.Area, src geo.IntSource, build func(geo.Point) *citizen.Citizen) *citizen.Citizen {
	for attempt := 0; attempt < maxAssimilationRetries; attempt++ {
		p := area.GetRandomPoint(src)
		if m.Vacant(p) {
			c := build(p)
			m.Place(p, c)
			return c
		}
	}
	// Exhaustive scan before declaring the mismatch — cheaper than it
	// looks since areas are small relative to population in practice.
	for y := area.Min.Y; y <= area.Max.Y; y++ {
		for x := area.Min.X; x <= area.Max.X; x++ {
			p := geo.Point{X: x, Y: y}
			if m.Vacant(p) {
				c := build(p)
				m.Place(p, c)
				return c
			}
		}
	}
	panic(fmt.Sprintf("locationmap: assimilation mismatch — no vacant cell in %s area of region %s", area.Kind, m.RegionID))
}
