// Package intervention provides thin vaccination/lockdown/hospital-resize
// appliers against a region's map and grid (spec §4.12). Scheduling when
// an intervention fires is a boundary-adapter concern left to the region
// driver; these functions only apply, once called.
package intervention

import (
	"strconv"

	"github.com/epirust-go/epirust/internal/geo"
	"github.com/epirust-go/epirust/internal/listener"
	"github.com/epirust-go/epirust/internal/locationmap"
)

// Rng is the randomness surface these appliers need.
type Rng interface {
	Bernoulli(p float64) bool
}

// Vaccinate marks a random pct of the living, unvaccinated population as
// vaccinated.
func Vaccinate(m *locationmap.Map, pct float64, rng Rng, fanOut *listener.FanOut, hour int) int {
	n := 0
	for _, c := range m.All() {
		if c.Vaccinated || c.Disease.IsDeceased() {
			continue
		}
		if rng.Bernoulli(pct) {
			c.Vaccinated = true
			n++
		}
	}
	fanOut.InterventionApplied(hour, listener.Vaccination, strconv.Itoa(n)+" citizens vaccinated")
	return n
}

// Lockdown isolates every non-essential working citizen, per
// essentialPct of the workforce exempted.
func Lockdown(m *locationmap.Map, essentialPct float64, rng Rng, fanOut *listener.FanOut, hour int) int {
	n := 0
	for _, c := range m.All() {
		if !c.Working || c.Disease.IsDeceased() {
			continue
		}
		if rng.Bernoulli(essentialPct) {
			continue // essential worker, exempt
		}
		c.Isolated = true
		n++
	}
	fanOut.InterventionApplied(hour, listener.Lockdown, strconv.Itoa(n)+" citizens isolated")
	return n
}

// Unlock lifts isolation from every citizen.
func Unlock(m *locationmap.Map, fanOut *listener.FanOut, hour int) int {
	n := 0
	for _, c := range m.All() {
		if c.Isolated {
			c.Isolated = false
			n++
		}
	}
	fanOut.InterventionApplied(hour, listener.Unlock, strconv.Itoa(n)+" citizens released from isolation")
	return n
}

// ResizeHospital grows or shrinks the hospital area to the given beds
// percentage of population (truncated to a whole bed count).
func ResizeHospital(g *geo.Grid, population int, pct float64, fanOut *listener.FanOut, hour int) {
	beds := int(pct * float64(population))
	g.ResizeHospital(beds)
	fanOut.InterventionApplied(hour, listener.HospitalResize, "hospital resized for "+strconv.Itoa(beds)+" beds")
}

