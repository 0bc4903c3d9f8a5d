// Package simulation drives the per-hour, per-agent update: routine
// action, exposure, infection, and severity progression, aggregating
// counts and signaling listeners (spec §4.2/§4.3).
package simulation

import (
	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/disease"
	"github.com/epirust-go/epirust/internal/geo"
	"github.com/epirust-go/epirust/internal/listener"
	"github.com/epirust-go/epirust/internal/locationmap"
	"github.com/epirust-go/epirust/internal/travel"
)

// Rng is the randomness surface the hourly simulator needs.
type Rng interface {
	disease.Source
	geo.IntSource
	Float64() float64
	ChooseMultiple(n, k int) []int
}

// Outgoing collects the agents selected this hour to emigrate or commute,
// as side output of Simulate (spec §4.3).
type Outgoing struct {
	Migrators []OutgoingMigrator
	Commuters []travel.Commuter
}

// OutgoingMigrator pairs a departing citizen with the cell it vacated, so
// the caller can remove it from the map after dispatch.
type OutgoingMigrator struct {
	Point    geo.Point
	Migrator travel.Migrator
}

// Simulate drives every agent in m once for simHr, mutating m in place and
// returning this hour's aggregate Counts and any outgoing travelers.
// Listeners are signaled on state changes and new infections as they
// occur (spec §4.2's update ordering: routine, exposure, infection,
// severity).
func Simulate(m *locationmap.Map, simHr int, d disease.Disease, percentOutgoing float64,
	rng Rng, fanOut *listener.FanOut) (travel.Counts, Outgoing) {

	hourOfDay := ((simHr % 24) + 24) % 24
	var out Outgoing

	for _, c := range m.All() {
		stepCitizen(m, c, simHr, hourOfDay, d, rng, fanOut)
	}

	if hourOfDay == citizen.RoutineStart {
		out.Migrators = selectOutgoingMigrators(m, percentOutgoing, rng)
	}
	if hourOfDay == citizen.RoutineTravelStart || hourOfDay == citizen.RoutineTravelEnd {
		out.Commuters = selectOutgoingCommuters(m)
	}

	counts := Tally(m)
	fanOut.CountsUpdated(simHr, counts)
	return counts, out
}

func stepCitizen(m *locationmap.Map, c *citizen.Citizen, simHr, hourOfDay int, d disease.Disease, rng Rng, fanOut *listener.FanOut) {
	before := c.Disease.State()

	if hourOfDay == citizen.RoutineStart {
		if c.Disease.IsInfected() {
			c.Disease.IncrementInfectionDay()
		}
		citizen.UpdateHospitalStaffQuarantineCycle(c, simHr)
		if !c.Hospitalized && c.Disease.IsInfected() && c.Disease.Hospitalize(d, c.Immunity) {
			if ok, newCell := m.GotoHospital(c.Current); ok {
				c.Hospitalized = true
				_ = newCell
			}
		}
	}

	applyRoutine(m, c, hourOfDay, rng)

	updateExposure(m, c, simHr, d, rng, fanOut)

	if c.Disease.IsExposed() {
		c.Disease.Infect(rng, simHr, d)
	}
	if c.Disease.IsInfected() && c.Disease.Symptomatic() && c.Disease.Severity() == disease.Pre {
		c.Disease.ChangeInfectionSeverity(simHr, rng, d)
	}

	if hourOfDay == citizen.RoutineEnd && c.Disease.IsInfected() {
		died, recovered := c.Disease.Decease(rng, d)
		if (died || recovered) && c.Hospitalized {
			c.Hospitalized = false
		}
	}

	if c.Disease.State() != before {
		fanOut.CitizenStateUpdated(simHr, *c, c.Current)
	}
}

func applyRoutine(m *locationmap.Map, c *citizen.Citizen, hourOfDay int, rng Rng) {
	action := citizen.Decide(c, hourOfDay)
	if action == citizen.NoneIllegalToMove {
		return
	}

	var target geo.Point
	switch action {
	case citizen.StayPut:
		return
	case citizen.GoHome:
		target = c.Home
	case citizen.GoWork:
		target = m.Grid.Work.GetRandomPoint(rng)
	case citizen.GoTransport:
		target = c.Transport
	case citizen.GoHospital:
		target = c.Current
	case citizen.RandomWalk:
		area := areaFor(m, c)
		neighbors := area.GetNeighborsOf(c.Current)
		found := false
		for _, n := range neighbors {
			if m.Vacant(n) {
				target = n
				found = true
				break
			}
		}
		if !found {
			return
		}
	default:
		return
	}

	if !c.CanMove(target == c.Home) {
		return
	}
	m.MoveAgent(c.Current, target)
}

func areaFor(m *locationmap.Map, c *citizen.Citizen) geo.Area {
	switch {
	case m.Grid.Housing.Contains(c.Current):
		return m.Grid.Housing
	case m.Grid.Transport.Contains(c.Current):
		return m.Grid.Transport
	case m.Grid.Work.Contains(c.Current):
		return m.Grid.Work
	case m.Grid.Hospital.Contains(c.Current):
		return m.Grid.Hospital
	default:
		return m.Grid.Housing
	}
}

// updateExposure implements spec §4.2's exposure update: a susceptible,
// non-quarantined, unvaccinated citizen scans its current-area 8-connected
// neighborhood for an infectious, non-hospitalized neighbor, and becomes
// Exposed on the first Bernoulli success against that neighbor's current
// transmission rate.
func updateExposure(m *locationmap.Map, c *citizen.Citizen, simHr int, d disease.Disease, rng Rng, fanOut *listener.FanOut) {
	if !c.Disease.IsSusceptible() || c.WorkQuarantined || c.Vaccinated {
		return
	}
	area := areaFor(m, c)
	for _, n := range area.GetNeighborsOf(c.Current) {
		neighbor, ok := m.At(n)
		if !ok || !neighbor.Disease.IsInfectiousSource() || neighbor.Hospitalized {
			continue
		}
		rate := d.TransmissionRate(neighbor.Disease.InfectionDay() + neighbor.Immunity)
		if rng.Bernoulli(rate) {
			c.Disease.Expose(simHr)
			fanOut.CitizenGotInfected(simHr, c.Current)
			return
		}
	}
}

// Tally recomputes aggregate Counts by scanning every citizen currently in
// the map. The hourly simulator does not maintain a running counter
// independently of this; deltas are observed by listeners, but the
// authoritative tally (used for the invariant in spec §8.1) is this scan.
func Tally(m *locationmap.Map) travel.Counts {
	var c travel.Counts
	for _, cz := range m.All() {
		switch cz.Disease.State() {
		case disease.Susceptible:
			c.Susceptible++
		case disease.Exposed:
			c.Exposed++
		case disease.Infected:
			if cz.Hospitalized {
				c.Hospitalized++
			} else {
				c.Infected++
			}
		case disease.Recovered:
			c.Recovered++
		case disease.Deceased:
			c.Deceased++
		}
	}
	return c
}

func selectOutgoingMigrators(m *locationmap.Map, pct float64, rng Rng) []OutgoingMigrator {
	all := m.All()
	n := int(pct * float64(len(all)))
	if n <= 0 || len(all) == 0 {
		return nil
	}
	idxs := rng.ChooseMultiple(len(all), n)
	out := make([]OutgoingMigrator, 0, len(idxs))
	for _, i := range idxs {
		c := all[i]
		out = append(out, OutgoingMigrator{Point: c.Current, Migrator: toMigrator(c)})
	}
	return out
}

func selectOutgoingCommuters(m *locationmap.Map) []travel.Commuter {
	var out []travel.Commuter
	for _, c := range m.All() {
		if c.IsCommuter() {
			out = append(out, travel.ToWireCommuter(c))
		}
	}
	return out
}

func toMigrator(c *citizen.Citizen) travel.Migrator {
	return travel.ToWireMigrator(c)
}
