package population

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/disease"
	"github.com/epirust-go/epirust/internal/geo"
)

// StartingInfections names the initial case mix to seed into a freshly
// built population, mirroring original_source's set_starting_infections.
type StartingInfections struct {
	Exposed   int
	MildAsymp int
	MildSymp  int
	Severe    int
}

// Total returns the sum of all buckets.
func (s StartingInfections) Total() int { return s.Exposed + s.MildAsymp + s.MildSymp + s.Severe }

// hospitalStaffPercentage is the fraction of working citizens drawn as
// hospital staff (original_source's HOSPITAL_STAFF_PERCENTAGE; its defining
// constants file wasn't part of the retrieved source, so this is a
// documented, reasonable stand-in — see DESIGN.md).
const hospitalStaffPercentage = 0.05

// Seed builds one Citizen per record, places it in a distinct housing
// cell per PlaceHomes, and assigns home/work/transport geometry from grid.
// It then seeds starting infections into a random subset, panicking if
// the requested total exceeds the population size — the same hard
// failure original_source's citizen_factory uses rather than silently
// under-seeding.
func Seed(records []Record, grid geo.Grid, regionID string, immunityMax int, infections StartingInfections, rng interface {
	Intn(n int) int
	Bernoulli(p float64) bool
	ChooseMultiple(n, k int) []int
}, seed int64) []*citizen.Citizen {
	citizens := make([]*citizen.Citizen, len(records))
	for i, rec := range records {
		citizens[i] = &citizen.Citizen{
			ID:                  uuid.New(),
			Immunity:            rng.Intn(immunityMax + 1),
			HomeRegion:          regionID,
			WorkRegion:          regionID,
			Working:             rec.Working,
			UsesPublicTransport: rec.PubTransport,
			Status:              deriveWorkStatus(rec.Working, rng),
			Disease:             disease.NewSusceptible(),
		}
	}

	homes := PlaceHomes(grid.Housing, citizens, seed)
	for i, c := range citizens {
		if i >= len(homes) {
			panic(fmt.Sprintf("population: housing area has %d cells, cannot place %d citizens", len(homes), len(citizens)))
		}
		c.Home = homes[i]
		c.Current = homes[i]
		c.Work = grid.Work.GetRandomPoint(rng)
		c.Transport = grid.Transport.GetRandomPoint(rng)
	}

	if infections.Total() > 0 {
		seedInfections(citizens, infections, rng)
	}
	return citizens
}

// deriveWorkStatus assigns a citizen's WorkStatus the way
// original_source's derive_work_status does: non-workers are NotApplicable;
// workers are HospitalStaff with a probability of hospitalStaffPercentage
// (starting their shift at the routine work hour) and Normal otherwise.
func deriveWorkStatus(working bool, rng interface{ Bernoulli(p float64) bool }) citizen.WorkStatus {
	if !working {
		return citizen.WorkStatus{Kind: citizen.NotApplicable}
	}
	if rng.Bernoulli(hospitalStaffPercentage) {
		return citizen.WorkStatus{Kind: citizen.HospitalStaff, WorkStartAt: citizen.RoutineWorkTime}
	}
	return citizen.WorkStatus{Kind: citizen.Normal}
}

func seedInfections(citizens []*citizen.Citizen, inf StartingInfections, rng interface {
	Intn(n int) int
	ChooseMultiple(n, k int) []int
}) {
	if inf.Total() > len(citizens) {
		panic(fmt.Sprintf("population: starting infections (%d) exceed population (%d)", inf.Total(), len(citizens)))
	}
	idxs := rng.ChooseMultiple(len(citizens), inf.Total())
	cursor := 0
	assign := func(n int, build func(c *citizen.Citizen)) {
		for i := 0; i < n; i++ {
			build(citizens[idxs[cursor]])
			cursor++
		}
	}
	assign(inf.Exposed, func(c *citizen.Citizen) {
		c.Disease.Expose(0)
	})
	assign(inf.MildAsymp, func(c *citizen.Citizen) {
		c.Disease = disease.NewInfected(false, disease.Mild, 1)
	})
	assign(inf.MildSymp, func(c *citizen.Citizen) {
		c.Disease = disease.NewInfected(true, disease.Mild, 1)
	})
	assign(inf.Severe, func(c *citizen.Citizen) {
		c.Disease = disease.NewInfected(true, disease.Severe, 1)
	})
}
