package travel

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Plan holds an N-region travel matrix shared by migration and commute
// planning: row i, column j is the per-period count of agents region i
// sends to region j (spec §3/§4.4).
type Plan struct {
	Regions           []string `toml:"regions" json:"regions"`
	Matrix            [][]int  `toml:"matrix" json:"matrix"`
	LockdownTravelers int      `toml:"lockdown_travellers" json:"lockdown_travellers"`
}

// ValidateRegions reports whether regions is a permutation of p.Regions.
func (p Plan) ValidateRegions(regions []string) bool {
	if len(regions) != len(p.Regions) {
		return false
	}
	have := make(map[string]bool, len(p.Regions))
	for _, r := range p.Regions {
		have[r] = true
	}
	for _, r := range regions {
		if !have[r] {
			return false
		}
		delete(have, r)
	}
	return true
}

func (p Plan) indexOf(region string) int {
	i := slices.Index(p.Regions, region)
	if i < 0 {
		panic(fmt.Sprintf("travel: region %q not present in plan", region))
	}
	return i
}

// UpdateWithLockdowns returns a new Plan with every positive entry in the
// row and column of each locked region replaced by LockdownTravelers.
// Idempotent: applying it twice with the same lockdown set is a no-op on
// the second application (spec §8 round-trip law).
func (p Plan) UpdateWithLockdowns(lockdown map[string]bool) Plan {
	out := p.clone()
	for region, locked := range lockdown {
		if locked {
			out.applyLockdown(region)
		}
	}
	return out
}

func (p *Plan) clone() Plan {
	matrix := make([][]int, len(p.Matrix))
	for i, row := range p.Matrix {
		matrix[i] = append([]int(nil), row...)
	}
	return Plan{Regions: p.Regions, Matrix: matrix, LockdownTravelers: p.LockdownTravelers}
}

func (p *Plan) applyLockdown(region string) {
	idx := p.indexOf(region)
	n := len(p.Regions)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != idx && j != idx {
				continue
			}
			if p.Matrix[i][j] > 0 {
				p.Matrix[i][j] = p.LockdownTravelers
			}
		}
	}
}

// IncomingRegionsCount returns the number of source regions with a
// positive inbound entry to `region` — the receive loop's completion
// condition (spec §4.4).
func (p Plan) IncomingRegionsCount(region string) int {
	idx := p.indexOf(region)
	n := 0
	for i := range p.Regions {
		if i != idx && p.Matrix[i][idx] > 0 {
			n++
		}
	}
	return n
}

// Planner drives one region's slice of a shared Plan.
type Planner struct {
	Plan       Plan
	RegionName string
	regionIdx  int
}

// NewPlanner binds a Plan to the region that will use it to allocate its
// own outgoing pool.
func NewPlanner(p Plan, regionName string) *Planner {
	return &Planner{Plan: p, RegionName: regionName, regionIdx: p.indexOf(regionName)}
}

// PercentOutgoing is the sum of this region's outbound row divided by its
// current population.
func (pl *Planner) PercentOutgoing(population int) float64 {
	if population == 0 {
		return 0
	}
	row := pl.Plan.Matrix[pl.regionIdx]
	total := 0
	for j, v := range row {
		if j != pl.regionIdx {
			total += v
		}
	}
	return float64(total) / float64(population)
}

// Allocation is one destination's share of an outgoing pool.
type Allocation struct {
	Region string
	Count  int
}

// AllocOutgoingToRegions partitions poolSize proportionally to this
// region's matrix row, truncating if the pool is smaller than the row
// sum. Returns per-destination allocations and the actual total handed
// out (spec §4.4's "actual outgoing").
func (pl *Planner) AllocOutgoingToRegions(poolSize int) (allocations []Allocation, actualOutgoing int) {
	row := pl.Plan.Matrix[pl.regionIdx]
	rowSum := 0
	for j, v := range row {
		if j != pl.regionIdx {
			rowSum += v
		}
	}
	if rowSum == 0 {
		return nil, 0
	}
	remaining := poolSize
	for j, v := range row {
		if j == pl.regionIdx || v == 0 {
			continue
		}
		share := poolSize * v / rowSum
		if share > remaining {
			share = remaining
		}
		remaining -= share
		if share > 0 {
			allocations = append(allocations, Allocation{Region: pl.Plan.Regions[j], Count: share})
			actualOutgoing += share
		}
	}
	return allocations, actualOutgoing
}

// IncomingRegionsCount delegates to the bound Plan for this region.
func (pl *Planner) IncomingRegionsCount() int {
	return pl.Plan.IncomingRegionsCount(pl.RegionName)
}
