package population

import (
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/geo"
)

// Rng is the randomness surface auto-generation needs.
type Rng interface {
	Bernoulli(p float64) bool
	Intn(n int) int
}

// AutoGenerate builds count synthetic records, assigning working/
// pub_transport by Bernoulli draws at the configured percentages —
// mirrors original_source's citizen_factory auto-generation path.
func AutoGenerate(count int, workingPct, pubTransportPct float64, rng Rng) []Record {
	out := make([]Record, count)
	for i := 0; i < count; i++ {
		out[i] = Record{
			Ind:          uint32(i),
			Age:          "adult",
			Working:      rng.Bernoulli(workingPct),
			PubTransport: rng.Bernoulli(pubTransportPct),
		}
	}
	return out
}

// densityField biases home-cell selection toward organic clusters rather
// than raster-order filling, using opensimplex noise the way the teacher's
// world generator derives terrain fields from a seeded noise source.
type densityField struct {
	noise opensimplex.Noise
}

func newDensityField(seed int64) *densityField {
	return &densityField{noise: opensimplex.NewNormalized(seed)}
}

// weight returns a [0,1) density weight for point p, sampled at a coarse
// scale so clusters span several cells.
func (d *densityField) weight(p geo.Point) float64 {
	const scale = 0.08
	return d.noise.Eval2(float64(p.X)*scale, float64(p.Y)*scale)
}

// PlaceHomes assigns each citizen a home cell within housing, preferring
// higher-density noise cells first so the initial population clusters
// organically instead of filling the area in raster order. It returns one
// point per citizen, all distinct, or fewer points when the housing area
// has fewer cells than there are citizens.
func PlaceHomes(housing geo.Area, citizens []*citizen.Citizen, seed int64) []geo.Point {
	field := newDensityField(seed)

	type candidate struct {
		p geo.Point
		w float64
	}
	var candidates []candidate
	for y := housing.Min.Y; y <= housing.Max.Y; y++ {
		for x := housing.Min.X; x <= housing.Max.X; x++ {
			p := geo.Point{X: x, Y: y}
			candidates = append(candidates, candidate{p: p, w: field.weight(p)})
		}
	}
	// Higher-weight cells are claimed first, so the initial population
	// clusters around noise peaks instead of filling the area in raster
	// order.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].w > candidates[j].w })

	points := make([]geo.Point, 0, len(citizens))
	for i := range citizens {
		if i >= len(candidates) {
			break
		}
		points = append(points, candidates[i].p)
	}
	return points
}
