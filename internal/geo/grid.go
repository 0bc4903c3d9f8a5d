package geo

import "math"

// Grid is one region's full spatial partition: the four areas plus region
// identity and overall size. The housing/transport/work split is a fixed
// fraction of grid width (40/20/20); the remaining 20% is reserved for the
// hospital area, the smallest rectangle there that holds at least the
// configured bed count (capped at the full reserved footprint), which
// collapses to zero cells when no beds are configured.
type Grid struct {
	RegionID  string `json:"region_id"`
	Size      int    `json:"size"`
	Housing   Area   `json:"housing"`
	Transport Area   `json:"transport"`
	Work      Area   `json:"work"`
	Hospital  Area   `json:"hospital"`
}

// Generate partitions a size x size grid for regionID, sizing the hospital
// area for ceil(hospitalBedsPct * populationSize) beds (see hospitalArea).
func Generate(regionID string, size int, hospitalBedsPct float64, populationSize int) Grid {
	housingW := size * 2 / 5
	transportW := size / 5
	workW := size / 5
	originX := housingW + transportW + workW
	maxW := size - originX
	if maxW < 1 {
		maxW = 1
	}

	beds := int(math.Ceil(hospitalBedsPct * float64(populationSize)))

	return Grid{
		RegionID: regionID,
		Size:     size,
		Housing: Area{RegionID: regionID, Kind: Housing,
			Min: Point{0, 0}, Max: Point{housingW - 1, size - 1}},
		Transport: Area{RegionID: regionID, Kind: Transport,
			Min: Point{housingW, 0}, Max: Point{housingW + transportW - 1, size - 1}},
		Work: Area{RegionID: regionID, Kind: Work,
			Min: Point{housingW + transportW, 0}, Max: Point{housingW + transportW + workW - 1, size - 1}},
		Hospital: hospitalArea(regionID, originX, size, maxW, beds),
	}
}

// hospitalArea sizes the hospital rectangle to min(beds, maxW) columns by
// ceil(beds/columns) rows (at most size rows) within the reserved
// originX..size-1 footprint, so it holds at least beds cells unless the
// footprint is smaller, and possibly more when beds is not a multiple of the
// column count. It collapses to zero cells when beds <= 0 (spec §8: hospital_beds_percentage
// == 0 must admit no hospitalizations, not merely shrink the ward).
func hospitalArea(regionID string, originX, size, maxW, beds int) Area {
	if beds <= 0 {
		return Area{RegionID: regionID, Kind: Hospital,
			Min: Point{originX, 0}, Max: Point{originX - 1, -1}}
	}
	w := maxW
	if beds < w {
		w = beds
	}
	h := (beds + w - 1) / w
	if h > size {
		h = size
	}
	return Area{RegionID: regionID, Kind: Hospital,
		Min: Point{originX, 0}, Max: Point{originX + w - 1, h - 1}}
}

// ResizeHospital recomputes the hospital area for a new bed requirement,
// repacking it within the grid's reserved hospital column. Used by
// interventions.
func (g *Grid) ResizeHospital(beds int) {
	originX := g.Work.Max.X + 1
	maxW := g.Size - originX
	if maxW < 1 {
		maxW = 1
	}
	g.Hospital = hospitalArea(g.Hospital.RegionID, originX, g.Size, maxW, beds)
}

// AreaOf returns the area of the given kind.
func (g Grid) AreaOf(k Kind) Area {
	switch k {
	case Housing:
		return g.Housing
	case Transport:
		return g.Transport
	case Work:
		return g.Work
	case Hospital:
		return g.Hospital
	default:
		panic("geo: unknown area kind")
	}
}
