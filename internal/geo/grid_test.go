package geo

import "testing"

type fixedSource struct{ n int }

func (f fixedSource) Intn(n int) int { return f.n % n }

func TestAreaContains(t *testing.T) {
	a := Area{Kind: Housing, Min: Point{0, 0}, Max: Point{9, 9}}
	if !a.Contains(Point{5, 5}) {
		t.Errorf("expected (5,5) to be contained in %v", a)
	}
	if a.Contains(Point{10, 0}) {
		t.Errorf("did not expect (10,0) to be contained in %v", a)
	}
}

func TestAreaGetNeighborsOfClipsToBounds(t *testing.T) {
	a := Area{Kind: Housing, Min: Point{0, 0}, Max: Point{9, 9}}
	neighbors := a.GetNeighborsOf(Point{0, 0})
	if len(neighbors) != 3 {
		t.Fatalf("expected 3 neighbors for corner cell, got %d: %v", len(neighbors), neighbors)
	}
}

func TestGridGeneratePartitionsWithoutOverlap(t *testing.T) {
	g := Generate("region1", 100, 0.003, 10)
	areas := []Area{g.Housing, g.Transport, g.Work, g.Hospital}
	for i := range areas {
		for j := range areas {
			if i == j {
				continue
			}
			for x := areas[i].Min.X; x <= areas[i].Max.X; x++ {
				for y := areas[i].Min.Y; y <= areas[i].Max.Y; y++ {
					if areas[j].Contains(Point{x, y}) {
						t.Fatalf("area %s and %s overlap at (%d,%d)", areas[i].Kind, areas[j].Kind, x, y)
					}
				}
			}
		}
	}
}

func TestGridResizeHospitalGrowsWithBeds(t *testing.T) {
	g := Generate("region1", 100, 0.01, 10)
	before := g.Hospital.Max.Y - g.Hospital.Min.Y
	g.ResizeHospital(500)
	after := g.Hospital.Max.Y - g.Hospital.Min.Y
	if after <= before {
		t.Errorf("expected hospital area to grow, before=%d after=%d", before, after)
	}
}

func hospitalCells(a Area) int {
	n := 0
	for x := a.Min.X; x <= a.Max.X; x++ {
		for y := a.Min.Y; y <= a.Max.Y; y++ {
			n++
		}
	}
	return n
}

// Zero hospital_beds_percentage must admit no hospitalizations at all
// (spec §8 boundary behavior), not merely a shrunken ward.
func TestGridGenerateZeroBedsHasNoHospitalCells(t *testing.T) {
	g := Generate("region1", 100, 0, 10000)
	if n := hospitalCells(g.Hospital); n != 0 {
		t.Fatalf("expected 0 hospital cells for hospitalBedsPct=0, got %d", n)
	}
	if g.Hospital.Contains(Point{g.Hospital.Min.X, 0}) {
		t.Fatalf("zero-bed hospital area must contain no points")
	}
}

func TestGridResizeHospitalToZeroBedsCollapses(t *testing.T) {
	g := Generate("region1", 100, 0.01, 10)
	g.ResizeHospital(0)
	if n := hospitalCells(g.Hospital); n != 0 {
		t.Fatalf("expected 0 hospital cells after resizing to 0 beds, got %d", n)
	}
}
