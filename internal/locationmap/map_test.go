package locationmap

import (
	"testing"

	"github.com/google/uuid"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/geo"
)

func smallGrid() geo.Grid {
	return geo.Generate("r1", 10, 0.1, 10)
}

func TestMoveAgentRespectsOccupancy(t *testing.T) {
	m := New(smallGrid())
	a := &citizen.Citizen{ID: uuid.New()}
	b := &citizen.Citizen{ID: uuid.New()}
	m.Place(geo.Point{X: 0, Y: 0}, a)
	m.Place(geo.Point{X: 1, Y: 0}, b)

	got := m.MoveAgent(geo.Point{X: 0, Y: 0}, geo.Point{X: 1, Y: 0})
	if got != (geo.Point{X: 0, Y: 0}) {
		t.Fatalf("expected move into occupied cell to be rejected, agent stayed at %v", got)
	}

	got2 := m.MoveAgent(geo.Point{X: 0, Y: 0}, geo.Point{X: 2, Y: 0})
	if got2 != (geo.Point{X: 2, Y: 0}) {
		t.Fatalf("expected move into vacant cell to succeed, got %v", got2)
	}
	if !m.Vacant(geo.Point{X: 0, Y: 0}) {
		t.Fatalf("expected origin cell to be vacated")
	}
}

func TestGotoHospitalFindsFirstVacancy(t *testing.T) {
	m := New(smallGrid())
	a := &citizen.Citizen{ID: uuid.New()}
	m.Place(geo.Point{X: 0, Y: 0}, a)

	ok, p := m.GotoHospital(geo.Point{X: 0, Y: 0})
	if !ok {
		t.Fatal("expected a hospital bed to be available")
	}
	if !m.Grid.Hospital.Contains(p) {
		t.Fatalf("expected placement inside hospital area, got %v", p)
	}
}

func TestAllRespectsAtMostOneCitizenPerCell(t *testing.T) {
	m := New(smallGrid())
	seen := make(map[geo.Point]bool)
	for i := 0; i < 5; i++ {
		p := geo.Point{X: i, Y: 0}
		m.Place(p, &citizen.Citizen{ID: uuid.New()})
		seen[p] = true
	}
	if m.Count() != 5 {
		t.Fatalf("expected 5 citizens, got %d", m.Count())
	}
	all := m.All()
	if len(all) != 5 {
		t.Fatalf("expected All() to return 5 citizens, got %d", len(all))
	}
	for _, c := range all {
		if !seen[c.Current] {
			t.Fatalf("citizen at %v is not in a distinct placed cell", c.Current)
		}
		delete(seen, c.Current)
	}
}
