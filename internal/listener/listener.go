// Package listener recasts the source's runtime-polymorphic listener
// objects as a Go interface plus a fan-out that owns a list of
// implementations (spec §9 Design Notes).
package listener

import (
	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/geo"
	"github.com/epirust-go/epirust/internal/travel"
)

// InterventionKind names the applied intervention for InterventionApplied.
type InterventionKind string

const (
	Vaccination     InterventionKind = "vaccination"
	Lockdown        InterventionKind = "lockdown"
	Unlock          InterventionKind = "unlock"
	HospitalResize  InterventionKind = "hospital_resize"
)

// Listener receives every simulation event named in spec §6.
type Listener interface {
	GridUpdated(grid geo.Grid)
	CountsUpdated(hour int, counts travel.Counts)
	CitizenGotInfected(hour int, at geo.Point)
	CitizenStateUpdated(hour int, snapshot citizen.Citizen, at geo.Point)
	InterventionApplied(hour int, kind InterventionKind, detail string)
	OutgoingMigratorsAdded(hour int, perRegion []travel.MigratorsByRegion)
	SimulationEnded()
}

// FanOut broadcasts every event to each registered Listener, in
// registration order.
type FanOut struct {
	listeners []Listener
}

// NewFanOut builds a fan-out over the given listeners.
func NewFanOut(listeners ...Listener) *FanOut {
	return &FanOut{listeners: listeners}
}

// Register appends a listener to the fan-out.
func (f *FanOut) Register(l Listener) {
	f.listeners = append(f.listeners, l)
}

func (f *FanOut) GridUpdated(grid geo.Grid) {
	for _, l := range f.listeners {
		l.GridUpdated(grid)
	}
}

func (f *FanOut) CountsUpdated(hour int, counts travel.Counts) {
	for _, l := range f.listeners {
		l.CountsUpdated(hour, counts)
	}
}

func (f *FanOut) CitizenGotInfected(hour int, at geo.Point) {
	for _, l := range f.listeners {
		l.CitizenGotInfected(hour, at)
	}
}

func (f *FanOut) CitizenStateUpdated(hour int, snapshot citizen.Citizen, at geo.Point) {
	for _, l := range f.listeners {
		l.CitizenStateUpdated(hour, snapshot, at)
	}
}

func (f *FanOut) InterventionApplied(hour int, kind InterventionKind, detail string) {
	for _, l := range f.listeners {
		l.InterventionApplied(hour, kind, detail)
	}
}

func (f *FanOut) OutgoingMigratorsAdded(hour int, perRegion []travel.MigratorsByRegion) {
	for _, l := range f.listeners {
		l.OutgoingMigratorsAdded(hour, perRegion)
	}
}

func (f *FanOut) SimulationEnded() {
	for _, l := range f.listeners {
		l.SimulationEnded()
	}
}
