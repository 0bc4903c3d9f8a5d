package listener

import (
	"log/slog"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/geo"
	"github.com/epirust-go/epirust/internal/persistence"
	"github.com/epirust-go/epirust/internal/travel"
)

// persistenceStore is the slice of *persistence.DB this listener needs —
// kept as an interface so Persistence itself only depends on the one
// method it calls, not the whole DB surface.
type persistenceStore interface {
	SaveStats(engineID string, hour int, counts travel.Counts) error
}

// Persistence writes one RunStats row per simulated day.
type Persistence struct {
	DB       persistenceStore
	EngineID string
}

// NewPersistence builds a day-snapshot listener over an open DB.
func NewPersistence(db *persistence.DB, engineID string) *Persistence {
	return &Persistence{DB: db, EngineID: engineID}
}

func (p *Persistence) GridUpdated(geo.Grid) {}

func (p *Persistence) CountsUpdated(hour int, counts travel.Counts) {
	if hour%24 != 0 {
		return
	}
	if err := p.DB.SaveStats(p.EngineID, hour, counts); err != nil {
		slog.Error("persistence: save stats failed", "engine", p.EngineID, "hour", hour, "err", err)
	}
}

func (p *Persistence) CitizenGotInfected(hour int, at geo.Point) {}
func (p *Persistence) CitizenStateUpdated(hour int, snapshot citizen.Citizen, at geo.Point) {}
func (p *Persistence) InterventionApplied(hour int, kind InterventionKind, detail string)   {}
func (p *Persistence) OutgoingMigratorsAdded(hour int, perRegion []travel.MigratorsByRegion) {}
func (p *Persistence) SimulationEnded()                                                     {}
