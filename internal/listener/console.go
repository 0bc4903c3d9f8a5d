package listener

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/geo"
	"github.com/epirust-go/epirust/internal/travel"
)

// Console logs counts once per hour via log/slog, formatting population
// figures with go-humanize the way a human-facing progress line would.
type Console struct {
	EngineID string
}

func (c Console) GridUpdated(geo.Grid) {}

func (c Console) CountsUpdated(hour int, counts travel.Counts) {
	slog.Info("tick",
		"engine", c.EngineID,
		"hour", hour,
		"population", humanize.Comma(int64(counts.Total())),
		"susceptible", humanize.Comma(int64(counts.Susceptible)),
		"exposed", humanize.Comma(int64(counts.Exposed)),
		"infected", humanize.Comma(int64(counts.Infected)),
		"hospitalized", humanize.Comma(int64(counts.Hospitalized)),
		"recovered", humanize.Comma(int64(counts.Recovered)),
		"deceased", humanize.Comma(int64(counts.Deceased)),
	)
}

func (c Console) CitizenGotInfected(hour int, at geo.Point) {}

func (c Console) CitizenStateUpdated(hour int, snapshot citizen.Citizen, at geo.Point) {}

func (c Console) InterventionApplied(hour int, kind InterventionKind, detail string) {
	slog.Info("intervention applied", "engine", c.EngineID, "hour", hour, "kind", kind, "detail", detail)
}

func (c Console) OutgoingMigratorsAdded(hour int, perRegion []travel.MigratorsByRegion) {
	total := 0
	for _, b := range perRegion {
		total += len(b.Migrators)
	}
	if total > 0 {
		slog.Info("migrators dispatched", "engine", c.EngineID, "hour", hour, "count", humanize.Comma(int64(total)))
	}
}

func (c Console) SimulationEnded() {
	slog.Info("simulation ended", "engine", c.EngineID)
}
