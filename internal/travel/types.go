// Package travel translates region-level travel matrices into per-hour
// outgoing migrator/commuter assignments, and defines the wire shapes
// exchanged between regions (spec §3, §4.4, §4.5).
package travel

import (
	"github.com/google/uuid"

	"github.com/epirust-go/epirust/internal/disease"
)

// Migrator is a serializable snapshot of a citizen moving permanently to
// another region. It carries no home/work/transport geometry — the
// receiver reassigns these from its own grid.
type Migrator struct {
	ID                  uuid.UUID            `json:"id"`
	Immunity            int                  `json:"immunity"`
	Vaccinated          bool                 `json:"vaccinated"`
	UsesPublicTransport bool                 `json:"uses_public_transport"`
	Disease             disease.StateMachine `json:"disease"`
}

// Commuter is like Migrator but additionally carries the citizen's home
// and work region, since commuters return each day.
type Commuter struct {
	Migrator
	HomeRegion string `json:"home_region"`
	WorkRegion string `json:"work_region"`
}

// Tick is the coordinator's per-hour broadcast.
type Tick struct {
	Hour      int  `json:"hour"`
	Terminate bool `json:"terminate"`
}

// TickAck is a region's acknowledgment of having completed an hour.
type TickAck struct {
	EngineID   string `json:"engine_id"`
	Hour       int    `json:"hour"`
	Counts     Counts `json:"counts"`
	LockedDown bool   `json:"locked_down"`
}

// Counts is the aggregate disease-state tally at a given hour (spec §3).
type Counts struct {
	Susceptible  int `json:"susceptible"`
	Exposed      int `json:"exposed"`
	Infected     int `json:"infected"`
	Hospitalized int `json:"hospitalized"`
	Recovered    int `json:"recovered"`
	Deceased     int `json:"deceased"`
}

// Total returns the living+deceased population this hour.
func (c Counts) Total() int {
	return c.Susceptible + c.Exposed + c.Infected + c.Hospitalized + c.Recovered + c.Deceased
}

// MigratorsByRegion is one destination bucket of a migration broadcast.
// The departure point named in spec §4.3's (Point, Migrator) pairing is
// local-only bookkeeping for removal from the sender's map; it carries no
// meaning to the receiver, which picks its own vacant cell, so it is not
// part of the wire shape.
type MigratorsByRegion struct {
	ToRegion  string     `json:"to_region"`
	Migrators []Migrator `json:"migrators"`
}

// CommutersByRegion is one destination bucket of a commute broadcast.
type CommutersByRegion struct {
	ToRegion  string     `json:"to_region"`
	Commuters []Commuter `json:"commuters"`
}
