package listener

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/geo"
	"github.com/epirust-go/epirust/internal/travel"
)

// JSONLines writes one JSON object per line: every CountsUpdated event
// always, and per-citizen state events only when EnableCitizenState is
// set (spec §6's "flag to enable per-citizen state event messages").
type JSONLines struct {
	w                  io.Writer
	mu                 sync.Mutex
	EnableCitizenState bool
}

// NewJSONLines wraps w for line-delimited JSON event output.
func NewJSONLines(w io.Writer, enableCitizenState bool) *JSONLines {
	return &JSONLines{w: w, EnableCitizenState: enableCitizenState}
}

type line struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"ts"`
	Payload   interface{} `json:"payload"`
}

func (j *JSONLines) write(typ string, payload interface{}) {
	j.mu.Lock()
	defer j.mu.Unlock()
	enc := json.NewEncoder(j.w)
	_ = enc.Encode(line{
		Type:      typ,
		Timestamp: strftime.Format("%Y-%m-%dT%H:%M:%S", time.Now()),
		Payload:   payload,
	})
}

func (j *JSONLines) GridUpdated(g geo.Grid) { j.write("grid_updated", g) }

func (j *JSONLines) CountsUpdated(hour int, counts travel.Counts) {
	j.write("counts_updated", struct {
		Hour   int           `json:"hour"`
		Counts travel.Counts `json:"counts"`
	}{hour, counts})
}

func (j *JSONLines) CitizenGotInfected(hour int, at geo.Point) {
	j.write("citizen_got_infected", struct {
		Hour int       `json:"hour"`
		At   geo.Point `json:"at"`
	}{hour, at})
}

func (j *JSONLines) CitizenStateUpdated(hour int, snapshot citizen.Citizen, at geo.Point) {
	if !j.EnableCitizenState {
		return
	}
	j.write("citizen_state_updated", struct {
		Hour     int             `json:"hour"`
		At       geo.Point       `json:"at"`
		Snapshot citizen.Citizen `json:"snapshot"`
	}{hour, at, snapshot})
}

func (j *JSONLines) InterventionApplied(hour int, kind InterventionKind, detail string) {
	j.write("intervention_applied", struct {
		Hour   int              `json:"hour"`
		Kind   InterventionKind `json:"kind"`
		Detail string           `json:"detail"`
	}{hour, kind, detail})
}

func (j *JSONLines) OutgoingMigratorsAdded(hour int, perRegion []travel.MigratorsByRegion) {
	j.write("outgoing_migrators_added", struct {
		Hour      int                        `json:"hour"`
		PerRegion []travel.MigratorsByRegion `json:"per_region"`
	}{hour, perRegion})
}

func (j *JSONLines) SimulationEnded() {
	j.write("simulation_ended", nil)
}
