// Package citizen models one simulated person: identity, location,
// work/transport attributes, and the hour-of-day routine that drives
// movement and the disease state machine forward.
package citizen

import (
	"github.com/google/uuid"

	"github.com/epirust-go/epirust/internal/disease"
	"github.com/epirust-go/epirust/internal/geo"
)

// WorkStatusKind tags the variant of WorkStatus.
type WorkStatusKind uint8

const (
	Normal WorkStatusKind = iota
	Essential
	HospitalStaff
	NotApplicable
)

// WorkStatus mirrors the source's enum
// Normal | Essential | HospitalStaff{work_start_at} | NotApplicable.
// WorkStartAt is meaningful only when Kind == HospitalStaff.
type WorkStatus struct {
	Kind        WorkStatusKind `json:"kind"`
	WorkStartAt int            `json:"work_start_at,omitempty"`
}

// Citizen is one simulated person.
type Citizen struct {
	ID       uuid.UUID `json:"id"`
	Immunity int       `json:"immunity"`

	HomeRegion string `json:"home_region"`
	WorkRegion string `json:"work_region"`

	Home      geo.Point `json:"home"`
	Work      geo.Point `json:"work"`
	Transport geo.Point `json:"transport"`
	Current   geo.Point `json:"current"`

	UsesPublicTransport bool `json:"uses_public_transport"`
	Working             bool `json:"working"`
	Hospitalized        bool `json:"hospitalized"`
	Isolated            bool `json:"isolated"`
	Vaccinated          bool `json:"vaccinated"`
	WorkQuarantined     bool `json:"work_quarantined"`

	Status WorkStatus `json:"status"`

	Disease disease.StateMachine `json:"disease"`

	// lastShiftStartHour tracks the hospital-staff quarantine cycle
	// (spec §4.2); zero until the citizen's first shift.
	lastShiftStartHour int
}

// IsCommuter reports whether this citizen's work lies in a different
// region than its home — such citizens travel twice daily across the bus.
func (c Citizen) IsCommuter() bool {
	return c.WorkRegion != "" && c.WorkRegion != c.HomeRegion
}

// CanMove reports whether the citizen is permitted to change cells this
// hour, per spec §4.2: agents that are symptomatic, hospitalized,
// deceased, or isolated (hospital staff excepted) cannot move, except that
// a symptomatic agent may move when its routine target this hour is home.
// That exception does not check whether the agent is working or where it
// currently is.
func (c Citizen) CanMove(targetIsHome bool) bool {
	if c.Disease.IsDeceased() {
		return false
	}
	if c.Hospitalized {
		return false
	}
	if c.Isolated && c.Status.Kind != HospitalStaff {
		return false
	}
	if c.Disease.IsSymptomatic() {
		return targetIsHome
	}
	return true
}
