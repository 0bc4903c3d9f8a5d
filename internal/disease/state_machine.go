package disease

import (
	"encoding/json"
	"fmt"
)

// Source is the randomness surface the state machine needs. Satisfied by
// *rng.Region.
type Source interface {
	Range(lo, hi int) int
	Bernoulli(p float64) bool
}

// State names the coarse disease state. Severity and symptom flags refine
// the Infected state further; see StateMachine.
type State uint8

const (
	Susceptible State = iota
	Exposed
	Infected
	Recovered
	Deceased
)

// Severity refines Infected. It is meaningless outside that state.
type Severity uint8

const (
	NoSeverity Severity = iota
	Pre
	Mild
	Severe
)

func (s State) String() string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Exposed:
		return "exposed"
	case Infected:
		return "infected"
	case Recovered:
		return "recovered"
	case Deceased:
		return "deceased"
	default:
		return "unknown"
	}
}

// StateMachine is a tagged value over the disease states. Transition
// methods are total on their legal predecessor and panic on an illegal
// one — these are programmer-error invariant violations, not operational
// conditions (spec §7).
type StateMachine struct {
	state        State
	symptomatic  bool
	severity     Severity
	exposedAt    int
	preAt        int
	infectionDay int
}

// NewSusceptible returns a freshly constructed machine in Susceptible.
func NewSusceptible() StateMachine {
	return StateMachine{state: Susceptible}
}

// NewInfected directly constructs a machine already in Infected with the
// given symptom/severity combination and infection day. This bypasses the
// normal Expose->Infect sequence; its only legitimate caller is initial
// population seeding (spec §6's starting_infections), which must place
// agents mid-course without replaying hours of simulated history.
func NewInfected(symptomatic bool, severity Severity, infectionDay int) StateMachine {
	return StateMachine{
		state:        Infected,
		symptomatic:  symptomatic,
		severity:     severity,
		infectionDay: infectionDay,
	}
}

func (m StateMachine) State() State         { return m.state }
func (m StateMachine) Severity() Severity   { return m.severity }
func (m StateMachine) Symptomatic() bool    { return m.symptomatic }
func (m StateMachine) InfectionDay() int    { return m.infectionDay }
func (m StateMachine) IsSusceptible() bool  { return m.state == Susceptible }
func (m StateMachine) IsExposed() bool      { return m.state == Exposed }
func (m StateMachine) IsInfected() bool     { return m.state == Infected }
func (m StateMachine) IsRecovered() bool    { return m.state == Recovered }
func (m StateMachine) IsDeceased() bool     { return m.state == Deceased }

// IsSymptomatic reports whether this agent is currently showing symptoms —
// true for Mild/Severe, false for Pre (pre-symptomatic agents carry the
// symptomatic flag but haven't presented yet) and every non-Infected state.
// This is distinct from Symptomatic(), which only reports the raw flag set
// at Infect time and stays true through Pre.
func (m StateMachine) IsSymptomatic() bool {
	return m.state == Infected && m.symptomatic && m.severity != Pre
}

// IsInfectiousSource reports whether this agent can transmit, i.e. is
// Infected in any substate. The state machine does not know about hospital
// beds; callers choosing an exposure source also check the citizen's
// Hospitalized flag (spec §4.1/§4.2).
func (m StateMachine) IsInfectiousSource() bool {
	return m.state == Infected
}

func illegalTransition(op string, m StateMachine) {
	panic(fmt.Sprintf("disease: illegal %s from state=%s severity=%s symptomatic=%v",
		op, m.state, severityName(m.severity), m.symptomatic))
}

func severityName(s Severity) string {
	switch s {
	case Pre:
		return "pre"
	case Mild:
		return "mild"
	case Severe:
		return "severe"
	default:
		return "none"
	}
}

// Expose transitions Susceptible -> Exposed{at_hour}. Legal only from
// Susceptible.
func (m *StateMachine) Expose(hour int) {
	if m.state != Susceptible {
		illegalTransition("expose", *m)
	}
	m.state = Exposed
	m.exposedAt = hour
	m.infectionDay = 0
}

// Infect attempts the Exposed -> Infected transition. It is a no-op (and
// returns false) until simHr - exposedAt >= ExposedDuration + r, where r is
// drawn uniformly from [0, ExposedOffsetRange]. Legal only from Exposed.
func (m *StateMachine) Infect(g Source, simHr int, d Disease) bool {
	if m.state != Exposed {
		illegalTransition("infect", *m)
	}
	r := g.Range(0, exposedOffsetRange)
	if simHr-m.exposedAt < d.ExposedDuration+r {
		return false
	}
	m.state = Infected
	// Starts at 1 rather than original_source's 0-after-infect (which only
	// advances via IncrementInfectionDay at the next routine start). Kept
	// this way because NewInfected's seeding path already takes an explicit
	// starting infection day on the same 1-based scale; the two paths would
	// disagree by one otherwise. Introduces a one-day offset against
	// original_source's last_day/effective-day lookups.
	m.infectionDay = 1
	if g.Bernoulli(1 - d.PctAsymptomatic) {
		m.symptomatic = true
		m.severity = Pre
		m.preAt = simHr
	} else {
		m.symptomatic = false
		m.severity = Mild
	}
	return true
}

// ChangeInfectionSeverity advances Infected{symptomatic, Pre} to Mild or
// Severe once PreSymptomaticDuration has elapsed. Legal only from that
// exact substate.
func (m *StateMachine) ChangeInfectionSeverity(hour int, g Source, d Disease) bool {
	if m.state != Infected || !m.symptomatic || m.severity != Pre {
		illegalTransition("change_infection_severity", *m)
	}
	if hour-m.preAt < d.PreSymptomaticDuration {
		return false
	}
	if g.Bernoulli(d.PctSevere) {
		m.severity = Severe
	} else {
		m.severity = Mild
	}
	return true
}

// Hospitalize is a query, not a mutation: it reports whether a severe case
// should be admitted on its current effective day. Legal only from
// Infected; returns false unless the case is symptomatic and Severe.
func (m StateMachine) Hospitalize(d Disease, immunity int) bool {
	if m.state != Infected {
		illegalTransition("hospitalize", m)
	}
	if !(m.symptomatic && m.severity == Severe) {
		return false
	}
	return d.IsToBeHospitalized(m.infectionDay + immunity)
}

// Decease resolves a terminal Infected substate to Deceased or Recovered.
// Legal only from Infected; which day counts as terminal depends on
// severity/symptom combination per spec §4.1. Returns (died, recovered).
func (m *StateMachine) Decease(g Source, d Disease) (died, recovered bool) {
	if m.state != Infected {
		illegalTransition("decease", *m)
	}
	switch {
	case m.symptomatic && m.severity == Severe:
		if m.infectionDay != d.LastDay {
			return false, false
		}
		if g.Bernoulli(d.MortalityRate) {
			m.state = Deceased
			return true, false
		}
		m.state = Recovered
		return false, true
	case m.symptomatic && m.severity == Mild:
		if m.infectionDay != d.MildLastDay {
			return false, false
		}
		m.state = Recovered
		return false, true
	case !m.symptomatic:
		if m.infectionDay != d.AsymptomaticLastDay {
			return false, false
		}
		m.state = Recovered
		return false, true
	default:
		return false, false
	}
}

// IncrementInfectionDay advances the infection-day counter. Called once per
// simulated day, only while Infected.
func (m *StateMachine) IncrementInfectionDay() {
	if m.state != Infected {
		illegalTransition("increment_infection_day", *m)
	}
	m.infectionDay++
}

// wireStateMachine is the exported mirror used for JSON round-tripping.
// StateMachine's fields stay unexported so every mutation goes through its
// transition methods; this is the one place that punches through that for
// serialization across the wire (spec §8 round-trip law).
type wireStateMachine struct {
	State        State    `json:"state"`
	Symptomatic  bool     `json:"symptomatic"`
	Severity     Severity `json:"severity"`
	ExposedAt    int      `json:"exposed_at"`
	PreAt        int      `json:"pre_at"`
	InfectionDay int      `json:"infection_day"`
}

// MarshalJSON implements json.Marshaler.
func (m StateMachine) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireStateMachine{
		State:        m.state,
		Symptomatic:  m.symptomatic,
		Severity:     m.severity,
		ExposedAt:    m.exposedAt,
		PreAt:        m.preAt,
		InfectionDay: m.infectionDay,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *StateMachine) UnmarshalJSON(data []byte) error {
	var w wireStateMachine
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.state = w.State
	m.symptomatic = w.Symptomatic
	m.severity = w.Severity
	m.exposedAt = w.ExposedAt
	m.preAt = w.PreAt
	m.infectionDay = w.InfectionDay
	return nil
}
