package disease

import "testing"

// fixedSource drives every Range call to its midpoint and every Bernoulli
// call to a fixed outcome — mirrors the "deterministic RNG returning the
// median range offset" setup in the concrete test scenarios.
type fixedSource struct {
	bernoulliResult bool
}

func (f fixedSource) Range(lo, hi int) int   { return (lo + hi) / 2 }
func (f fixedSource) Bernoulli(float64) bool { return f.bernoulliResult }

func sampleDisease() Disease {
	return Disease{
		ExposedDuration:        10,
		PreSymptomaticDuration: 20,
		LastDay:                40,
		AsymptomaticLastDay:    9,
		MildLastDay:            12,
		HospitalizeDayMin:      5,
		HospitalizeDayMax:      30,
		PctAsymptomatic:        0.25,
		PctSevere:              0.2,
		MortalityRate:          0.02,
		PeakTransmissionRate:   0.3,
		PeakHospitalizationPct: 1.0,
	}
}

func TestExposeOnlyFromSusceptible(t *testing.T) {
	m := NewSusceptible()
	m.Expose(100)
	if !m.IsExposed() {
		t.Fatalf("expected Exposed after Expose, got %s", m.State())
	}
}

func TestExposeFromNonSusceptiblePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic exposing an already-exposed agent")
		}
	}()
	m := NewSusceptible()
	m.Expose(1)
	m.Expose(2)
}

func TestStateProgressionScenario(t *testing.T) {
	d := sampleDisease()
	src := fixedSource{bernoulliResult: true} // forces symptomatic+severe, then death path if chosen

	m := NewSusceptible()
	m.Expose(100)

	// r = (0+3)/2 = 1, so infect becomes true at hour 100+10+1=111.
	if ok := m.Infect(src, 110, d); ok {
		t.Fatalf("expected infect to remain false before hour 111")
	}
	if ok := m.Infect(src, 140, d); !ok {
		t.Fatalf("expected infect to succeed by hour 140")
	}
	if !m.IsInfected() || m.Severity() != Pre {
		t.Fatalf("expected Infected{Pre}, got state=%s severity=%v", m.State(), m.Severity())
	}

	m.infectionDay = 20 // simulate day-by-day increments having elapsed
	if ok := m.ChangeInfectionSeverity(160, src, d); !ok {
		t.Fatalf("expected severity change to succeed by hour 160")
	}
	if m.Severity() != Severe {
		t.Fatalf("expected Severe severity with forced Bernoulli, got %v", m.Severity())
	}

	m.infectionDay = d.LastDay
	died, recovered := m.Decease(src, d)
	if !died || recovered {
		t.Fatalf("expected forced mortality Bernoulli to kill the agent, got died=%v recovered=%v", died, recovered)
	}
	if !m.IsDeceased() {
		t.Fatalf("expected Deceased, got %s", m.State())
	}
}

func TestChangeInfectionSeverityIllegalFromMild(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic changing severity from a non-Pre substate")
		}
	}()
	d := sampleDisease()
	src := fixedSource{bernoulliResult: false}
	m := NewSusceptible()
	m.Expose(0)
	m.Infect(src, 100, d)
	m.symptomatic = false
	m.severity = Mild
	m.ChangeInfectionSeverity(100, src, d)
}

func TestHospitalizeSaturatesOutsideCurve(t *testing.T) {
	d := sampleDisease()
	m := StateMachine{state: Infected, symptomatic: true, severity: Severe, infectionDay: 1}
	if m.Hospitalize(d, 100) {
		t.Fatalf("expected hospitalization curve to saturate to false far outside its range")
	}
}

func TestIsSymptomaticExcludesPre(t *testing.T) {
	pre := StateMachine{state: Infected, symptomatic: true, severity: Pre}
	if pre.IsSymptomatic() {
		t.Fatalf("expected pre-symptomatic substate to not count as IsSymptomatic")
	}
	if !pre.Symptomatic() {
		t.Fatalf("expected the raw Symptomatic flag to stay true through Pre")
	}

	mild := StateMachine{state: Infected, symptomatic: true, severity: Mild}
	if !mild.IsSymptomatic() {
		t.Fatalf("expected symptomatic Mild to count as IsSymptomatic")
	}

	asymptomatic := StateMachine{state: Infected, symptomatic: false, severity: Mild}
	if asymptomatic.IsSymptomatic() {
		t.Fatalf("expected asymptomatic infection to not count as IsSymptomatic")
	}
}

func TestIncrementInfectionDayOnlyWhileInfected(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic incrementing infection day on a Susceptible agent")
		}
	}()
	m := NewSusceptible()
	m.IncrementInfectionDay()
}
