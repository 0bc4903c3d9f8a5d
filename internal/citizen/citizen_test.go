package citizen

import (
	"testing"

	"github.com/epirust-go/epirust/internal/disease"
)

func infectedWith(symptomatic bool, severity disease.Severity) disease.StateMachine {
	m := disease.NewInfected(symptomatic, severity, 1)
	return m
}

func TestCanMovePreSymptomaticTravelsToWork(t *testing.T) {
	c := Citizen{Disease: infectedWith(true, disease.Pre)}
	if !c.CanMove(false) {
		t.Fatalf("expected a pre-symptomatic agent to be free to move off-home")
	}
}

func TestCanMoveSymptomaticConfinedHome(t *testing.T) {
	c := Citizen{Disease: infectedWith(true, disease.Mild)}
	if c.CanMove(false) {
		t.Fatalf("expected a symptomatic agent to be confined once symptoms present")
	}
	if !c.CanMove(true) {
		t.Fatalf("expected a symptomatic agent to still be allowed to head home")
	}
}

func TestCanMoveAsymptomaticUnrestricted(t *testing.T) {
	c := Citizen{Disease: infectedWith(false, disease.Mild)}
	if !c.CanMove(false) {
		t.Fatalf("expected an asymptomatic infection to not restrict movement")
	}
}

func TestCanMoveHospitalizedAlwaysFalse(t *testing.T) {
	c := Citizen{Hospitalized: true}
	if c.CanMove(true) {
		t.Fatalf("expected a hospitalized agent to never move")
	}
}

func TestCanMoveIsolatedHospitalStaffExempt(t *testing.T) {
	c := Citizen{Isolated: true, Status: WorkStatus{Kind: HospitalStaff, WorkStartAt: RoutineWorkTime}}
	if !c.CanMove(false) {
		t.Fatalf("expected isolation to not confine hospital staff")
	}
}

func TestCanMoveIsolatedNonStaffConfined(t *testing.T) {
	c := Citizen{Isolated: true}
	if c.CanMove(false) {
		t.Fatalf("expected isolation to confine a non-staff agent")
	}
}
