// Package disease holds the immutable disease parameters and the per-agent
// state machine that progresses through them.
package disease

// Disease is an immutable bundle of epidemiological constants. The state
// machine compares ExposedDuration and PreSymptomaticDuration against
// elapsed simulation hours (since exposure and since the Pre substate
// began); the *LastDay and HospitalizeDay* fields are compared against the
// infection-day counter, which is 1 on the first day of infection.
type Disease struct {
	ExposedDuration        int     `toml:"exposed_duration" json:"exposed_duration"`
	PreSymptomaticDuration int     `toml:"pre_symptomatic_duration" json:"pre_symptomatic_duration"`
	LastDay                int     `toml:"last_day" json:"last_day"`
	AsymptomaticLastDay    int     `toml:"asymptomatic_last_day" json:"asymptomatic_last_day"`
	MildLastDay            int     `toml:"mild_last_day" json:"mild_last_day"`
	HospitalizeDayMin      int     `toml:"hospitalize_day_min" json:"hospitalize_day_min"`
	HospitalizeDayMax      int     `toml:"hospitalize_day_max" json:"hospitalize_day_max"`
	PctAsymptomatic        float64 `toml:"pct_asymptomatic" json:"pct_asymptomatic"`
	PctSevere              float64 `toml:"pct_severe" json:"pct_severe"`
	MortalityRate          float64 `toml:"mortality_rate" json:"mortality_rate"`
	PeakTransmissionRate   float64 `toml:"peak_transmission_rate" json:"peak_transmission_rate"`
	PeakHospitalizationPct float64 `toml:"peak_hospitalization_pct" json:"peak_hospitalization_pct"`
}

// exposedOffsetRange bounds the uniform jitter `r` added to ExposedDuration
// before an Exposed agent may progress to Infected (spec §4.1).
const exposedOffsetRange = 3

// ExposedOffsetRange returns the inclusive jitter range applied on top of
// ExposedDuration.
func ExposedOffsetRange() int { return exposedOffsetRange }

// TransmissionRate returns the probability a susceptible neighbor is
// exposed on contact with an infectious agent on the given effective day.
// It rises linearly to PeakTransmissionRate across the pre-symptomatic
// window and saturates to zero outside [0, LastDay].
func (d Disease) TransmissionRate(effectiveDay int) float64 {
	if effectiveDay < 0 || effectiveDay > d.LastDay {
		return 0
	}
	if d.PreSymptomaticDuration <= 0 {
		return d.PeakTransmissionRate
	}
	if effectiveDay >= d.PreSymptomaticDuration {
		return d.PeakTransmissionRate
	}
	return d.PeakTransmissionRate * float64(effectiveDay) / float64(d.PreSymptomaticDuration)
}

// IsToBeHospitalized reports whether a severe case on the given effective
// day should be admitted, per HospitalizeDayMin/Max. The curve saturates to
// false outside its defined range — an agent far outside the window is
// never (re-)hospitalized on account of this query alone.
func (d Disease) IsToBeHospitalized(effectiveDay int) bool {
	if effectiveDay < d.HospitalizeDayMin || effectiveDay > d.HospitalizeDayMax {
		return false
	}
	return true
}
