// Package config loads and validates the region's run configuration.
// Grounded on kentwait-contagion's TOML-struct-tag convention: plain
// struct tags plus a single Validate() error entry point, no separate
// schema layer.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/epirust-go/epirust/internal/disease"
	"github.com/epirust-go/epirust/internal/travel"
)

// StartingInfections names the initial case mix (spec §6).
type StartingInfections struct {
	Exposed   int `toml:"exposed" json:"exposed"`
	MildAsymp int `toml:"mild_asymp" json:"mild_asymp"`
	MildSymp  int `toml:"mild_symp" json:"mild_symp"`
	Severe    int `toml:"severe" json:"severe"`
}

// Total returns the sum of all starting-infection buckets.
func (s StartingInfections) Total() int {
	return s.Exposed + s.MildAsymp + s.MildSymp + s.Severe
}

// PopulationSpec selects auto-generation or CSV ingestion — exactly one
// of CSVPath or Count must be set.
type PopulationSpec struct {
	CSVPath                   string  `toml:"csv_path" json:"csv_path,omitempty"`
	Count                     int     `toml:"count" json:"count,omitempty"`
	PublicTransportPercentage float64 `toml:"public_transport_percentage" json:"public_transport_percentage"`
	WorkingPercentage         float64 `toml:"working_percentage" json:"working_percentage"`
}

// InterventionConfig schedules one intervention trigger.
type InterventionConfig struct {
	Kind                   string  `toml:"kind" json:"kind"` // "vaccination" | "lockdown" | "unlock" | "hospital_resize"
	AtHour                 int     `toml:"at_hour" json:"at_hour"`
	Percent                float64 `toml:"percent" json:"percent"`
	LockdownThreshold      float64 `toml:"lockdown_threshold" json:"lockdown_threshold,omitempty"`
	EssentialWorkerPercent float64 `toml:"essential_worker_percent" json:"essential_worker_percent,omitempty"`
}

// Config is the top-level run configuration consumed at startup (spec §6).
type Config struct {
	EngineID                 string                `toml:"engine_id" json:"engine_id"`
	Regions                  []string              `toml:"regions" json:"regions"`
	GridSize                 int                    `toml:"grid_size" json:"grid_size"`
	HospitalBedsPercentage   float64               `toml:"hospital_beds_percentage" json:"hospital_beds_percentage"`
	Population               PopulationSpec        `toml:"population" json:"population"`
	StartingInfections       StartingInfections    `toml:"starting_infections" json:"starting_infections"`
	Disease                  disease.Disease       `toml:"disease" json:"disease"`
	HoursToSimulate          int                   `toml:"hours_to_simulate" json:"hours_to_simulate"`
	Interventions            []InterventionConfig  `toml:"interventions" json:"interventions"`
	TravelPlan               travel.Plan           `toml:"travel_plan" json:"travel_plan"`
	CommutePlan              travel.Plan           `toml:"commute_plan" json:"commute_plan"`
	EnableCitizenStateEvents bool                  `toml:"enable_citizen_state_events" json:"enable_citizen_state_events"`
	OutputFilePrefix         string                `toml:"output_file_prefix" json:"output_file_prefix"`
	NATSUrl                  string                `toml:"nats_url" json:"nats_url"`
}

// Load reads and parses a TOML config file at path. It does not validate —
// call Validate explicitly so the caller controls when a Configuration
// error (spec §7) surfaces.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the structural invariants a Config must satisfy before
// a region can be constructed from it. Any violation is a Configuration
// error (spec §7): the caller should print it and exit nonzero.
func (c *Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("config: grid_size must be positive, got %d", c.GridSize)
	}
	if c.HospitalBedsPercentage < 0 || c.HospitalBedsPercentage > 1 {
		return fmt.Errorf("config: hospital_beds_percentage must be in [0,1], got %f", c.HospitalBedsPercentage)
	}
	hasCSV := c.Population.CSVPath != ""
	hasAuto := c.Population.Count > 0
	if hasCSV == hasAuto {
		return fmt.Errorf("config: population must set exactly one of csv_path or count")
	}
	popSize := c.Population.Count
	if c.StartingInfections.Total() > popSize && hasAuto {
		return fmt.Errorf("config: starting infections (%d) exceed population (%d)", c.StartingInfections.Total(), popSize)
	}
	if c.Disease.PctAsymptomatic < 0 || c.Disease.PctAsymptomatic > 1 {
		return fmt.Errorf("config: disease.pct_asymptomatic must be in [0,1]")
	}
	if c.Disease.PctSevere < 0 || c.Disease.PctSevere > 1 {
		return fmt.Errorf("config: disease.pct_severe must be in [0,1]")
	}
	if c.Disease.MortalityRate < 0 || c.Disease.MortalityRate > 1 {
		return fmt.Errorf("config: disease.mortality_rate must be in [0,1]")
	}
	if err := validateMatrix(c.TravelPlan, len(c.Regions)); err != nil {
		return fmt.Errorf("config: travel_plan: %w", err)
	}
	if len(c.CommutePlan.Matrix) > 0 {
		if err := validateMatrix(c.CommutePlan, len(c.Regions)); err != nil {
			return fmt.Errorf("config: commute_plan: %w", err)
		}
	}
	return nil
}

func validateMatrix(p travel.Plan, n int) error {
	if n == 0 {
		return nil
	}
	if len(p.Regions) != n {
		return fmt.Errorf("region count mismatch: %d regions named, %d in plan", n, len(p.Regions))
	}
	if len(p.Matrix) != n {
		return fmt.Errorf("matrix has %d rows, want %d", len(p.Matrix), n)
	}
	for i, row := range p.Matrix {
		if len(row) != n {
			return fmt.Errorf("matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	return nil
}
