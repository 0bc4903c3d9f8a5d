package travel

import "github.com/epirust-go/epirust/internal/citizen"

// BucketCommutersByRegion groups commuters leaving this tick by their
// destination region. At travel-start hour the destination is each
// commuter's work region; at travel-end hour it is their home region
// (spec §4.4).
func BucketCommutersByRegion(commuters []Commuter, atTravelStart bool) []CommutersByRegion {
	buckets := make(map[string][]Commuter)
	for _, c := range commuters {
		dest := c.HomeRegion
		if atTravelStart {
			dest = c.WorkRegion
		}
		buckets[dest] = append(buckets[dest], c)
	}
	out := make([]CommutersByRegion, 0, len(buckets))
	for region, cs := range buckets {
		out = append(out, CommutersByRegion{ToRegion: region, Commuters: cs})
	}
	return out
}

// ToWireCommuter converts a citizen.Citizen into its wire Commuter form.
func ToWireCommuter(c *citizen.Citizen) Commuter {
	return Commuter{
		Migrator: Migrator{
			ID:                  c.ID,
			Immunity:            c.Immunity,
			Vaccinated:          c.Vaccinated,
			UsesPublicTransport: c.UsesPublicTransport,
			Disease:             c.Disease,
		},
		HomeRegion: c.HomeRegion,
		WorkRegion: c.WorkRegion,
	}
}

// ToWireMigrator converts a citizen.Citizen into its wire Migrator form.
func ToWireMigrator(c *citizen.Citizen) Migrator {
	return Migrator{
		ID:                  c.ID,
		Immunity:            c.Immunity,
		Vaccinated:          c.Vaccinated,
		UsesPublicTransport: c.UsesPublicTransport,
		Disease:             c.Disease,
	}
}
