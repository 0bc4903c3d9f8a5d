// Command region runs one simulated grid region: standalone, or as a
// peer in a multi-region federation synchronized over the bus (spec
// §4.5). It is the boundary adapter that wires config, population
// ingestion, the hourly simulator, interventions, and listeners into a
// runnable process.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/epirust-go/epirust/internal/citizen"
	"github.com/epirust-go/epirust/internal/config"
	"github.com/epirust-go/epirust/internal/geo"
	"github.com/epirust-go/epirust/internal/intervention"
	"github.com/epirust-go/epirust/internal/listener"
	"github.com/epirust-go/epirust/internal/locationmap"
	"github.com/epirust-go/epirust/internal/persistence"
	"github.com/epirust-go/epirust/internal/population"
	"github.com/epirust-go/epirust/internal/rng"
	"github.com/epirust-go/epirust/internal/simulation"
	"github.com/epirust-go/epirust/internal/transport"
	"github.com/epirust-go/epirust/internal/travel"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	standalone := flag.Bool("standalone", true, "run a single region with no peer coordination")
	dbPath := flag.String("db", "", "sqlite path for run-history persistence; empty disables it")
	seed := flag.Int64("seed", time.Now().UnixNano(), "PRNG seed for this region")
	flag.Parse()

	setupLogging()

	if *configPath == "" {
		slog.Error("--config is required")
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}

	fanOut, db := buildListeners(cfg, *dbPath)
	if db != nil {
		defer db.Close()
	}

	rg := rng.New(*seed)
	m, err := buildRegion(cfg, rg)
	if err != nil {
		slog.Error("region setup error", "err", err)
		os.Exit(1)
	}
	fanOut.GridUpdated(m.Grid)
	slog.Info("region ready", "engine_id", cfg.EngineID, "population", m.Count())

	terminate := make(chan os.Signal, 1)
	signal.Notify(terminate, syscall.SIGINT, syscall.SIGTERM)

	if *standalone {
		runStandalone(cfg, m, rg, fanOut, terminate)
	} else {
		runFederated(cfg, m, rg, fanOut, terminate)
	}
	fanOut.SimulationEnded()
	slog.Info("region stopped", "engine_id", cfg.EngineID)
}

func setupLogging() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func buildListeners(cfg *config.Config, dbPath string) (*listener.FanOut, *persistence.DB) {
	fanOut := listener.NewFanOut(listener.Console{EngineID: cfg.EngineID})

	prefix := cfg.OutputFilePrefix
	if prefix == "" {
		prefix = "epirust-" + cfg.EngineID
	}
	outFile, err := os.Create(prefix + ".jsonl")
	if err != nil {
		slog.Warn("could not open output file, JSON-lines events disabled", "err", err)
	} else {
		fanOut.Register(listener.NewJSONLines(outFile, cfg.EnableCitizenStateEvents))
	}

	var db *persistence.DB
	if dbPath != "" {
		db, err = persistence.Open(dbPath)
		if err != nil {
			slog.Warn("could not open persistence db, history will not be recorded", "err", err)
			db = nil
		} else {
			if err := db.RegisterRun(cfg.EngineID, cfg.EngineID, cfg.GridSize, time.Now().UTC().Format(time.RFC3339)); err != nil {
				slog.Warn("could not register run", "err", err)
			}
			fanOut.Register(listener.NewPersistence(db, cfg.EngineID))
		}
	}
	return fanOut, db
}

// buildRegion loads or generates the population, partitions the grid, and
// places every citizen, returning a ready-to-simulate Map.
func buildRegion(cfg *config.Config, rg *rng.Region) (*locationmap.Map, error) {
	var records []population.Record
	var err error
	if cfg.Population.CSVPath != "" {
		records, err = population.FromCSV(cfg.Population.CSVPath)
		if err != nil {
			return nil, err
		}
	} else {
		records = population.AutoGenerate(cfg.Population.Count,
			cfg.Population.WorkingPercentage, cfg.Population.PublicTransportPercentage, rg)
	}

	grid := geo.Generate(cfg.EngineID, cfg.GridSize, cfg.HospitalBedsPercentage, len(records))

	startingInfections := population.StartingInfections{
		Exposed:   cfg.StartingInfections.Exposed,
		MildAsymp: cfg.StartingInfections.MildAsymp,
		MildSymp:  cfg.StartingInfections.MildSymp,
		Severe:    cfg.StartingInfections.Severe,
	}
	const immunityMax = 5
	citizens := population.Seed(records, grid, cfg.EngineID, immunityMax, startingInfections, rg, int64(len(records)))

	m := locationmap.New(grid)
	for _, c := range citizens {
		m.Place(c.Home, c)
	}
	return m, nil
}

// runStandalone drives the hourly loop locally with no bus coordination,
// applying configured interventions and stopping early once no citizen
// remains in an infectious state (spec §4.2's termination condition).
func runStandalone(cfg *config.Config, m *locationmap.Map, rg *rng.Region, fanOut *listener.FanOut, terminate <-chan os.Signal) {
	pct := 0.0
	var planner *travel.Planner
	if len(cfg.TravelPlan.Regions) > 0 {
		planner = travel.NewPlanner(cfg.TravelPlan, cfg.EngineID)
	}

	for hr := 0; hr < cfg.HoursToSimulate; hr++ {
		select {
		case <-terminate:
			slog.Info("received shutdown signal, stopping early", "hour", hr)
			return
		default:
		}

		applyScheduledInterventions(cfg, m, rg, fanOut, hr)

		if planner != nil {
			pct = planner.PercentOutgoing(m.Count())
		}
		counts, out := simulation.Simulate(m, hr, cfg.Disease, pct, rg, fanOut)
		if len(out.Migrators) > 0 {
			for _, om := range out.Migrators {
				m.Remove(om.Point)
			}
		}

		if hr > 0 && counts.Exposed == 0 && counts.Infected == 0 && counts.Hospitalized == 0 {
			slog.Info("no active cases remain, stopping early", "hour", hr)
			return
		}
	}
}

// runFederated drives the hourly loop synchronized against peer regions
// over the bus, following spec §4.5's five-step driver loop: await tick,
// simulate, exchange migrators, exchange commuters, publish ack.
func runFederated(cfg *config.Config, m *locationmap.Map, rg *rng.Region, fanOut *listener.FanOut, terminate <-chan os.Signal) {
	bus, err := transport.Connect(cfg.NATSUrl, cfg.EngineID)
	if err != nil {
		slog.Error("could not connect to bus", "err", err)
		os.Exit(1)
	}
	defer bus.Close()

	planner := travel.NewPlanner(cfg.TravelPlan, cfg.EngineID)
	var commutePlanner *travel.Planner
	if len(cfg.CommutePlan.Regions) > 0 {
		commutePlanner = travel.NewPlanner(cfg.CommutePlan, cfg.EngineID)
	}

	for hr := 0; hr < cfg.HoursToSimulate; hr++ {
		select {
		case <-terminate:
			slog.Info("received shutdown signal, stopping early", "hour", hr)
			return
		default:
		}

		tick := bus.AwaitTick(hr)
		if tick.Terminate {
			return
		}

		applyScheduledInterventions(cfg, m, rg, fanOut, hr)

		pct := planner.PercentOutgoing(m.Count())
		_, out := simulation.Simulate(m, hr, cfg.Disease, pct, rg, fanOut)

		perRegion := bucketMigratorsByRegion(planner, out)
		if len(out.Migrators) > 0 {
			fanOut.OutgoingMigratorsAdded(hr, perRegion)
			for _, om := range out.Migrators {
				m.Remove(om.Point)
			}
		}
		if err := bus.PublishMigrants(perRegion); err != nil {
			slog.Error("publish migrants failed", "err", err)
			os.Exit(1)
		}
		incoming := bus.AwaitMigrants(planner.IncomingRegionsCount())
		if len(incoming) > 0 {
			m.AssimilateMigrants(incoming, rg)
		}

		hourOfDay := ((hr % 24) + 24) % 24
		if commutePlanner != nil && (hourOfDay == citizen.RoutineTravelStart || hourOfDay == citizen.RoutineTravelEnd) {
			atStart := hourOfDay == citizen.RoutineTravelStart
			buckets := fillCommuterBuckets(commutePlanner, travel.BucketCommutersByRegion(out.Commuters, atStart))
			if err := bus.PublishCommuters(buckets); err != nil {
				slog.Error("publish commuters failed", "err", err)
				os.Exit(1)
			}
			for _, oc := range out.Commuters {
				if p, ok := m.PointOf(oc.ID); ok {
					m.Remove(p)
				}
			}
			incomingCommuters := bus.AwaitCommuters(commutePlanner.IncomingRegionsCount())
			if len(incomingCommuters) > 0 {
				m.AssimilateCommuters(incomingCommuters, rg, atStart)
			}
		}

		counts := simulation.Tally(m)
		ack := travel.TickAck{EngineID: cfg.EngineID, Hour: hr, Counts: counts}
		if err := bus.PublishAck(ack); err != nil {
			slog.Error("publish ack failed", "err", err)
			os.Exit(1)
		}
	}
}

// bucketMigratorsByRegion allocates this hour's outgoing migrators across
// every peer region this region's travel-plan row sends to (a positive
// matrix entry), including regions that receive none this hour — the bus
// expects one message per destination so a receiver can count arrivals
// against its own incoming-region count (spec §4.5 step 3).
func bucketMigratorsByRegion(planner *travel.Planner, out simulation.Outgoing) []travel.MigratorsByRegion {
	counts := make(map[string]int)
	allocations, _ := planner.AllocOutgoingToRegions(len(out.Migrators))
	for _, alloc := range allocations {
		counts[alloc.Region] = alloc.Count
	}

	buckets := make([]travel.MigratorsByRegion, 0, len(planner.Plan.Regions))
	cursor := 0
	selfIdx := slices.Index(planner.Plan.Regions, planner.RegionName)
	for j, region := range planner.Plan.Regions {
		if j == selfIdx || planner.Plan.Matrix[selfIdx][j] <= 0 {
			continue
		}
		n := counts[region]
		end := cursor + n
		if end > len(out.Migrators) {
			end = len(out.Migrators)
		}
		migrators := make([]travel.Migrator, 0, end-cursor)
		for _, om := range out.Migrators[cursor:end] {
			migrators = append(migrators, om.Migrator)
		}
		buckets = append(buckets, travel.MigratorsByRegion{ToRegion: region, Migrators: migrators})
		cursor = end
	}
	return buckets
}

// fillCommuterBuckets pads the computed commuter buckets with an empty
// bucket for every destination region that has no commuters leaving this
// hour, for the same reason bucketMigratorsByRegion does.
func fillCommuterBuckets(planner *travel.Planner, computed []travel.CommutersByRegion) []travel.CommutersByRegion {
	byRegion := make(map[string][]travel.Commuter, len(computed))
	for _, b := range computed {
		byRegion[b.ToRegion] = b.Commuters
	}
	out := make([]travel.CommutersByRegion, 0, len(planner.Plan.Regions))
	for _, region := range planner.Plan.Regions {
		if region == planner.RegionName {
			continue
		}
		out = append(out, travel.CommutersByRegion{ToRegion: region, Commuters: byRegion[region]})
	}
	return out
}

func applyScheduledInterventions(cfg *config.Config, m *locationmap.Map, rg *rng.Region, fanOut *listener.FanOut, hr int) {
	for _, ic := range cfg.Interventions {
		if ic.AtHour != hr {
			continue
		}
		switch ic.Kind {
		case "vaccination":
			intervention.Vaccinate(m, ic.Percent, rg, fanOut, hr)
		case "lockdown":
			intervention.Lockdown(m, ic.EssentialWorkerPercent, rg, fanOut, hr)
		case "unlock":
			intervention.Unlock(m, fanOut, hr)
		case "hospital_resize":
			intervention.ResizeHospital(&m.Grid, m.Count(), ic.Percent, fanOut, hr)
		default:
			slog.Warn("unknown intervention kind in config", "kind", ic.Kind, "hour", hr)
		}
	}
}
