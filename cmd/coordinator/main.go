// Command coordinator broadcasts the hourly tick to every configured
// peer region and waits for each to acknowledge before advancing,
// giving the federation a single, simple source of "current hour"
// instead of requiring regions to self-synchronize (spec §4.5).
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/epirust-go/epirust/internal/transport"
	"github.com/epirust-go/epirust/internal/travel"
)

func main() {
	natsURL := flag.String("nats-url", "nats://127.0.0.1:4222", "bus connection URL")
	regionsFlag := flag.String("regions", "", "comma-separated list of region engine ids to await acks from")
	hours := flag.Int("hours", 0, "number of hours to drive; 0 runs until terminated")
	flag.Parse()

	setupLogging()

	regions := strings.Split(*regionsFlag, ",")
	if len(regions) == 0 || regions[0] == "" {
		slog.Error("--regions is required")
		os.Exit(1)
	}

	bus, err := transport.Connect(*natsURL, "coordinator")
	if err != nil {
		slog.Error("could not connect to bus", "err", err)
		os.Exit(1)
	}
	defer bus.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	hr := 0
	for *hours == 0 || hr < *hours {
		select {
		case <-sigCh:
			slog.Info("received shutdown signal, broadcasting terminate tick", "hour", hr)
			publishTerminate(bus, hr)
			return
		default:
		}

		if err := bus.PublishTick(travel.Tick{Hour: hr}); err != nil {
			slog.Error("publish tick failed", "hour", hr, "err", err)
			return
		}

		acks := awaitAllAcks(bus, regions)
		slog.Info("hour complete", "hour", hr, "acks", summarizeAcks(acks))
		hr++
	}

	publishTerminate(bus, hr)
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

// awaitAllAcks blocks until every named region has acknowledged, tolerating
// acks arriving in any order.
func awaitAllAcks(bus *transport.Bus, regions []string) map[string]travel.TickAck {
	pending := make(map[string]bool, len(regions))
	for _, r := range regions {
		pending[r] = true
	}
	acks := make(map[string]travel.TickAck, len(regions))
	for len(pending) > 0 {
		ack := bus.AwaitAck()
		if !pending[ack.EngineID] {
			continue
		}
		acks[ack.EngineID] = ack
		delete(pending, ack.EngineID)
	}
	return acks
}

func summarizeAcks(acks map[string]travel.TickAck) int {
	total := 0
	for _, a := range acks {
		total += a.Counts.Total()
	}
	return total
}

func publishTerminate(bus *transport.Bus, hr int) {
	if err := bus.PublishTick(travel.Tick{Hour: hr, Terminate: true}); err != nil {
		slog.Error("publish terminate tick failed", "err", err)
	}
}
