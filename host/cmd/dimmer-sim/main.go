package main

import (
	"flag"
	"fmt"
	"os"

	"acdimmer/core"
	"acdimmer/host/logging"
	"acdimmer/sim"
)

var (
	scenario  = flag.String("scenario", "", "Scenario YAML file")
	trace     = flag.Bool("trace", false, "Print the firmware trace")
	cycles    = flag.Bool("cycles", false, "Print every analysed half-cycle")
	logLevel  = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat = flag.String("log-format", "text", "Log format: text or json")
)

func main() {
	flag.Parse()

	log := logging.New(logging.Config{Level: *logLevel, Format: *logFormat}, "dimmer-sim")
	if *scenario == "" {
		log.Error("no scenario given")
		flag.Usage()
		os.Exit(2)
	}

	s, err := sim.LoadScenario(*scenario)
	if err != nil {
		log.Error("failed to load scenario", "error", err)
		os.Exit(1)
	}
	log.Debug("scenario loaded", "path", *scenario, "devices", len(s.Devices), "duration_ms", s.DurationMS)

	res, err := sim.RunScenario(s)
	if err != nil {
		log.Error("scenario failed", "error", err)
		os.Exit(1)
	}
	if !res.Installed {
		log.Warn("zero-cross handlers not installed, intermediate levels are not phase controlled")
	}
	if res.Stats.Dropped > 0 {
		log.Warn("trace ring overflowed", "dropped", res.Stats.Dropped)
	}

	if *trace {
		for _, evt := range res.Trace {
			fmt.Printf("%-7s dev=%-2d clock=%-10d value=%d\n", core.TraceName(evt.Kind), evt.Device, evt.Clock, evt.Value)
		}
	}

	fmt.Printf("half_period=%dus edges=%d bounces=%d ticks=%d\n",
		res.HalfPeriod, res.Stats.Edges, res.Stats.Bounces, res.Stats.Ticks)
	fmt.Printf("%-12s %4s %5s %8s %8s %10s %6s\n", "device", "pin", "power", "expected", "measured", "fire_delay", "fired")
	for _, d := range res.Devices {
		fmt.Printf("%-12s %4d %5d %8.3f %8.3f %10s %3d/%-3d\n",
			d.Name, d.Pin, d.Power, d.Expected, d.Summary.MeanOnFraction,
			d.Summary.MeanFireDelay, d.Summary.FiredCycles, d.Summary.Cycles)
		if *cycles {
			for _, c := range d.Cycles {
				fmt.Printf("    start=%-12s on=%.3f fired=%t delay=%s\n", c.Start, c.OnFraction, c.Fired, c.FireDelay)
			}
		}
	}
}
