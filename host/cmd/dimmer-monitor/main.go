package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"acdimmer/core"
	"acdimmer/host/logging"
	"acdimmer/host/monitor"
	"acdimmer/host/serial"
)

var (
	device    = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud      = flag.Int("baud", serial.DefaultBaud, "Baud rate (ignored for USB CDC)")
	interval  = flag.Duration("interval", 2*time.Second, "Summary interval")
	events    = flag.Bool("events", false, "Print every trace event")
	logLevel  = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat = flag.String("log-format", "text", "Log format: text or json")
)

func main() {
	flag.Parse()

	log := logging.New(logging.Config{Level: *logLevel, Format: *logFormat}, "dimmer-monitor")

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		log.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer port.Close()
	if err := port.Flush(); err != nil {
		log.Warn("flush failed", "error", err)
	}
	log.Info("connected", "device", *device)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(log)
	if *events {
		mon.OnEvent = printEvent
	}

	done := make(chan error, 1)
	go func() {
		done <- mon.Run(ctx, port)
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			printSummary(mon.Summary())
			return
		case err := <-done:
			printSummary(mon.Summary())
			if err != nil {
				log.Error("read failed", "error", err)
				os.Exit(1)
			}
			return
		case <-ticker.C:
			printSummary(mon.Summary())
			mon.Reset()
		}
	}
}

func printEvent(evt core.TraceEvent) {
	fmt.Printf("%-7s dev=%-2d clock=%-10d value=%d\n", core.TraceName(evt.Kind), evt.Device, evt.Clock, evt.Value)
}

func printSummary(s monitor.Summary) {
	fmt.Printf("frames=%d bad=%d gaps=%d events=%d edges=%d bounces=%d dropped=%d\n",
		s.Frames, s.BadFrames, s.SeqGaps, s.Events, s.Edges, s.Bounces, s.Drops)
	if s.MeanHalfPeriod > 0 {
		fmt.Printf("  half_period=%.1fus frequency=%.3fHz jitter=[%+d,%+d]us\n",
			s.MeanHalfPeriod, s.Frequency, s.JitterMin, s.JitterMax)
	}

	ids := make([]int, 0, len(s.Devices))
	for id := range s.Devices {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		d := s.Devices[uint8(id)]
		fmt.Printf("  dev=%d power=%d on=%t\n", id, d.Power, d.On)
	}
}
