// Package monitor decodes the trace frame stream a dimmer board writes to
// its serial port and keeps running statistics about the mains signal.
package monitor

import (
	"context"
	"errors"
	"io"
	"sync"

	"acdimmer/core"
	"acdimmer/host/logging"
	"acdimmer/protocol"
)

// MaxHalfPeriodUS bounds the zero-cross intervals used for timing
// statistics. Longer gaps (start-up, lost edges) are ignored.
const MaxHalfPeriodUS = 25000

// DeviceState is the last power and state reported for a device.
type DeviceState struct {
	Power uint32
	On    bool
}

// Summary aggregates the events seen since the last Reset.
type Summary struct {
	Frames      uint32
	BadFrames   uint32
	SeqGaps     uint32
	BadPayloads uint32
	Events      uint32

	Edges   uint32
	Bounces uint32
	Phases  uint32
	Drops   uint32 // events the board lost before sending

	MeanHalfPeriod float64 // microseconds
	Frequency      float64 // Hz
	JitterMin      int64   // shortest interval minus the mean, µs
	JitterMax      int64   // longest interval minus the mean, µs

	Devices map[uint8]DeviceState
}

// Monitor consumes frame bytes and accumulates a Summary. Feed and Summary
// may be called from different goroutines.
type Monitor struct {
	mu  sync.Mutex
	log *logging.Logger
	dec *protocol.FrameDecoder

	sum     Summary
	base    [3]uint32 // decoder counters at the last Reset
	dtSum   uint64
	dtCount uint32
	dtMin   uint32
	dtMax   uint32

	// OnEvent, if set, sees every decoded event. It runs with the
	// monitor's lock held and must not call back into the monitor.
	OnEvent func(core.TraceEvent)
}

// New creates a monitor logging through log.
func New(log *logging.Logger) *Monitor {
	m := &Monitor{
		log: log.With("component", "monitor"),
		dec: protocol.NewFrameDecoder(),
	}
	m.resetLocked()
	return m
}

// Feed consumes raw bytes from the port.
func (m *Monitor) Feed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dec.Feed(data, m.handleFrame)
}

func (m *Monitor) handleFrame(seq uint8, payload []byte) {
	err := core.DecodeTracePayload(payload, m.handleEvent)
	if err != nil {
		m.sum.BadPayloads++
		m.log.Debug("bad trace payload", "seq", seq, "len", len(payload), "error", err)
	}
}

func (m *Monitor) handleEvent(evt core.TraceEvent) {
	m.sum.Events++
	switch evt.Kind {
	case core.EvtZeroCross:
		m.sum.Edges++
		if evt.Value > 0 && evt.Value <= MaxHalfPeriodUS {
			m.dtSum += uint64(evt.Value)
			m.dtCount++
			m.dtMin = min(m.dtMin, evt.Value)
			m.dtMax = max(m.dtMax, evt.Value)
		}
	case core.EvtBounce:
		m.sum.Bounces++
	case core.EvtPhase:
		m.sum.Phases++
	case core.EvtDropped:
		m.sum.Drops += evt.Value
		m.log.Warn("board dropped trace events", "count", evt.Value)
	case core.EvtPower:
		d := m.sum.Devices[evt.Device]
		d.Power = evt.Value
		m.sum.Devices[evt.Device] = d
	case core.EvtState:
		d := m.sum.Devices[evt.Device]
		d.On = evt.Value != 0
		m.sum.Devices[evt.Device] = d
	default:
		m.log.Debug("unknown trace event", "kind", evt.Kind)
	}

	if m.OnEvent != nil {
		m.OnEvent(evt)
	}
}

// Summary returns a snapshot of the statistics.
func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sum
	s.Frames = m.dec.Frames - m.base[0]
	s.BadFrames = m.dec.BadFrames - m.base[1]
	s.SeqGaps = m.dec.SeqGaps - m.base[2]

	s.Devices = make(map[uint8]DeviceState, len(m.sum.Devices))
	for id, d := range m.sum.Devices {
		s.Devices[id] = d
	}

	if m.dtCount > 0 {
		mean := float64(m.dtSum) / float64(m.dtCount)
		s.MeanHalfPeriod = mean
		s.Frequency = 1e6 / (2 * mean)
		s.JitterMin = int64(float64(m.dtMin) - mean)
		s.JitterMax = int64(float64(m.dtMax) - mean)
	}
	return s
}

// Reset starts a new statistics window. Device states are kept.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Monitor) resetLocked() {
	devices := m.sum.Devices
	if devices == nil {
		devices = make(map[uint8]DeviceState)
	}
	m.sum = Summary{Devices: devices}
	m.base = [3]uint32{m.dec.Frames, m.dec.BadFrames, m.dec.SeqGaps}
	m.dtSum, m.dtCount = 0, 0
	m.dtMin, m.dtMax = ^uint32(0), 0
}

// Run reads r until it is exhausted or ctx is cancelled. Reads that time
// out with no data are retried.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, err := r.Read(buf)
		if n > 0 {
			m.Feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
