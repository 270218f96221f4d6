package core

import "sync/atomic"

// Trace event kinds
const (
	EvtZeroCross = 1 // edge accepted, Value = µs since previous accepted edge
	EvtBounce    = 2 // edge rejected by debounce, Value = µs since accepted edge
	EvtPhase     = 3 // new phase reference adopted, Value = reference time
	EvtPower     = 4 // SetPower, Value = clamped level
	EvtState     = 5 // SetState, Value = 0 or 1
)

// TraceRingSize must be a power of two so ring indices stay continuous when
// the claim counter wraps.
const TraceRingSize = 64

// TraceEvent captures a timing-relevant event for post-mortem or host-side
// analysis.
type TraceEvent struct {
	Kind   uint8  // Evt* code
	Device uint8  // DeviceID for power/state events, 0 otherwise
	Clock  uint32 // Clock.Micros() at the event
	Value  uint32 // kind-dependent
}

// traceRing is a fixed ring written from any context and drained from the
// foreground. Writers claim a slot with one atomic add; a reader racing a
// writer may see a torn slot, which is acceptable for diagnostics.
type traceRing struct {
	events  [TraceRingSize]TraceEvent
	head    atomic.Uint32 // events ever claimed
	tail    uint32        // foreground read cursor
	dropped uint32        // events overwritten before they were drained
}

func (r *traceRing) record(kind, dev uint8, clock, value uint32) {
	seq := r.head.Add(1) - 1
	r.events[seq%TraceRingSize] = TraceEvent{
		Kind:   kind,
		Device: dev,
		Clock:  clock,
		Value:  value,
	}
}

// drain delivers pending events oldest first and returns how many were lost
// to overwrite since the previous drain.
func (r *traceRing) drain(fn func(TraceEvent)) uint32 {
	head := r.head.Load()
	var lost uint32
	if head-r.tail > TraceRingSize {
		lost = head - r.tail - TraceRingSize
		r.dropped += lost
		r.tail = head - TraceRingSize
	}
	for r.tail != head {
		fn(r.events[r.tail%TraceRingSize])
		r.tail++
	}
	return lost
}

// TraceName returns a short name for an event kind.
func TraceName(kind uint8) string {
	switch kind {
	case EvtZeroCross:
		return "ZC"
	case EvtBounce:
		return "BOUNCE"
	case EvtPhase:
		return "PHASE"
	case EvtPower:
		return "POWER"
	case EvtState:
		return "STATE"
	case EvtDropped:
		return "DROPPED"
	default:
		return "UNKNOWN"
	}
}

// Stats are running counters maintained by the interrupt handlers.
type Stats struct {
	Edges   uint32 // accepted zero-cross edges
	Bounces uint32 // edges rejected by debounce
	Ticks   uint32 // scheduler ticks
	Dropped uint32 // trace events overwritten before draining
}
