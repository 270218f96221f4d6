package core

import "acdimmer/protocol"

// EvtDropped is emitted in the frame stream when the ring overwrote events
// before they were drained. Value carries the number lost.
const EvtDropped = 6

// traceEventMax bounds one encoded event: kind and device fit a byte each,
// clock and value take at most a full VLQ.
const traceEventMax = 2 + 2*protocol.MaxVLQSize

// TraceEncoder packs drained trace events into protocol frames for the
// host monitor. It owns its buffers, so encoding does not allocate.
type TraceEncoder struct {
	out     protocol.ScratchOutput
	pending [protocol.FramePayloadMax / 4]TraceEvent
	n       int
	seq     uint8
	lost    uint32 // events discarded by a failed encode, not yet reported
}

// Flush drains the controller's ring and passes each complete batch of
// frames to write. Foreground only.
func (e *TraceEncoder) Flush(c *Controller, write func([]byte)) {
	lost := c.DrainTrace(func(evt TraceEvent) {
		e.add(evt, write)
	})
	if e.lost > 0 {
		c.trace.dropped += e.lost
		lost += e.lost
		e.lost = 0
	}
	if lost > 0 {
		e.add(TraceEvent{Kind: EvtDropped, Clock: c.clock.Micros(), Value: lost}, write)
	}
	e.emit(write)
}

func (e *TraceEncoder) add(evt TraceEvent, write func([]byte)) {
	if (e.n+1)*traceEventMax > protocol.FramePayloadMax || e.n == len(e.pending) {
		e.emit(write)
	}
	e.pending[e.n] = evt
	e.n++
}

// emit writes the pending events as one frame.
func (e *TraceEncoder) emit(write func([]byte)) {
	if e.n == 0 {
		return
	}
	e.out.Reset()
	err := protocol.EncodeFrame(&e.out, e.seq, func(o protocol.OutputBuffer) {
		for i := 0; i < e.n; i++ {
			encodeTraceEvent(o, e.pending[i])
		}
	})
	if err != nil {
		// Reported as dropped on the next Flush.
		e.lost += uint32(e.n)
		e.n = 0
		return
	}
	e.n = 0
	e.seq++
	write(e.out.Result())
}

func encodeTraceEvent(o protocol.OutputBuffer, evt TraceEvent) {
	protocol.EncodeVLQUint(o, uint32(evt.Kind))
	protocol.EncodeVLQUint(o, uint32(evt.Device))
	protocol.EncodeVLQUint(o, evt.Clock)
	protocol.EncodeVLQUint(o, evt.Value)
}

// DecodeTracePayload decodes every event in a frame body.
func DecodeTracePayload(payload []byte, fn func(TraceEvent)) error {
	for len(payload) > 0 {
		kind, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return err
		}
		dev, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return err
		}
		clock, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return err
		}
		value, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return err
		}
		fn(TraceEvent{Kind: uint8(kind), Device: uint8(dev), Clock: clock, Value: value})
	}
	return nil
}
