//go:build rp2040

package main

import (
	"machine"

	"acdimmer/core"
)

const maxWriteFailures = 10

var (
	writeFailures uint32
	hostGone      bool
)

// initUSB configures machine.Serial, which is USB CDC on this board.
func initUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// writeUSB sends one trace frame. After repeated failures the host is
// assumed gone and frames are dropped until a write succeeds again.
func writeUSB(frame []byte) {
	written := 0
	for written < len(frame) {
		n, err := machine.Serial.Write(frame[written:])
		if err != nil || n == 0 {
			writeFailures++
			if writeFailures > maxWriteFailures && !hostGone {
				hostGone = true
				core.DebugPrintln("[USB] host not reading, dropping trace frames")
			}
			return
		}
		written += n
	}
	writeFailures = 0
	hostGone = false
}
