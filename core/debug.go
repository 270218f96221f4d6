package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Foreground only.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// FormatTraceEvent renders an event as a single debug line without fmt.
func FormatTraceEvent(evt TraceEvent) string {
	return "[TRACE] " + TraceName(evt.Kind) +
		" dev=" + utoa(uint32(evt.Device)) +
		" clock=" + utoa(evt.Clock) +
		" value=" + utoa(evt.Value)
}

// DumpTrace drains the controller's trace ring to the debug writer. While
// debug output is disabled the ring is left untouched.
// Call from the foreground loop, never from an interrupt handler.
func (c *Controller) DumpTrace() {
	if !IsDebugEnabled() || debugPrintln == nil {
		return
	}
	lost := c.DrainTrace(func(evt TraceEvent) {
		debugPrintln(FormatTraceEvent(evt))
	})
	if lost > 0 {
		debugPrintln("[TRACE] dropped=" + utoa(lost))
	}
}
