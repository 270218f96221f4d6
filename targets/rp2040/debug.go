//go:build rp2040

package main

import "machine"

var debugUART *machine.UART

// initDebugUART routes core debug output to UART1 (TX=GP8, RX=GP9) at
// 115200 baud, keeping USB free for trace frames.
func initDebugUART() bool {
	debugUART = machine.UART1
	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO8,
		RX:       machine.GPIO9,
	})
	return err == nil
}

func debugPrintln(s string) {
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
