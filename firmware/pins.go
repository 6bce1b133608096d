//go:build tinygo

package main

import "machine"

const (
	// ADC configuration
	ADC_REFERENCE_MV = 5000 // AVcc reference in millivolts (5V)
	ADC_RESOLUTION   = 10   // Reported resolution in bits (10-bit = 0-1023)
	ADC_SHIFT        = 16 - ADC_RESOLUTION

	// Samples discarded after switching the ADC multiplexer to another channel
	SETTLE_SAMPLES = 1

	// Serial configuration
	// Request "A<n>\n" is 3 bytes, reply "<n>,<reading>\n" at most 7 bytes.
	// The host paces requests, so the rate only bounds request latency.
	UART_BAUD_RATE = 115200
)

// Probe amplifier inputs, indexed by the channel number in a request.
var adcPins = [...]machine.Pin{
	machine.ADC0,
	machine.ADC1,
	machine.ADC2,
	machine.ADC3,
}
