//go:build tinygo

//go:generate tinygo flash -target=arduino

package main

import (
	"machine"
	"time"
)

var (
	adcs [len(adcPins)]machine.ADC
	uart = machine.UART0

	// Last channel converted, -1 before the first request
	lastChannel = -1

	// Serial buffer for reading lines
	serialBuffer [8]byte
	serialPos    int
)

func main() {
	machine.InitADC()

	adcConfig := machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	}

	for i, pin := range adcPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInput})
		adcs[i] = machine.ADC{Pin: pin}
		adcs[i].Configure(adcConfig)
	}

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	for {
		processSerial()

		// Small delay to prevent tight loop
		time.Sleep(100 * time.Microsecond)
	}
}

// readChannel converts one channel and returns the 10-bit count.
// machine.ADC.Get is left-aligned to 16 bits on every target.
func readChannel(ch int) uint16 {
	adc := adcs[ch]
	if ch != lastChannel {
		for i := 0; i < SETTLE_SAMPLES; i++ {
			adc.Get()
		}
		lastChannel = ch
	}
	return adc.Get() >> ADC_SHIFT
}

func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		if data == '\n' || data == '\r' {
			if serialPos > 0 {
				handleRequest(serialBuffer[:serialPos])
			}
			serialPos = 0
			continue
		}

		// Ignore whitespace
		if data == ' ' || data == '\t' {
			continue
		}

		if serialPos < len(serialBuffer) {
			serialBuffer[serialPos] = data
			serialPos++
		}
	}
}

// handleRequest answers "A<n>" with "<n>,<reading>".
// Anything else is ignored and the host times out.
func handleRequest(req []byte) {
	if len(req) < 2 || req[0] != 'A' {
		return
	}

	ch := 0
	for _, c := range req[1:] {
		if c < '0' || c > '9' {
			return
		}
		ch = ch*10 + int(c-'0')
		if ch >= len(adcs) {
			return
		}
	}

	reading := readChannel(ch)

	// Output format: "channel,reading\n"
	// Example: "0,512\n"
	print(ch)
	print(",")
	print(reading)
	print("\n")
}
