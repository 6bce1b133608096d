package analog

import "math"

const (
	// ReferenceVoltage is the converter reference (full-scale) voltage.
	ReferenceVoltage = 5.0
	// FullScale is the number of converter steps (10-bit).
	FullScale = 1024
	// MaxReading is the largest count a channel can report.
	MaxReading = FullScale - 1
)

// CountsToVolts converts a raw count to the voltage at the converter input.
func CountsToVolts(counts int) float64 {
	return float64(counts) * (ReferenceVoltage / FullScale)
}

// VoltsToCounts converts an input voltage to the count the converter would report.
// The result is truncated and clamped to [0, MaxReading].
func VoltsToCounts(volts float64) int {
	counts := volts / (ReferenceVoltage / FullScale)
	if math.IsNaN(counts) || counts < 0 {
		return 0
	}
	if counts > MaxReading {
		return MaxReading
	}
	return int(counts)
}
