// Package nernst implements the temperature-dependent relation between a glass
// electrode's output voltage and the pH of the solution it sits in.
package nernst

// Factor is 2.303·R/F with R = 8.314 J/(mol·K) and F = 96490 C/mol.
// Multiplied by an absolute temperature it yields volts per pH unit.
const Factor = 2.303 * 8.314 / 96490.0

// ZeroCelsius is 0 °C expressed in kelvin.
const ZeroCelsius = 273.15

// Kelvin converts a temperature in degrees Celsius to kelvin.
func Kelvin(celsius float64) float64 {
	return celsius + ZeroCelsius
}

// Ph converts a probe voltage to pH.
//
// slope is the electrode efficiency (1.0 for an ideal electrode), offset is the
// probe voltage at the isoelectric pH. Degenerate coefficients are not checked and
// produce NaN or ±Inf.
func Ph(probeVoltage, temperature, slope, offset, isoelectric float64) float64 {
	return (offset-probeVoltage)/slope/Factor/Kelvin(temperature) + isoelectric
}

// Voltage is the inverse of Ph: the probe voltage expected at the given pH.
func Voltage(ph, temperature, slope, offset, isoelectric float64) float64 {
	return offset - slope*Factor*Kelvin(temperature)*(ph-isoelectric)
}
