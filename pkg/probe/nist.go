package probe

import "math"

// NIST buffer tables hold the offset of each buffer's true pH from its nominal
// value, in hundredths of a pH unit, for 5 °C buckets starting at 5 °C.
const (
	nistTableStart = 5.0
	nistTableStep  = 5.0
)

var (
	nist4Table  = [...]int8{0, 0, 0, 0, 0, 1, 2, 3, 4, 6, 7, 9}
	nist7Table  = [...]int8{9, 6, 4, 2, 0, -1, -2, -3, -3, -4, -4, -3}
	nist10Table = [...]int8{25, 18, 12, 6, 1, -3, -7, -11, -14, -17, -19, -22}
)

// nistIndex maps a temperature to its table bucket. Temperatures outside the
// table clamp to the first or last bucket.
func nistIndex(temperature float64, size int) int {
	key := math.Floor(temperature/nistTableStep) - math.Floor(nistTableStart/nistTableStep)
	if math.IsNaN(key) || key < 0 {
		return 0
	}
	if key >= float64(size) {
		return size - 1
	}
	return int(key)
}

func nistOffset(table []int8, temperature float64) float64 {
	return float64(table[nistIndex(temperature, len(table))]) / 100.0
}

// NIST4Offset returns the deviation of a pH 4 buffer from 4.00 at temperature.
func NIST4Offset(temperature float64) float64 {
	return nistOffset(nist4Table[:], temperature)
}

// NIST7Offset returns the deviation of a pH 7 buffer from 7.00 at temperature.
func NIST7Offset(temperature float64) float64 {
	return nistOffset(nist7Table[:], temperature)
}

// NIST10Offset returns the deviation of a pH 10 buffer from 10.00 at temperature.
func NIST10Offset(temperature float64) float64 {
	return nistOffset(nist10Table[:], temperature)
}

// BufferOffset returns the temperature deviation of a nominal buffer.
func BufferOffset(standard Standard, temperature float64) float64 {
	switch standard {
	case Standard4:
		return NIST4Offset(temperature)
	case Standard7:
		return NIST7Offset(temperature)
	case Standard10:
		return NIST10Offset(temperature)
	}
	return 0
}

// BufferPh returns the true pH of a nominal buffer at temperature.
func BufferPh(standard Standard, temperature float64) float64 {
	return float64(standard) + BufferOffset(standard, temperature)
}
