package probe

import (
	"fmt"
	"math"
	"time"
)

// DefaultTemperature is the solution temperature (°C) assumed when none is measured.
const DefaultTemperature = 23.0

// MinCalibrationSeparation is the smallest difference, in raw counts, between the
// two points of a calibration. Closer points do not resolve a usable slope.
const MinCalibrationSeparation = 50

// Coefficients converts amplifier output to pH. The set is read and written as a
// whole; the controller never validates it.
type Coefficients struct {
	AmpGain       float64 // Instrumentation amplifier gain; negative when inverting
	AmpOffset     float64 // Amplifier output (V) at 0 V input
	ProbeSlope    float64 // Electrode efficiency relative to the ideal Nernst slope
	ProbeOffset   float64 // Electrode voltage (V) at the isoelectric pH
	IsoelectricPh float64 // pH at which the electrode output is zero
}

// DefaultCoefficients returns an uncalibrated ideal probe behind a -4.91 gain
// amplifier biased at 2 V.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		AmpGain:       -4.91,
		AmpOffset:     2.0,
		ProbeSlope:    1.0,
		ProbeOffset:   0.0,
		IsoelectricPh: 7.0,
	}
}

// Validate reports coefficients that would turn every reading into NaN or ±Inf.
func (c Coefficients) Validate() error {
	if c.AmpGain == 0 || math.IsNaN(c.AmpGain) || math.IsInf(c.AmpGain, 0) {
		return fmt.Errorf("%w: amplifier gain %v", ErrDegenerateCoefficients, c.AmpGain)
	}
	if c.ProbeSlope == 0 || math.IsNaN(c.ProbeSlope) || math.IsInf(c.ProbeSlope, 0) {
		return fmt.Errorf("%w: probe slope %v", ErrDegenerateCoefficients, c.ProbeSlope)
	}
	if math.IsNaN(c.AmpOffset) || math.IsNaN(c.ProbeOffset) || math.IsNaN(c.IsoelectricPh) {
		return fmt.Errorf("%w: NaN offset", ErrDegenerateCoefficients)
	}
	return nil
}

// Config controls sampling.
type Config struct {
	Samples            int           // Samples averaged per pH reading
	CalibrationSamples int           // Samples averaged per calibration reading
	SampleInterval     time.Duration // Delay between samples of one reading
	StabilizeDelay     time.Duration // How long a reading must hold still to count as stable
}

// DefaultConfig returns the sampling defaults.
func DefaultConfig() Config {
	return Config{
		Samples:            5,
		CalibrationSamples: 10,
		SampleInterval:     time.Millisecond,
		StabilizeDelay:     6 * time.Second,
	}
}

// Validate checks sample counts and durations.
func (c Config) Validate() error {
	if c.Samples < 1 {
		return fmt.Errorf("samples must be at least 1, got %d", c.Samples)
	}
	if c.CalibrationSamples < 1 {
		return fmt.Errorf("calibration samples must be at least 1, got %d", c.CalibrationSamples)
	}
	if c.SampleInterval < 0 {
		return fmt.Errorf("sample interval must not be negative, got %v", c.SampleInterval)
	}
	if c.StabilizeDelay < 0 {
		return fmt.Errorf("stabilize delay must not be negative, got %v", c.StabilizeDelay)
	}
	return nil
}

// CalibrationPoint is the first half of a two-point calibration.
type CalibrationPoint struct {
	Reading     int     // Averaged raw count
	Ph          float64 // pH of the buffer the probe was in
	Temperature float64 // Buffer temperature (°C)
}

// Status is the outcome of a calibration step.
type Status int

const (
	StatusSuccess        Status = 0
	StatusNeedMorePoints Status = 1
	StatusError          Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNeedMorePoints:
		return "need more points"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Standard is a nominal NIST buffer value.
type Standard int

const (
	StandardNone Standard = 0
	Standard4    Standard = 4
	Standard7    Standard = 7
	Standard10   Standard = 10
)

func (s Standard) String() string {
	if s == StandardNone {
		return "none"
	}
	return fmt.Sprintf("pH %d", int(s))
}

// AutoCalibration is the result of one automatic calibration step.
type AutoCalibration struct {
	Standard Standard // Recognized buffer, StandardNone on error
	BufferPh float64  // Temperature-corrected pH used for the calibration point
	Status   Status
}
