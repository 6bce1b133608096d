package probe

import "errors"

var (
	// ErrInvalidReading is returned when a calibration reading averages to 0,
	// which means the probe or amplifier is disconnected.
	ErrInvalidReading = errors.New("invalid reading")

	// ErrInsufficientSeparation is returned when two calibration readings are
	// closer than MinCalibrationSeparation counts.
	ErrInsufficientSeparation = errors.New("calibration points too close")

	// ErrZeroTestVoltage is returned by CalibrateAmpGain for a 0 V test voltage.
	ErrZeroTestVoltage = errors.New("test voltage must not be zero")

	// ErrDegenerateCoefficients is returned by Coefficients.Validate.
	ErrDegenerateCoefficients = errors.New("degenerate coefficients")
)
