package probe

import "context"

// Classification thresholds for the quick guess in AutoCalibrate.
const (
	basicThreshold  = 8.5
	acidicThreshold = 5.5
)

// ClassifyStandard picks the nominal buffer closest to a guessed pH.
func ClassifyStandard(guess float64) Standard {
	switch {
	case guess >= basicThreshold:
		return Standard10
	case guess <= acidicThreshold:
		return Standard4
	}
	return Standard7
}

// AutoCalibrate recognizes which NIST buffer (4, 7 or 10) the probe is in from a
// quick single-sample reading, corrects the buffer pH for temperature and records
// it as a calibration point. Like Calibrate it must be called twice, in two
// different buffers, to complete a calibration.
func (c *Controller) AutoCalibrate(ctx context.Context, stabilize bool, temperature float64) (AutoCalibration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	guess, err := c.readPh(ctx, 1, false, temperature)
	if err != nil {
		c.resetCalibration()
		return AutoCalibration{Status: StatusError}, err
	}

	standard := ClassifyStandard(guess)
	bufferPh := BufferPh(standard, temperature)
	c.log.Debugf("Guessed pH %.2f, calibrating to %s buffer (pH %.2f)", guess, standard, bufferPh)

	status, err := c.calibrate(ctx, bufferPh, stabilize, temperature)
	if err != nil {
		return AutoCalibration{BufferPh: bufferPh, Status: status}, err
	}

	return AutoCalibration{
		Standard: standard,
		BufferPh: bufferPh,
		Status:   status,
	}, nil
}
