package probe

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/itohio/phprobe/pkg/analog"
	"github.com/itohio/phprobe/pkg/nernst"
)

// idealProbeSpan is the electrode output (V) between pH 0 and the isoelectric
// point for an ideal 58 mV/pH electrode.
const idealProbeSpan = 0.058 * 7.0

// ResetCalibration discards the pending first point of a two-point calibration.
func (c *Controller) ResetCalibration() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetCalibration()
}

func (c *Controller) resetCalibration() {
	c.pending = CalibrationPoint{}
	c.hasPending = false
}

// Calibrate records the probe reading in a buffer of known pH.
//
// The first call stores the point and returns StatusNeedMorePoints. The second
// call solves the probe slope and offset from both points, stores them and returns
// StatusSuccess. Any failure returns StatusError and discards the pending point.
func (c *Controller) Calibrate(ctx context.Context, ph float64, stabilize bool, temperature float64) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calibrate(ctx, ph, stabilize, temperature)
}

func (c *Controller) calibrate(ctx context.Context, ph float64, stabilize bool, temperature float64) (Status, error) {
	reading, err := c.read(ctx, c.cfg.CalibrationSamples, stabilize)
	if err != nil {
		c.resetCalibration()
		return StatusError, err
	}
	if reading == 0 {
		c.resetCalibration()
		return StatusError, ErrInvalidReading
	}

	point := CalibrationPoint{
		Reading:     reading,
		Ph:          ph,
		Temperature: temperature,
	}

	if !c.hasPending {
		c.pending = point
		c.hasPending = true
		c.log.WithField("reading", reading).Debugf("Stored first calibration point at pH %.2f", ph)
		return StatusNeedMorePoints, nil
	}

	first := c.pending
	c.resetCalibration()

	if diff := point.Reading - first.Reading; diff > -MinCalibrationSeparation && diff < MinCalibrationSeparation {
		return StatusError, fmt.Errorf("%w: readings %d and %d differ by less than %d counts",
			ErrInsufficientSeparation, first.Reading, point.Reading, MinCalibrationSeparation)
	}

	slope, offset := c.solveTwoPoint(first, point)
	c.coef.ProbeSlope = slope
	c.coef.ProbeOffset = offset
	c.log.WithFields(logrus.Fields{
		"slope":  slope,
		"offset": offset,
	}).Info("Probe calibrated")

	return StatusSuccess, nil
}

// solveTwoPoint inverts the Nernst relation for two readings taken at their own
// temperatures and returns the probe slope and offset.
func (c *Controller) solveTwoPoint(a, b CalibrationPoint) (slope, offset float64) {
	iso := c.coef.IsoelectricPh
	va := c.probeVoltage(a.Reading)
	vb := c.probeVoltage(b.Reading)

	slope = (va - vb) / nernst.Factor /
		(nernst.Kelvin(b.Temperature)*(b.Ph-iso) - nernst.Kelvin(a.Temperature)*(a.Ph-iso))
	offset = vb + slope*nernst.Factor*nernst.Kelvin(b.Temperature)*(b.Ph-iso)
	return slope, offset
}

// CalibrateAmpOffset stores the amplifier output as its offset. The amplifier
// input must be shorted to ground.
func (c *Controller) CalibrateAmpOffset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reading, err := c.readRaw(ctx, c.cfg.CalibrationSamples)
	if err != nil {
		return err
	}

	c.coef.AmpOffset = analog.CountsToVolts(reading)
	c.log.Infof("Amplifier offset calibrated to %.4f V", c.coef.AmpOffset)
	return nil
}

// CalibrateAmpGain derives the amplifier gain from its output while a known test
// voltage (around 100 mV) is applied to its input. The offset must already be
// calibrated.
func (c *Controller) CalibrateAmpGain(ctx context.Context, testVoltage float64) error {
	if testVoltage == 0 {
		return ErrZeroTestVoltage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	reading, err := c.readRaw(ctx, c.cfg.CalibrationSamples)
	if err != nil {
		return err
	}

	c.coef.AmpGain = (analog.CountsToVolts(reading) - c.coef.AmpOffset) / testVoltage
	c.log.Infof("Amplifier gain calibrated to %.4f", c.coef.AmpGain)
	return nil
}

// IdealAmpGain returns the gain that maps an ideal electrode's pH 0..7 span onto
// the amplifier's offset headroom. It is informational and never applied.
func IdealAmpGain(coef Coefficients) float64 {
	return coef.AmpOffset / idealProbeSpan
}

// IdealAmpGain returns IdealAmpGain for the current coefficients.
func (c *Controller) IdealAmpGain() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return IdealAmpGain(c.coef)
}
