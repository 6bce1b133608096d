package probe

import (
	"context"

	"github.com/itohio/phprobe/pkg/analog"
	"github.com/itohio/phprobe/pkg/nernst"
)

// ReadPh reads the probe and returns the pH of the solution at temperature (°C).
// Degenerate coefficients yield NaN or ±Inf rather than an error; use
// Coefficients.Validate to check them first.
func (c *Controller) ReadPh(ctx context.Context, stabilize bool, temperature float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.readPh(ctx, c.cfg.Samples, stabilize, temperature)
}

func (c *Controller) readPh(ctx context.Context, samples int, stabilize bool, temperature float64) (float64, error) {
	reading, err := c.read(ctx, samples, stabilize)
	if err != nil {
		return 0, err
	}
	return c.phFromReading(reading, temperature), nil
}

// probeVoltage removes the amplifier gain and offset from a raw reading.
func (c *Controller) probeVoltage(reading int) float64 {
	return (analog.CountsToVolts(reading) - c.coef.AmpOffset) / c.coef.AmpGain
}

func (c *Controller) phFromReading(reading int, temperature float64) float64 {
	return nernst.Ph(c.probeVoltage(reading), temperature, c.coef.ProbeSlope, c.coef.ProbeOffset, c.coef.IsoelectricPh)
}
