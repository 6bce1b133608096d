package probe

import (
	"context"
	"fmt"
)

// read takes one averaged reading, waiting for it to settle when stabilize is set.
func (c *Controller) read(ctx context.Context, samples int, stabilize bool) (int, error) {
	if stabilize {
		return c.readStable(ctx, samples)
	}
	return c.readRaw(ctx, samples)
}

// readRaw averages samples consecutive conversions, sleeping SampleInterval
// between them. The average is truncated.
func (c *Controller) readRaw(ctx context.Context, samples int) (int, error) {
	if samples < 1 {
		samples = 1
	}

	total := 0
	for i := 0; i < samples; i++ {
		v, err := c.source.Read(c.channel)
		if err != nil {
			return 0, fmt.Errorf("failed to read channel %d: %w", c.channel, err)
		}
		total += v

		if i != samples-1 {
			if err := c.clock.Sleep(ctx, c.cfg.SampleInterval); err != nil {
				return 0, err
			}
		}
	}

	return total / samples, nil
}

// readStable repeats readRaw until the value holds still for StabilizeDelay.
//
// A change of drift direction means the reading overshot equilibrium. In that
// case the reading taken after one more StabilizeDelay is returned unchecked.
//
// A previous reading of 0 is a dead input, not a level, so the step away from
// it records no direction.
//
// There is no iteration bound: a signal that keeps drifting in one direction
// blocks until ctx is done.
func (c *Controller) readStable(ctx context.Context, samples int) (int, error) {
	delay := c.cfg.StabilizeDelay
	deadline := c.clock.Now().Add(delay)

	var (
		last      int
		hasLast   bool
		direction int
	)

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		value, err := c.readRaw(ctx, samples)
		if err != nil {
			return 0, err
		}

		if hasLast && value == last {
			if !c.clock.Now().Before(deadline) {
				c.log.Debugf("Reading stable at %d", value)
				return value, nil
			}
			continue
		}

		deadline = c.clock.Now().Add(delay)

		if hasLast {
			dir := 1
			if value < last {
				dir = -1
			}
			if direction != 0 && dir != direction {
				c.log.Debugf("Reading reversed at %d (was %d), accepting after %v", value, last, delay)
				if err := c.clock.Sleep(ctx, delay); err != nil {
					return 0, err
				}
				return c.readRaw(ctx, samples)
			}
			if last != 0 {
				direction = dir
			}
		}

		last = value
		hasLast = true
	}
}
