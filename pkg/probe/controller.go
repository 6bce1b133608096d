// Package probe reads and calibrates a pH electrode attached to an analog channel.
//
// A Controller owns the sampling configuration, the calibration coefficients and
// the pending half of a two-point calibration. All operations run synchronously
// and may block for the configured sample interval and stabilize delay.
package probe

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/itohio/phprobe/pkg/analog"
)

// Controller converts readings of a single probe channel to pH and calibrates it.
// It is safe for concurrent use: a mutex serializes operations, each holding it
// for its full duration. The two-point calibration protocol spans two calls and
// is not atomic across callers; two goroutines each calling Calibrate once will
// complete each other's pair.
type Controller struct {
	source  analog.Source
	channel int
	clock   Clock
	log     logrus.FieldLogger

	mu         sync.Mutex
	cfg        Config
	coef       Coefficients
	pending    CalibrationPoint
	hasPending bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithCoefficients sets the initial coefficients instead of DefaultCoefficients.
func WithCoefficients(coef Coefficients) Option {
	return func(c *Controller) {
		c.coef = coef
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// New creates a Controller bound to one channel of source.
func New(source analog.Source, channel int, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		source:  source,
		channel: channel,
		clock:   SystemClock{},
		cfg:     cfg,
		coef:    DefaultCoefficients(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.WithField("channel", channel)
	}
	return c
}

// Channel returns the bound analog channel.
func (c *Controller) Channel() int {
	return c.channel
}

// Config returns the sampling configuration.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetConfig replaces the sampling configuration.
func (c *Controller) SetConfig(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
}

// Coefficients returns the current calibration coefficients.
func (c *Controller) Coefficients() Coefficients {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coef
}

// SetCoefficients replaces the calibration coefficients, e.g. with values
// restored from external storage.
func (c *Controller) SetCoefficients(coef Coefficients) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coef = coef
}

// Pending returns the first point of an unfinished two-point calibration.
func (c *Controller) Pending() (CalibrationPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.hasPending
}
