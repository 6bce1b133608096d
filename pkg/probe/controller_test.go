package probe

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	src := &constSource{value: 400}
	c := New(src, 3, DefaultConfig())

	assert.Equal(t, 3, c.Channel())
	assert.Equal(t, DefaultConfig(), c.Config())
	assert.Equal(t, DefaultCoefficients(), c.Coefficients())
	assert.IsType(t, SystemClock{}, c.clock)
	_, ok := c.Pending()
	assert.False(t, ok)
}

func TestSetters(t *testing.T) {
	c := newTestController(&constSource{}, newFakeClock())

	cfg := DefaultConfig()
	cfg.Samples = 20
	c.SetConfig(cfg)
	assert.Equal(t, 20, c.Config().Samples)

	coef := DefaultCoefficients()
	coef.ProbeSlope = 0.95
	c.SetCoefficients(coef)
	assert.Equal(t, 0.95, c.Coefficients().ProbeSlope)

	// No validation on set.
	coef.AmpGain = 0
	c.SetCoefficients(coef)
	assert.Equal(t, 0.0, c.Coefficients().AmpGain)
}

func TestController_ConcurrentUse(t *testing.T) {
	src := &constSource{value: 300}
	c := newTestController(src, newFakeClock())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := c.ReadPh(ctx, false, DefaultTemperature)
				assert.NoError(t, err)
				if i%2 == 0 {
					c.SetCoefficients(c.Coefficients())
				}
			}
		}(i)
	}
	wg.Wait()

	status, err := c.Calibrate(ctx, 4.0, false, 25)
	require.NoError(t, err)
	assert.Equal(t, StatusNeedMorePoints, status)
}
