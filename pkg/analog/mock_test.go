package analog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/phprobe/pkg/nernst"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }

func TestMock_NotConnected(t *testing.T) {
	m := NewMock(DefaultMockConfig())
	_, err := m.Read(0)
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, m.Connect())
	assert.True(t, m.IsConnected())
	assert.ErrorIs(t, m.Connect(), ErrAlreadyConnected)

	require.NoError(t, m.Close())
	assert.False(t, m.IsConnected())
}

func TestMock_SettledReading(t *testing.T) {
	cfg := DefaultMockConfig()
	cfg.Ph = 4.0
	cfg.Temperature = 25
	cfg.SettleTime = 0
	m := NewMock(cfg)
	require.NoError(t, m.Connect())

	probe := nernst.Voltage(4.0, 25, cfg.Efficiency, cfg.Offset, 7.0)
	want := VoltsToCounts(probe*cfg.AmpGain + cfg.AmpOffset)

	got, err := m.Read(0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Inverting amplifier: acid (positive probe voltage) reads below mid-offset.
	assert.Less(t, got, VoltsToCounts(cfg.AmpOffset))
}

func TestMock_SetSolutionSettles(t *testing.T) {
	clk := &stepClock{t: time.Unix(1000, 0)}
	cfg := DefaultMockConfig()
	cfg.SettleTime = time.Second
	m := newMock(cfg, clk.now)
	require.NoError(t, m.Connect())

	before, err := m.Read(0)
	require.NoError(t, err)

	m.SetSolution(10.0, 23)

	// Immediately after the change the output has not moved yet.
	v, err := m.Read(0)
	require.NoError(t, err)
	assert.Equal(t, before, v)

	prev := v
	for i := 0; i < 20; i++ {
		clk.t = clk.t.Add(500 * time.Millisecond)
		v, err = m.Read(0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, prev, "base buffer drives an inverting amp upward")
		prev = v
	}

	probe := nernst.Voltage(10.0, 23, cfg.Efficiency, cfg.Offset, 7.0)
	assert.InDelta(t, VoltsToCounts(probe*cfg.AmpGain+cfg.AmpOffset), v, 1)
}

func TestMock_NoiseBounded(t *testing.T) {
	clk := &stepClock{t: time.Unix(1000, 0)}
	cfg := DefaultMockConfig()
	cfg.SettleTime = 0
	cfg.NoiseLevel = 0.01
	m := newMock(cfg, clk.now)
	require.NoError(t, m.Connect())

	center := VoltsToCounts(cfg.AmpOffset + nernst.Voltage(cfg.Ph, cfg.Temperature, cfg.Efficiency, cfg.Offset, 7.0)*cfg.AmpGain)
	// 0.01 V is ~2 counts
	for i := 0; i < 100; i++ {
		clk.t = clk.t.Add(time.Millisecond)
		v, err := m.Read(0)
		require.NoError(t, err)
		assert.InDelta(t, center, v, 3)
	}
}
