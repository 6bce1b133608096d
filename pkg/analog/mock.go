package analog

import (
	"math"
	"sync"
	"time"

	"github.com/itohio/phprobe/pkg/nernst"
)

// MockConfig describes the simulated probe, amplifier and solution.
type MockConfig struct {
	Ph          float64       // True pH of the solution
	Temperature float64       // Solution temperature (°C)
	Efficiency  float64       // Electrode slope relative to ideal (1.0 = ideal)
	Offset      float64       // Electrode voltage at pH 7 (V)
	AmpGain     float64       // Amplifier gain (negative for inverting)
	AmpOffset   float64       // Amplifier output at 0 V input (V)
	NoiseLevel  float64       // Peak noise at the converter input (V)
	SettleTime  time.Duration // First-order time constant after a solution change
}

// DefaultMockConfig returns a probe sitting in pH 7 buffer at room temperature.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		Ph:          7.0,
		Temperature: 23.0,
		Efficiency:  0.98,
		Offset:      0.0,
		AmpGain:     -4.91,
		AmpOffset:   2.0,
		NoiseLevel:  0.0,
		SettleTime:  2 * time.Second,
	}
}

// Mock simulates a pH probe behind an instrumentation amplifier.
type Mock struct {
	cfg MockConfig
	now func() time.Time

	mu        sync.Mutex
	connected bool

	// Simulation state
	startTime    time.Time
	changedAt    time.Time
	startVoltage float64 // Converter input voltage when the solution changed
	reads        int
}

// NewMock creates a new simulated probe.
func NewMock(cfg MockConfig) *Mock {
	return newMock(cfg, time.Now)
}

func newMock(cfg MockConfig, now func() time.Time) *Mock {
	m := &Mock{
		cfg: cfg,
		now: now,
	}
	t := now()
	m.startTime = t
	m.changedAt = t
	m.startVoltage = m.targetVoltage()
	return m
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}
	m.connected = true
	return nil
}

// Close stops the simulated device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// SetSolution moves the simulated probe into a solution of the given pH and
// temperature. The output drifts toward the new value with the configured settle time.
func (m *Mock) SetSolution(ph, temperature float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.startVoltage = m.voltageAt(now)
	m.changedAt = now
	m.cfg.Ph = ph
	m.cfg.Temperature = temperature
}

// Read returns the simulated converter count. The channel is ignored: the
// simulation models a single probe.
func (m *Mock) Read(channel int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, ErrNotConnected
	}

	now := m.now()
	v := m.voltageAt(now) + m.noise(now)
	m.reads++
	return VoltsToCounts(v), nil
}

// targetVoltage is the settled converter input voltage for the current solution.
func (m *Mock) targetVoltage() float64 {
	probe := nernst.Voltage(m.cfg.Ph, m.cfg.Temperature, m.cfg.Efficiency, m.cfg.Offset, 7.0)
	return probe*m.cfg.AmpGain + m.cfg.AmpOffset
}

// voltageAt applies the first-order settle response since the last solution change.
func (m *Mock) voltageAt(now time.Time) float64 {
	target := m.targetVoltage()
	if m.cfg.SettleTime <= 0 {
		return target
	}
	elapsed := now.Sub(m.changedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return target + (m.startVoltage-target)*math.Exp(-elapsed/m.cfg.SettleTime.Seconds())
}

// noise is a deterministic pseudo-noise term bounded by NoiseLevel.
func (m *Mock) noise(now time.Time) float64 {
	if m.cfg.NoiseLevel == 0 {
		return 0
	}
	elapsed := float64(now.Sub(m.startTime).Nanoseconds())
	return (math.Sin(elapsed*0.001+float64(m.reads)) +
		math.Cos(elapsed*0.0013)) *
		m.cfg.NoiseLevel * 0.5
}
