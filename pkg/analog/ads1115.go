package analog

import (
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"
)

// I2CAdaptor is a gobot platform adaptor that exposes an I2C bus
// (for example raspi.Adaptor).
type I2CAdaptor interface {
	i2c.Connector
	Connect() error
	Finalize() error
}

// ADS1115 reads a probe through a TI ADS1115 16-bit converter. Voltages are
// rescaled into the 10-bit count space of the reference system so calibration
// values stay interchangeable between sources.
type ADS1115 struct {
	adaptor I2CAdaptor
	driver  *i2c.ADS1x15Driver

	mu        sync.Mutex
	connected bool
}

// NewADS1115 creates an ADS1115 source. A negative bus or zero address keeps the
// gobot defaults; maxVoltage > 0 selects the best gain for that input range.
func NewADS1115(adaptor I2CAdaptor, bus, address int, maxVoltage float64) *ADS1115 {
	var opts []func(i2c.Config)
	if bus >= 0 {
		opts = append(opts, i2c.WithBus(bus))
	}
	if address != 0 {
		opts = append(opts, i2c.WithAddress(address))
	}
	if maxVoltage > 0 {
		opts = append(opts, i2c.WithADS1x15BestGainForVoltage(maxVoltage))
	}

	return &ADS1115{
		adaptor: adaptor,
		driver:  i2c.NewADS1115Driver(adaptor, opts...),
	}
}

// Connect connects the adaptor and starts the converter driver.
func (a *ADS1115) Connect() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.connected {
		return ErrAlreadyConnected
	}
	if err := a.adaptor.Connect(); err != nil {
		return fmt.Errorf("failed to connect adaptor: %w", err)
	}
	if err := a.driver.Start(); err != nil {
		a.adaptor.Finalize()
		return fmt.Errorf("failed to start ADS1115 driver: %w", err)
	}

	a.connected = true
	return nil
}

// Close halts the driver and releases the adaptor.
func (a *ADS1115) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.connected {
		return nil
	}
	a.connected = false

	if err := a.driver.Halt(); err != nil {
		a.adaptor.Finalize()
		return fmt.Errorf("failed to halt ADS1115 driver: %w", err)
	}
	if err := a.adaptor.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize adaptor: %w", err)
	}
	return nil
}

// IsConnected returns whether the converter is started.
func (a *ADS1115) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connected
}

// Read converts the single-ended channel and returns it as a 10-bit count.
func (a *ADS1115) Read(channel int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.connected {
		return 0, ErrNotConnected
	}

	volts, err := a.driver.ReadWithDefaults(channel)
	if err != nil {
		return 0, fmt.Errorf("failed to read ADS1115 channel %d: %w", channel, err)
	}
	return VoltsToCounts(volts), nil
}
