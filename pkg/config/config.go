package config

import (
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/itohio/phprobe/pkg/analog"
	"github.com/itohio/phprobe/pkg/probe"
)

// Source kinds.
const (
	SourceSerial  = "serial"
	SourceADS1115 = "ads1115"
	SourceMock    = "mock"
)

// Config represents the application configuration.
type Config struct {
	Source      SourceConfig      `yaml:"source"`
	Serial      SerialConfig      `yaml:"serial"`
	ADS1115     ADS1115Config     `yaml:"ads1115"`
	Sampling    SamplingConfig    `yaml:"sampling"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Mock        MockConfig        `yaml:"mock"`
	Log         LogConfig         `yaml:"log"`
}

// SourceConfig selects where readings come from.
type SourceConfig struct {
	Kind    string `yaml:"kind"`    // serial, ads1115 or mock
	Channel int    `yaml:"channel"` // Analog channel the probe amplifier is wired to
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string        `yaml:"port"`
	BaudRate int           `yaml:"baud_rate"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ADS1115Config contains I2C converter configuration.
type ADS1115Config struct {
	Bus        int     `yaml:"bus"`
	Address    int     `yaml:"address"`
	MaxVoltage float64 `yaml:"max_voltage"` // Input range used to pick the converter gain
}

// SamplingConfig contains averaging and stabilization parameters.
type SamplingConfig struct {
	Samples            int           `yaml:"samples"`
	CalibrationSamples int           `yaml:"calibration_samples"`
	SampleInterval     time.Duration `yaml:"sample_interval"`
	StabilizeDelay     time.Duration `yaml:"stabilize_delay"`
}

// CalibrationConfig holds the last known calibration coefficients.
type CalibrationConfig struct {
	AmpGain       float64 `yaml:"amp_gain"`
	AmpOffset     float64 `yaml:"amp_offset"`
	ProbeSlope    float64 `yaml:"probe_slope"`
	ProbeOffset   float64 `yaml:"probe_offset"`
	IsoelectricPh float64 `yaml:"isoelectric_ph"`
}

// MeasurementConfig contains measurement parameters.
type MeasurementConfig struct {
	Temperature float64 `yaml:"temperature"` // Solution temperature (°C) when not given on the command line
	Stabilize   bool    `yaml:"stabilize"`
}

// MockConfig contains simulated probe configuration.
type MockConfig struct {
	Ph          float64       `yaml:"ph"`
	Temperature float64       `yaml:"temperature"`
	Efficiency  float64       `yaml:"efficiency"`
	Offset      float64       `yaml:"offset"`
	AmpGain     float64       `yaml:"amp_gain"`
	AmpOffset   float64       `yaml:"amp_offset"`
	NoiseLevel  float64       `yaml:"noise_level"`
	SettleTime  time.Duration `yaml:"settle_time"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`        // Empty disables file logging
	MaxSize    int    `yaml:"max_size"`    // Megabytes before rotation
	MaxBackups int    `yaml:"max_backups"` // Rotated files kept
	MaxAge     int    `yaml:"max_age"`     // Days rotated files are kept
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	sampling := probe.DefaultConfig()
	coef := probe.DefaultCoefficients()
	mock := analog.DefaultMockConfig()

	return &Config{
		Source: SourceConfig{
			Kind:    SourceSerial,
			Channel: 0,
		},
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: analog.DefaultBaudRate,
			Timeout:  analog.DefaultTimeout,
		},
		ADS1115: ADS1115Config{
			Bus:        1,
			Address:    0x48,
			MaxVoltage: analog.ReferenceVoltage,
		},
		Sampling: SamplingConfig{
			Samples:            sampling.Samples,
			CalibrationSamples: sampling.CalibrationSamples,
			SampleInterval:     sampling.SampleInterval,
			StabilizeDelay:     sampling.StabilizeDelay,
		},
		Calibration: CalibrationConfig{
			AmpGain:       coef.AmpGain,
			AmpOffset:     coef.AmpOffset,
			ProbeSlope:    coef.ProbeSlope,
			ProbeOffset:   coef.ProbeOffset,
			IsoelectricPh: coef.IsoelectricPh,
		},
		Measurement: MeasurementConfig{
			Temperature: probe.DefaultTemperature,
			Stabilize:   false,
		},
		Mock: MockConfig{
			Ph:          mock.Ph,
			Temperature: mock.Temperature,
			Efficiency:  mock.Efficiency,
			Offset:      mock.Offset,
			AmpGain:     mock.AmpGain,
			AmpOffset:   mock.AmpOffset,
			NoiseLevel:  0.002,
			SettleTime:  mock.SettleTime,
		},
		Log: LogConfig{
			Level:      "info",
			File:       "",
			MaxSize:    20,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to read config file %s", filename)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse config file %s", filename)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write config file %s", filename)
	}

	return nil
}

// ProbeConfig returns the sampling configuration for a probe.Controller.
func (c *Config) ProbeConfig() probe.Config {
	return probe.Config{
		Samples:            c.Sampling.Samples,
		CalibrationSamples: c.Sampling.CalibrationSamples,
		SampleInterval:     c.Sampling.SampleInterval,
		StabilizeDelay:     c.Sampling.StabilizeDelay,
	}
}

// Coefficients returns the stored calibration coefficients.
func (c *Config) Coefficients() probe.Coefficients {
	return probe.Coefficients{
		AmpGain:       c.Calibration.AmpGain,
		AmpOffset:     c.Calibration.AmpOffset,
		ProbeSlope:    c.Calibration.ProbeSlope,
		ProbeOffset:   c.Calibration.ProbeOffset,
		IsoelectricPh: c.Calibration.IsoelectricPh,
	}
}

// SetCoefficients stores calibration coefficients.
func (c *Config) SetCoefficients(coef probe.Coefficients) {
	c.Calibration = CalibrationConfig{
		AmpGain:       coef.AmpGain,
		AmpOffset:     coef.AmpOffset,
		ProbeSlope:    coef.ProbeSlope,
		ProbeOffset:   coef.ProbeOffset,
		IsoelectricPh: coef.IsoelectricPh,
	}
}

// MockSource returns the simulated probe configuration.
func (c *Config) MockSource() analog.MockConfig {
	return analog.MockConfig{
		Ph:          c.Mock.Ph,
		Temperature: c.Mock.Temperature,
		Efficiency:  c.Mock.Efficiency,
		Offset:      c.Mock.Offset,
		AmpGain:     c.Mock.AmpGain,
		AmpOffset:   c.Mock.AmpOffset,
		NoiseLevel:  c.Mock.NoiseLevel,
		SettleTime:  c.Mock.SettleTime,
	}
}

// ensureDefaults ensures that all required fields have default values if missing.
// Coefficients equal to zero are left alone except for the gain and slope: a zero
// offset is a legitimate calibration result.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Source.Kind == "" {
		c.Source.Kind = def.Source.Kind
	}

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.Timeout == 0 {
		c.Serial.Timeout = def.Serial.Timeout
	}

	if c.ADS1115.Address == 0 {
		c.ADS1115.Address = def.ADS1115.Address
	}
	if c.ADS1115.MaxVoltage == 0 {
		c.ADS1115.MaxVoltage = def.ADS1115.MaxVoltage
	}

	if c.Sampling.Samples == 0 {
		c.Sampling.Samples = def.Sampling.Samples
	}
	if c.Sampling.CalibrationSamples == 0 {
		c.Sampling.CalibrationSamples = def.Sampling.CalibrationSamples
	}
	if c.Sampling.StabilizeDelay == 0 {
		c.Sampling.StabilizeDelay = def.Sampling.StabilizeDelay
	}

	if c.Calibration.AmpGain == 0 {
		c.Calibration.AmpGain = def.Calibration.AmpGain
	}
	if c.Calibration.ProbeSlope == 0 {
		c.Calibration.ProbeSlope = def.Calibration.ProbeSlope
	}
	if c.Calibration.IsoelectricPh == 0 {
		c.Calibration.IsoelectricPh = def.Calibration.IsoelectricPh
	}

	if c.Mock.Efficiency == 0 {
		c.Mock.Efficiency = def.Mock.Efficiency
	}
	if c.Mock.AmpGain == 0 {
		c.Mock.AmpGain = def.Mock.AmpGain
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = def.Log.MaxSize
	}
}
