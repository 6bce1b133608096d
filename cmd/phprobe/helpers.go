package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gobot.io/x/gobot/v2/platforms/raspi"

	"github.com/itohio/phprobe/pkg/analog"
	"github.com/itohio/phprobe/pkg/config"
	"github.com/itohio/phprobe/pkg/probe"
)

// newSource builds the analog source selected in the config.
func newSource(cfg *config.Config) (analog.Device, error) {
	switch cfg.Source.Kind {
	case config.SourceSerial:
		return analog.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Serial.Timeout), nil
	case config.SourceADS1115:
		return analog.NewADS1115(raspi.NewAdaptor(), cfg.ADS1115.Bus, cfg.ADS1115.Address, cfg.ADS1115.MaxVoltage), nil
	case config.SourceMock:
		return analog.NewMock(cfg.MockSource()), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// session is a connected source with a controller bound to the configured channel.
type session struct {
	device     analog.Device
	controller *probe.Controller
}

func openSession(cfg *config.Config) (*session, error) {
	pc := cfg.ProbeConfig()
	if err := pc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampling config: %w", err)
	}

	device, err := newSource(cfg)
	if err != nil {
		return nil, err
	}
	if err := device.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect %s source: %w", cfg.Source.Kind, err)
	}

	logrus.WithFields(logrus.Fields{
		"source":  cfg.Source.Kind,
		"channel": cfg.Source.Channel,
	}).Debug("source connected")

	return &session{
		device:     device,
		controller: probe.New(device, cfg.Source.Channel, pc, probe.WithCoefficients(cfg.Coefficients())),
	}, nil
}

func (s *session) Close() {
	if err := s.device.Close(); err != nil {
		logrus.WithError(err).Warn("failed to close source")
	}
}

// signalContext is cancelled on interrupt so long stabilization loops can be aborted.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

// measureFlags are shared by every command that takes a reading.
type measureFlags struct {
	stabilize   bool
	temperature float64
}

func (f *measureFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.stabilize, "stabilize", "s", false, "wait for the probe to settle before reading")
	cmd.Flags().Float64VarP(&f.temperature, "temperature", "t", probe.DefaultTemperature, "solution temperature in °C")
}

// resolve fills unset flags from the measurement section of the config.
func (f *measureFlags) resolve(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("stabilize") {
		f.stabilize = cfg.Measurement.Stabilize
	}
	if !cmd.Flags().Changed("temperature") {
		f.temperature = cfg.Measurement.Temperature
	}
}

// solutionSetter is implemented by simulated sources.
type solutionSetter interface {
	SetSolution(ph, temperature float64)
}

// waitForProbe asks the operator to move the probe into the next solution.
// Simulated sources are moved by entering the buffer pH instead.
func waitForProbe(cmd *cobra.Command, in *bufio.Reader, dev analog.Device, what string, temperature float64) error {
	if sim, ok := dev.(solutionSetter); ok {
		line, err := prompt(cmd, in, fmt.Sprintf("Simulated probe: enter the pH of %s: ", what))
		if err != nil {
			return err
		}
		ph, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return fmt.Errorf("invalid pH %q: %v", line, err)
		}
		sim.SetSolution(ph, temperature)
		return nil
	}

	_, err := prompt(cmd, in, fmt.Sprintf("Place the probe in %s and press Enter... ", what))
	return err
}

func prompt(cmd *cobra.Command, in *bufio.Reader, msg string) (string, error) {
	cmd.Print(msg)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// saveCoefficients stores the controller coefficients in the config file.
func saveCoefficients(cmd *cobra.Command, c *probe.Controller) error {
	conf.SetCoefficients(c.Coefficients())
	if err := conf.Save(configPath); err != nil {
		return err
	}
	cmd.Printf("Coefficients saved to %s\n", bold("%s", configPath))
	return nil
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func status2Text(s probe.Status) string {
	switch s {
	case probe.StatusSuccess:
		return color.GreenString("%s", s)
	case probe.StatusNeedMorePoints:
		return color.YellowString("%s", s)
	default:
		return color.RedString("%s", s)
	}
}
