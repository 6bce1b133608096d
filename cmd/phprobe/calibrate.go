package main

import (
	"bufio"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/itohio/phprobe/pkg/probe"
)

func NewCalibrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calibrate",
		Aliases: []string{"cal"},
		Short:   "Calibrate the probe and amplifier",
		GroupID: gCalibration,
		Long: `Calibrate the probe and amplifier.

Probe calibration takes two points in buffers of known pH, at least 50 counts
apart. Amplifier calibration measures its output with the probe input shorted
(offset) or driven by a known test voltage (gain).`,
	}

	cmd.AddCommand(
		newTwoPointCommand(),
		newAutoCommand(),
		newAmpOffsetCommand(),
		newAmpGainCommand(),
		newIdealGainCommand(),
	)

	return cmd
}

func newTwoPointCommand() *cobra.Command {
	var (
		flags    measureFlags
		ph1, ph2 float64
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "two-point",
		Short: "Calibrate the probe in two buffers of known pH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.resolve(cmd, conf)

			s, err := openSession(conf)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			in := bufio.NewReader(cmd.InOrStdin())
			for i, ph := range []float64{ph1, ph2} {
				if err := waitForProbe(cmd, in, s.device, fmt.Sprintf("the pH %.2f buffer", ph), flags.temperature); err != nil {
					return err
				}

				status, err := s.controller.Calibrate(ctx, ph, flags.stabilize, flags.temperature)
				cmd.Printf("Point %d (pH %.2f): %s\n", i+1, ph, status2Text(status))
				if err != nil {
					return fmt.Errorf("calibration failed: %w", err)
				}
			}

			return finishProbeCalibration(cmd, s.controller, noSave)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&ph1, "ph1", 7.0, "pH of the first buffer")
	cmd.Flags().Float64Var(&ph2, "ph2", 4.0, "pH of the second buffer")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the coefficients to the config file")

	return cmd
}

func newAutoCommand() *cobra.Command {
	var (
		flags  measureFlags
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Calibrate the probe in two NIST buffers (4, 7 or 10), recognized automatically",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.resolve(cmd, conf)

			s, err := openSession(conf)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			in := bufio.NewReader(cmd.InOrStdin())
			for _, what := range []string{"the first buffer", "a different buffer"} {
				if err := waitForProbe(cmd, in, s.device, what, flags.temperature); err != nil {
					return err
				}

				res, err := s.controller.AutoCalibrate(ctx, flags.stabilize, flags.temperature)
				if err != nil {
					cmd.Printf("Buffer: %s\n", status2Text(res.Status))
					return fmt.Errorf("calibration failed: %w", err)
				}
				cmd.Printf("Buffer: %s (pH %.2f at %.1f °C): %s\n",
					bold("%s", res.Standard), res.BufferPh, flags.temperature, status2Text(res.Status))
			}

			return finishProbeCalibration(cmd, s.controller, noSave)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the coefficients to the config file")

	return cmd
}

func finishProbeCalibration(cmd *cobra.Command, c *probe.Controller, noSave bool) error {
	coef := c.Coefficients()
	cmd.Printf("Probe slope: %s\n", bold("%.4f", coef.ProbeSlope))
	cmd.Printf("Probe offset: %s\n", bold("%.4f V", coef.ProbeOffset))

	if err := coef.Validate(); err != nil {
		logrus.WithError(err).Warn("calibration produced unusable coefficients")
	}

	if noSave {
		return nil
	}
	return saveCoefficients(cmd, c)
}

func newAmpOffsetCommand() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "amp-offset",
		Short: "Measure the amplifier offset with the probe input shorted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(conf)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			if err := s.controller.CalibrateAmpOffset(ctx); err != nil {
				return fmt.Errorf("failed to calibrate amplifier offset: %w", err)
			}
			cmd.Printf("Amplifier offset: %s\n", bold("%.4f V", s.controller.Coefficients().AmpOffset))

			if noSave {
				return nil
			}
			return saveCoefficients(cmd, s.controller)
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the coefficients to the config file")
	return cmd
}

func newAmpGainCommand() *cobra.Command {
	var (
		testVoltage float64
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "amp-gain",
		Short: "Measure the amplifier gain with a known voltage on the probe input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(conf)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			if err := s.controller.CalibrateAmpGain(ctx, testVoltage); err != nil {
				return fmt.Errorf("failed to calibrate amplifier gain: %w", err)
			}
			cmd.Printf("Amplifier gain: %s\n", bold("%.4f", s.controller.Coefficients().AmpGain))

			if noSave {
				return nil
			}
			return saveCoefficients(cmd, s.controller)
		},
	}

	cmd.Flags().Float64Var(&testVoltage, "test-voltage", 0, "voltage applied to the probe input (V)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the coefficients to the config file")
	_ = cmd.MarkFlagRequired("test-voltage")

	return cmd
}

func newIdealGainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ideal-gain",
		Short: "Print the amplifier gain that fits an ideal probe into the amplifier offset headroom",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("Ideal amplifier gain: %s\n", bold("%.4f", probe.IdealAmpGain(conf.Coefficients())))
			return nil
		},
	}
}
