package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewReadCommand() *cobra.Command {
	var flags measureFlags

	cmd := &cobra.Command{
		Use:     "read",
		Short:   "Read the solution pH",
		GroupID: gMeasure,
		Long: `Read the solution pH.

The averaged probe reading is converted with the stored calibration coefficients
and the Nernst equation at the given temperature. With --stabilize the reading is
taken only after the probe output settles.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.resolve(cmd, conf)

			coef := conf.Coefficients()
			if err := coef.Validate(); err != nil {
				logrus.WithError(err).Warn("calibration coefficients are unusable, the reading will be meaningless")
			}

			s, err := openSession(conf)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			ph, err := s.controller.ReadPh(ctx, flags.stabilize, flags.temperature)
			if err != nil {
				return fmt.Errorf("failed to read pH: %w", err)
			}

			cmd.Printf("pH: %s at %.1f °C\n", bold("%.2f", ph), flags.temperature)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
