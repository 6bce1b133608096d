package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewCoefficientsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "coefficients",
		Aliases: []string{"coef"},
		Short:   "Show the stored calibration coefficients",
		GroupID: gCalibration,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coef := conf.Coefficients()

			cmd.Println(bold("Amplifier:"))
			cmd.Printf("  Gain: %s\n", bold("%.4f", coef.AmpGain))
			cmd.Printf("  Offset: %s\n", bold("%.4f V", coef.AmpOffset))
			cmd.Println()

			cmd.Println(bold("Probe:"))
			cmd.Printf("  Slope: %s\n", bold("%.4f", coef.ProbeSlope))
			cmd.Printf("  Offset: %s\n", bold("%.4f V", coef.ProbeOffset))
			cmd.Printf("  Isoelectric pH: %s\n", bold("%.2f", coef.IsoelectricPh))
			cmd.Println()

			if err := coef.Validate(); err != nil {
				cmd.Printf("Status: %s (%v)\n", color.RedString("unusable"), err)
			} else {
				cmd.Printf("Status: %s\n", color.GreenString("ok"))
			}
			return nil
		},
	}
}
