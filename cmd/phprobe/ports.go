package main

import (
	"github.com/spf13/cobra"

	"github.com/itohio/phprobe/pkg/analog"
)

func NewPortsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ports",
		Short:   "List serial ports",
		GroupID: gMeasure,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := analog.Ports()
			if err != nil {
				return err
			}

			if len(ports) == 0 {
				cmd.Println("No serial ports found")
				return nil
			}
			for _, p := range ports {
				marker := " "
				if p.Name == conf.Serial.Port {
					marker = "*"
				}
				cmd.Printf("%s %s\n", marker, bold("%s", p.Name))
			}
			return nil
		},
	}
}
