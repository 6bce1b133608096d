package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/itohio/phprobe/pkg/config"
)

var (
	logLevel   = ""
	logFile    = ""
	configPath = "phprobe.yaml"

	// conf is loaded before any subcommand runs.
	conf = config.Default()
)

var (
	gMeasure      = "Measurement:"
	gCalibration  = "Calibration:"
	commandGroups = []string{
		gMeasure,
		gCalibration,
	}
)

// setupLogger configures logrus from the loaded config. Flags override the file.
func setupLogger(cfg config.LogConfig) error {
	if logLevel != "" {
		cfg.Level = logLevel
	}
	if logFile != "" {
		cfg.File = logFile
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	if cfg.File != "" {
		logrus.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   true,
		}))
	}

	return nil
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phprobe",
		Short: "phprobe reads and calibrates an analog pH probe",
		Long: `phprobe reads and calibrates an analog pH probe.

The probe is sampled through a serial-attached microcontroller, an ADS1115
converter on the I2C bus, or a built-in simulator. Calibration coefficients
are kept in the config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			conf = cfg

			return setupLogger(conf.Log)
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&logFile, "log-file", "", "also write logs to this file, rotated")
	globalFlags.StringVarP(&configPath, "config", "c", configPath, "config file path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewReadCommand(),
		NewCalibrateCommand(),
		NewCoefficientsCommand(),
		NewPortsCommand(),
	)

	return cmd
}
