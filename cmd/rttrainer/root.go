package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/curbz/rt-trainer/internal/atc"
	"github.com/curbz/rt-trainer/internal/config"
	"github.com/curbz/rt-trainer/internal/logging"
	"github.com/curbz/rt-trainer/internal/scenario"
	"github.com/curbz/rt-trainer/internal/world"
)

var (
	configPath string
	logLevel   string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "rttrainer",
	Short: "Radio telephony practice for VFR pilots",
	Long:  "rttrainer runs simulated ATC exchanges from engine start to shutdown and checks every call against standard phraseology.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		logCloser, err = logging.Configure(logrus.StandardLogger(), cfg.Log, os.Stderr)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration YAML (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn or error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(versionCmd)
}

// newSession builds the scenario session from the loaded configuration.
func newSession() (*scenario.Session, error) {
	tbl, err := world.DefaultTable()
	if cfg.World.AerodromesFile != "" {
		tbl, err = world.LoadTable(cfg.World.AerodromesFile)
	}
	if err != nil {
		return nil, err
	}

	agent, err := atc.NewDefault()
	if cfg.ATC.PhrasesFile != "" {
		phrases, perr := atc.LoadPhrases(cfg.ATC.PhrasesFile)
		if perr != nil {
			return nil, perr
		}
		agent, err = atc.New(phrases)
	}
	if err != nil {
		return nil, err
	}
	return scenario.New(world.NewGenerator(tbl), agent, scenario.WithLogger(logrus.StandardLogger()))
}

// paramFlags registers the scenario generation flags shared by several commands.
func paramFlags(cmd *cobra.Command, p *scenario.Params) {
	cmd.Flags().Uint32Var(&p.Seed, "seed", 0, "Scenario seed")
	cmd.Flags().StringVar(&p.Prefix, "prefix", "none", "Callsign prefix: none, student, helicopter, police or super")
	cmd.Flags().StringVar(&p.UserCallsign, "callsign", "G-ABCD", "Aircraft registration")
	cmd.Flags().StringVar(&p.AircraftType, "aircraft", "C172", "Aircraft type designator")
	cmd.Flags().Float64Var(&p.RadioFrequency, "radio", 0, "Initial radio frequency in MHz")
	cmd.Flags().Uint16Var(&p.TransponderFrequency, "squawk", 0, "Transponder code")
}
