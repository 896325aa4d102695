// Command eponsim runs the EPON MPCP load sweep described by a scenario
// file and writes its warning, configuration, informational, and result
// streams, grounded on test_001.h's main()/InitializeEPON/Execute sequence
// and the CLI layout inference-sim's cmd package uses for its own
// cobra-based runner.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gkramer/eponsim/config"
	"github.com/gkramer/eponsim/epon"
	"github.com/gkramer/eponsim/report"
)

var (
	configPath string
	outPrefix  string
	seed       int64
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "eponsim",
	Short: "Discrete-event EPON MPCP bandwidth-allocation simulator",
	RunE:  runSimulation,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML scenario file (defaults built in if omitted)")
	rootCmd.Flags().StringVar(&outPrefix, "out-prefix", "epon", "output file prefix")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "override the scenario's random seed (0 keeps the scenario's own seed)")
	rootCmd.Flags().StringVar(&logLevel, "log", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logger := logrus.New()
	logger.SetLevel(level)
	log := logger.WithField("component", "eponsim")

	scn, err := loadScenario(configPath)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	if seed != 0 {
		scn.Seed = seed
	}
	if err := scn.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	stamp := time.Now().Format("010206_150405")
	out, err := report.Open(outPrefix, stamp)
	if err != nil {
		return fmt.Errorf("opening output streams: %w", err)
	}
	defer out.Close()

	if err := out.WriteConfigHeader(configLabel(configPath)); err != nil {
		return fmt.Errorf("writing configuration header: %w", err)
	}

	log.WithFields(logrus.Fields{
		"num_onu": scn.NumONU, "num_llid": scn.NumLLID, "grant_policy": scn.GrantPolicy,
		"traffic": scn.TrafficType, "seed": scn.Seed,
	}).Info("starting simulation")

	driver := epon.NewDriver(scn, log)
	defer driver.Close()

	results := driver.Run()

	if err := report.WriteCSV(out.Result, report.ResultTable(results)); err != nil {
		return fmt.Errorf("writing result table: %w", err)
	}

	fmt.Fprintf(out.Info, "completed %d load points\n", len(results))
	log.WithField("load_points", len(results)).Info("simulation complete")

	return nil
}

func loadScenario(path string) (*config.Scenario, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func configLabel(path string) string {
	if path == "" {
		return "default"
	}
	return path
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
