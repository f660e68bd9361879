// cmd/root.go
package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	logDir   string
	seed     int64
)

var rootCmd = &cobra.Command{
	Use:   "orbitcache-sim",
	Short: "Discrete-event simulator for a satellite-borne CDN",
}

var runCmd = &cobra.Command{
	Use:   "run <config-file>",
	Short: "Run a scenario to completion",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if logDir != "" {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				logrus.Fatalf("create log dir %q: %v", logDir, err)
			}
			f, err := os.Create(logDir + "/orbitcache-sim.log")
			if err != nil {
				logrus.Fatalf("create log file: %v", err)
			}
			defer f.Close()
			logrus.SetOutput(f)
		}

		configPath := args[0]
		logrus.Infof("loading scenario %q", configPath)

		driver, err := buildRun(configPath, seed)
		if err != nil {
			logrus.Fatalf("build run: %v", err)
		}

		if err := driver.Run(context.Background()); err != nil {
			logrus.Fatalf("simulation aborted: %v", err)
		}
		logrus.Info("simulation complete")
	},
}

// Execute runs the root command, exiting the process with a non-zero
// status on any fatal error (spec.md §6: "exit code 0 on clean
// termination at tEnd, non-zero on fatal sanity failure").
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&logDir, "log-dir", "", "Directory to write the run's log file to (stderr if empty)")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Master RNG seed for requester access-pattern sampling")

	rootCmd.AddCommand(runCmd)
}
