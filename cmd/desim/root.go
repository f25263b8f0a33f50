// Package main implements desim's command tree, grounded on the teacher's
// akita/cmd (akita/cmd/root.go): a small github.com/spf13/cobra tree with
// one file per subcommand.
package main

import (
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

var cpuProfile string

var rootCmd = &cobra.Command{
	Use:   "desim",
	Short: "desim runs and inspects process-based discrete-event simulations.",
	Long: "desim is the command-line front end for the desim discrete-event " +
		"simulation engine. It can run the bundled example scenarios, serve " +
		"an HTTP monitor over a running simulation, or record a scenario's " +
		"hook events to a SQLite trace.",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if cpuProfile == "" {
			return nil
		}
		f, err := os.Create(cpuProfile)
		if err != nil {
			return err
		}
		return pprof.StartCPUProfile(f)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if cpuProfile != "" {
			pprof.StopCPUProfile()
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	rootCmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "",
		"write a CPU profile to this path, inspectable with 'go tool pprof'")

	rootCmd.AddCommand(runCmd, serveCmd, traceCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
