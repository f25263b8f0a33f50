package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/desimgo/desim"
	tracepkg "github.com/desimgo/desim/trace"
)

var traceDB string

var traceCmd = &cobra.Command{
	Use:   "trace <scenario>",
	Short: "Run a scenario, recording its hook events to a SQLite database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		scenario, ok := scenarios[args[0]]
		if !ok {
			return errUnknownScenario(args[0])
		}
		if traceDB == "" {
			return fmt.Errorf("--db is required")
		}

		recorder := tracepkg.NewRecorder(traceDB)
		if err := recorder.Init(); err != nil {
			return err
		}
		defer recorder.Close()

		env := desim.NewEnvironment(0)
		env.AcceptHook(recorder)

		for _, line := range scenario(env) {
			fmt.Println(line)
		}

		return nil
	},
}

func init() {
	traceCmd.Flags().StringVar(&traceDB, "db", "", "path to the SQLite database to write the trace to")
}
