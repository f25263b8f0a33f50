package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/desimgo/desim"
	"github.com/desimgo/desim/examples"
)

var scenarios = map[string]func(*desim.Environment) []string{
	"clock":       examples.Clock,
	"charging":    examples.ChargingStation,
	"interrupt":   examples.InterruptDuringCharge,
	"preemption":  examples.PriorityPreemption,
	"condition":   examples.ConditionComposition,
	"filterstore": examples.FilterStoreTrace,
}

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run one of the bundled example scenarios and print its trace.",
	Long: "Available scenarios: clock, charging, interrupt, preemption, " +
		"condition, filterstore.",
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		scenario, ok := scenarios[args[0]]
		if !ok {
			return fmt.Errorf("unknown scenario %q", args[0])
		}

		env := desim.NewEnvironment(0)
		for _, line := range scenario(env) {
			fmt.Fprintln(os.Stdout, line)
		}
		return nil
	},
}
