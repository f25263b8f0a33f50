package main

import (
	"github.com/spf13/cobra"

	"github.com/desimgo/desim"
	"github.com/desimgo/desim/config"
	"github.com/desimgo/desim/monitor"
)

var (
	servePort int
	serveOpen bool
	serveEnv  string
)

var serveCmd = &cobra.Command{
	Use:   "serve <scenario>",
	Short: "Run a scenario under the HTTP monitor instead of printing its trace.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		scenario, ok := scenarios[args[0]]
		if !ok {
			return errUnknownScenario(args[0])
		}

		cfg, err := config.Load(serveEnv)
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.MonitorAddr = ""
		}

		env := desim.NewEnvironment(0)
		m := monitor.New(env)
		if servePort > 0 {
			m.WithPortNumber(servePort)
		}

		go scenario(env)

		return m.ListenAndServe(serveOpen)
	},
}

func errUnknownScenario(name string) error {
	return &unknownScenarioError{name: name}
}

type unknownScenarioError struct{ name string }

func (e *unknownScenarioError) Error() string {
	return "desim: unknown scenario " + e.name
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to bind the monitor to (0 = random)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the monitor dashboard in a browser")
	serveCmd.Flags().StringVar(&serveEnv, "env", "", "path to a .env file overriding monitor configuration")
}
