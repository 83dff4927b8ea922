package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SynapticNetworks/context-engine/engine"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file tick by tick, printing ranked states after each tick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			e, err := buildEngine(scenario)
			if err != nil {
				return fmt.Errorf("building engine: %w", err)
			}

			logger.Infow("running scenario", "path", args[0], "ticks", len(scenario.Ticks))
			for i, injections := range scenario.Ticks {
				e.Inject(injections)
				e.Step()
				printRankedStates(cmd, i+1, e.RankedStates())
			}
			return nil
		},
	}
}

func printRankedStates(cmd *cobra.Command, tick int, ranked []engine.StateValue) {
	fmt.Fprintf(cmd.OutOrStdout(), "tick %d:\n", tick)
	for _, sv := range ranked {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-16s %-20s %.4f\n", sv.ID, sv.Label, sv.Value)
	}
}
