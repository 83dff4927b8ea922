package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SynapticNetworks/context-engine/engine"
	"github.com/SynapticNetworks/context-engine/graph"
	"github.com/SynapticNetworks/context-engine/graphdef"
)

func newStepCmd() *cobra.Command {
	var graphPath string
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Interactively inject sensor values and step, reading id=value pairs from stdin",
		Long: `step reads lines of the form "id=value" from stdin, staging them as
pending input. A blank line runs one engine step and prints the ranked
states. EOF ends the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(graphPath)
			if err != nil {
				return err
			}
			e := engine.NewDefault(g)
			return runStepLoop(cmd, e)
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "path to a custom graph definition (default: embedded)")
	return cmd
}

func loadGraph(path string) (*graph.Graph, error) {
	if path == "" {
		return graphdef.Load()
	}
	return graphdef.LoadFile(path)
}

func runStepLoop(cmd *cobra.Command, e *engine.Engine) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	pending := map[string]float64{}
	tick := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			tick++
			e.Inject(pending)
			e.Step()
			printRankedStates(cmd, tick, e.RankedStates())
			pending = map[string]float64{}
			continue
		}
		id, value, err := parseInjection(line)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %q: %v\n", line, err)
			continue
		}
		pending[id] = value
	}
	return scanner.Err()
}

func parseInjection(line string) (string, float64, error) {
	id, raw, ok := strings.Cut(line, "=")
	if !ok {
		return "", 0, fmt.Errorf("expected id=value")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad value: %w", err)
	}
	return strings.TrimSpace(id), v, nil
}
