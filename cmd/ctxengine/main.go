// Command ctxengine is a demo/CLI front end over the context inference
// engine. It is not part of the normative core (§1 scopes CLI and I/O out
// of spec.md); it exists to exercise graphdef/engine/telemetry the way an
// external collaborator would, one subcommand per file following
// github.com/nvandessel/feedback-loop's cmd/floop layout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

func main() {
	rootCmd := &cobra.Command{
		Use:   "ctxengine",
		Short: "Run and inspect the context inference engine",
		Long: `ctxengine loads a typed activation-spreading graph and runs it
against scenario files or interactive input, printing the ranked state
interpretation after each tick.`,
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug-level logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newStepCmd(),
		newWatchCmd(),
	)

	cobra.OnInitialize(func() {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		logger = newLogger(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.SugaredLogger {
	var z *zap.Logger
	var err error
	if verbose {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		// zap construction failing means stderr logging itself is unusable;
		// fall back to a no-op logger rather than crash a CLI over it.
		return zap.NewNop().Sugar()
	}
	return z.Sugar()
}
