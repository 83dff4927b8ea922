package main

import (
	"github.com/spf13/cobra"
)

// newTestRootCmd builds a bare root command to host subcommands under test,
// mirroring github.com/nvandessel/feedback-loop/cmd/floop's newTestRootCmd.
func newTestRootCmd(cmds ...*cobra.Command) *cobra.Command {
	root := &cobra.Command{Use: "ctxengine"}
	root.AddCommand(cmds...)
	return root
}
