// Command flowctl is the operator CLI for the flowgo runtime: validate a
// graph document, run one in-process to completion, or serve the HTTP
// catalog/runtime API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowctl",
		Short:         "Operate the flowgo dataflow graph runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newValidateCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newServeCmd())

	return root
}
