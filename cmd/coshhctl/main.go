// Command coshhctl generates COSHH documents and previews hazard
// classification from the command line, using the same templates and rules
// as the API.
package main

import (
	"fmt"
	"os"

	"github.com/giygas/coshh-api/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "coshhctl",
		Short:         "COSHH document tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel == "" {
				logging.InitDiscardLogger()
				return
			}
			logging.InitLogger(logging.Options{Level: logLevel})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log to stdout at this level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd(), newClassifyCmd(), newTablesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
