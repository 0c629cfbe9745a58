// Command dopego runs symmetry-reduced doping-configuration scans over a
// directory of structure folders, driven by a TOML configuration file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dopego",
		Short:         "Doping-configuration scan engine",
		Long:          "dopego enumerates chemical-substitution configurations on a crystal sublattice, removes symmetry duplicates, scores the survivors with an external oracle, and keeps the best K.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "input.toml", "path to the TOML configuration file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newScanCommand())

	return cmd
}
