// limsctl is a command-line companion for the LIMS REST API: look up
// projects, samples, labs and artifacts, and set fields or UDFs from scripts
// or a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkongenelly/genologics/internal/cli/ui"
)

var (
	// Version information - set at build time.
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "limsctl",
		Short:         "Command-line client for the LIMS REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log every HTTP request")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newLabsCmd())
	rootCmd.AddCommand(newArtifactsCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("limsctl version: %s\n", Version)
			fmt.Printf("Git commit: %s\n", GitCommit)
		},
	}
}
