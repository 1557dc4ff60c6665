// Package cmd provides the command-line interface for the runid tooling.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "runid",
	Short: "runid CLI tool runs maintenance workloads for the runid library.",
	Long: `runid CLI tool runs maintenance workloads for the runid library. ` +
		`Currently, it supports stress-running the allocator (stress) and ` +
		`printing recorded stress reports (report).`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
