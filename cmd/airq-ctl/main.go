// Airq-ctl is a command line utility for air-Q air quality monitors.
//
// It provides device discovery, encrypted telemetry access, a live
// terminal dashboard, and direct configuration commands for air-Q
// devices. This tool communicates with devices over HTTP on the local
// network; no cloud account is involved.
//
// Usage:
//
//	airq-ctl [command] [flags]
//
// See 'airq-ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nanoklima/airq/internal/logging"
	"github.com/nanoklima/airq/internal/version"
)

func main() {
	logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "airq-ctl",
	Short: "air-Q Device Control Utility",
	Long: `A standalone utility for air-Q air quality monitors.

Provides device discovery, encrypted telemetry access, a live terminal
dashboard, and direct configuration commands. All communication happens
over the local network using the device password.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("airq-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
