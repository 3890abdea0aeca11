// emberon-ctl is a command-line tool for controlling Emberon EF-series
// smart electric fireplaces through the Emberon cloud API.
//
// It supports listing the fireplaces on an account, reading their decoded
// state, writing operating mode, setpoint, flame, color, timer and light
// parameters, and an interactive terminal dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtollefsen/emberon/internal/logging"
	"github.com/jtollefsen/emberon/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "emberon-ctl",
	Short: "Control Emberon smart fireplaces from the terminal",
	Long: `emberon-ctl controls Emberon EF-series smart electric fireplaces
through the Emberon cloud API.

Authenticate once with 'emberon-ctl login' and export the printed token
as EMBERON_TOKEN. All other commands read the token from the environment;
it is never written to disk.

Running emberon-ctl with no subcommand opens the interactive dashboard.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	RunE: runDashboard,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("emberon-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
