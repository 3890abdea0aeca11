// Emberon-mock is a local stand-in for the Emberon cloud API.
//
// It serves the same HTTP surface the client library talks to, backed by
// an in-memory fleet of simulated fireplaces. Any credentials are accepted
// and a fake token is issued, so emberon-ctl and the dashboard can be
// exercised end-to-end without real hardware or a real account.
//
// Usage:
//
//	emberon-mock serve [flags]
//
// See 'emberon-mock serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtollefsen/emberon/internal/mockcloud"
	"github.com/jtollefsen/emberon/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "emberon-mock",
	Short: "Emberon cloud API mock",
	Long: `A local mock of the Emberon cloud API for development and testing.

The mock keeps fireplace state in memory: parameter writes change it and
overview reads report it back as binary frames, so the full client stack
can be driven without a real account.

Point emberon-ctl at the mock with:

  export EMBERON_API_URL=http://localhost:8099`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host         string
	port         int
	logLevel     string
	fixturesPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock API server",
	Long: `Start the mock Emberon cloud API server.

The server starts with two built-in fireplaces, one online and one offline.
Use --fixtures to replace them with a fleet defined in a YAML file:

  fires:
    - serial: EF36-0042
      nickname: Living Room
      model: EF36-PRO
      firmware: 2.4.1
    - serial: EF50-0901
      model: EF50
      online: false
      fault: 1

Login accepts any email and password. Run with --log-level debug to get a
hex dump of every parameter frame crossing the wire.`,
	Example: `  # Start the mock on the default port
  emberon-mock serve

  # Custom port with frame-level logging
  emberon-mock serve --port 9000 --log-level debug

  # Replace the built-in fleet with fixtures
  emberon-mock serve --fixtures ./fires.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8099, "Listen port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&fixturesPath, "fixtures", "", "YAML file defining the simulated fleet (optional)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	if fixturesPath != "" {
		info, err := os.Stat(fixturesPath)
		if os.IsNotExist(err) {
			return fmt.Errorf("fixtures file not found: %s", fixturesPath)
		}
		if err != nil {
			return fmt.Errorf("cannot access fixtures file: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("fixtures path is a directory: %s", fixturesPath)
		}
	}

	config := &mockcloud.Config{
		Host:         host,
		Port:         port,
		LogLevel:     logLevel,
		FixturesPath: fixturesPath,
	}

	srv, err := mockcloud.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("emberon-mock %s (commit: %s)\n", version.Version, version.Commit)
	},
}
