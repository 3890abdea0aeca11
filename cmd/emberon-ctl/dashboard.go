package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jtollefsen/emberon/internal/config"
	"github.com/jtollefsen/emberon/internal/tui"
)

// dashboardCmd launches the interactive terminal dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long: `Open an interactive terminal dashboard for a fireplace.

The dashboard shows the decoded state and lets you switch power, adjust
the setpoint and refresh without leaving the terminal. With no default
fireplace configured it starts with a picker listing the account.`,
	Example: `  # Dashboard for the default fireplace
  emberon-ctl dashboard
  # Or simply (dashboard is the default command):
  emberon-ctl

  # Dashboard for a specific fireplace
  emberon-ctl dashboard --fire EF36-0042`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	// A known target goes straight to the dashboard; otherwise start with
	// the picker, which loads the account's fireplaces.
	serial := fireSerial
	if serial == "" {
		serial = reg.DefaultFire()
	}
	start := tui.ScreenFireList
	if serial != "" {
		start = tui.ScreenDashboard
	}

	model := tui.NewAppModel(start, client, reg, serial)

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	return nil
}
