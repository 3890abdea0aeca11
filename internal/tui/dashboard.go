package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jtollefsen/emberon/internal/config"
	"github.com/jtollefsen/emberon/internal/display"
	"github.com/jtollefsen/emberon/pkg/brasa"
	"github.com/jtollefsen/emberon/pkg/cloud"
)

// setpointStep is one +/- keypress in wire units (0.5°C).
const setpointStep = 5

// Message types for async operations
type overviewMsg struct {
	overview *cloud.Overview
	err      error
}

type writeDoneMsg struct {
	action   string
	overview *cloud.Overview
	err      error
}

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Refresh key.Binding
	Power   key.Binding
	Warmer  key.Binding
	Cooler  key.Binding
	Apply   key.Binding
	Unit    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Power, k.Warmer, k.Cooler, k.Apply, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Power, k.Unit},
		{k.Warmer, k.Cooler, k.Apply},
		{k.Back, k.Quit},
	}
}

// DashboardModel represents the fireplace status screen
type DashboardModel struct {
	// Shared state
	Client   *cloud.Client
	Registry *config.Registry
	Serial   string

	// Fireplace state
	Overview *cloud.Overview
	Err      error

	// In-flight operations
	Loading bool // overview fetch in flight
	Writing bool // parameter write in flight

	// PendingSetpoint accumulates +/- presses until applied with enter.
	// nil means no pending edit.
	PendingSetpoint *brasa.Temperature

	// LastAction is the feedback line after a completed write
	LastAction string

	// Presentation
	Unit display.Unit

	// UI state
	Width  int
	Height int

	// Navigation results
	BackRequested bool

	// Help
	Help help.Model
	Keys dashboardKeyMap
}

// NewDashboardModel creates a dashboard for one fireplace
func NewDashboardModel(client *cloud.Client, reg *config.Registry, serial string) DashboardModel {
	unit := display.UnitCelsius
	if reg != nil {
		if parsed, err := display.ParseUnit(reg.TemperatureUnit()); err == nil {
			unit = parsed
		}
	}

	h := help.New()

	keys := dashboardKeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Power: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "power"),
		),
		Warmer: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "warmer"),
		),
		Cooler: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "cooler"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Unit: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "°C/°F"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return DashboardModel{
		Client:   client,
		Registry: reg,
		Serial:   serial,
		Loading:  true,
		Unit:     unit,
		Help:     h,
		Keys:     keys,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return fetchOverviewCmd(m.Client, m.Serial)
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case overviewMsg:
		m.Loading = false
		m.Err = msg.err
		if msg.err == nil {
			m.Overview = msg.overview
		}

	case writeDoneMsg:
		m.Writing = false
		m.Err = msg.err
		if msg.err == nil {
			m.Overview = msg.overview
			m.LastAction = "✓ " + msg.action
			m.PendingSetpoint = nil
		}

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

// updateKeys handles keyboard input
func (m DashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		// Cancel a pending edit first; a second esc goes back
		if m.PendingSetpoint != nil {
			m.PendingSetpoint = nil
			return m, nil
		}
		m.BackRequested = true
		return m, nil

	case "r":
		if m.Loading || m.Writing {
			return m, nil
		}
		m.Loading = true
		m.LastAction = ""
		m.Err = nil
		return m, fetchOverviewCmd(m.Client, m.Serial)

	case "p":
		return m.togglePower()

	case "+", "=":
		m.stepSetpoint(setpointStep)
		return m, nil

	case "-":
		m.stepSetpoint(-setpointStep)
		return m, nil

	case "enter":
		return m.applySetpoint()

	case "u":
		return m.toggleUnit()
	}

	return m, nil
}

// togglePower switches the fireplace between on and standby
func (m DashboardModel) togglePower() (tea.Model, tea.Cmd) {
	if m.Overview == nil || m.Overview.Mode == nil || m.Writing || m.Loading {
		return m, nil
	}

	m.Writing = true
	m.LastAction = ""
	m.Err = nil

	client, serial := m.Client, m.Serial
	if m.Overview.Mode.Mode == brasa.ModeStandby {
		return m, writeParamCmd(client, serial, "turned on", func(ctx context.Context) error {
			return client.TurnOn(ctx, serial)
		})
	}
	return m, writeParamCmd(client, serial, "switched to standby", func(ctx context.Context) error {
		return client.TurnOff(ctx, serial)
	})
}

// stepSetpoint adjusts the pending target temperature by delta wire units,
// clamped to the supported setpoint span
func (m *DashboardModel) stepSetpoint(delta int) {
	current := m.currentSetpoint()
	if m.PendingSetpoint != nil {
		current = *m.PendingSetpoint
	}

	next := int(current) + delta
	if next < int(brasa.MinSetpoint) {
		next = int(brasa.MinSetpoint)
	}
	if next > int(brasa.MaxSetpoint) {
		next = int(brasa.MaxSetpoint)
	}

	target := brasa.Temperature(next)
	m.PendingSetpoint = &target
}

// currentSetpoint returns the unit's reported target, or a sane default
func (m DashboardModel) currentSetpoint() brasa.Temperature {
	if m.Overview != nil && m.Overview.Setpoint != nil {
		return m.Overview.Setpoint.Setpoint
	}
	return brasa.Temperature(220) // 22.0°C
}

// applySetpoint writes the pending target temperature
func (m DashboardModel) applySetpoint() (tea.Model, tea.Cmd) {
	if m.PendingSetpoint == nil || m.Writing || m.Loading {
		return m, nil
	}

	heat := brasa.HeatAuto
	if m.Overview != nil && m.Overview.Setpoint != nil {
		heat = m.Overview.Setpoint.HeatMode
	}

	target := *m.PendingSetpoint
	m.Writing = true
	m.LastAction = ""
	m.Err = nil

	client, serial := m.Client, m.Serial
	action := fmt.Sprintf("setpoint %s", display.FormatTemperature(target, m.Unit))
	return m, writeParamCmd(client, serial, action, func(ctx context.Context) error {
		return client.SetSetpoint(ctx, serial, heat, target)
	})
}

// toggleUnit flips the presentation unit and persists the preference
func (m DashboardModel) toggleUnit() (tea.Model, tea.Cmd) {
	if m.Unit == display.UnitCelsius {
		m.Unit = display.UnitFahrenheit
	} else {
		m.Unit = display.UnitCelsius
	}

	if m.Registry != nil {
		m.Registry.SetTemperatureUnit(string(m.Unit))
		_ = m.Registry.Save()
	}

	return m, nil
}

// IsBackRequested returns whether the user asked to return to the picker
func (m DashboardModel) IsBackRequested() bool {
	return m.BackRequested
}

// View renders the dashboard screen
func (m DashboardModel) View() string {
	content := m.renderContent()
	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderContent renders the main dashboard content (without container)
func (m DashboardModel) renderContent() string {
	info := fmt.Sprintf("Fireplace: %s", m.label())
	if m.label() != m.Serial {
		info += fmt.Sprintf(" • %s", m.Serial)
	}
	if m.Overview != nil && m.Overview.Firmware != nil {
		info += fmt.Sprintf(" • FW %s", m.Overview.Firmware.Version())
	}
	infoLine := lipgloss.NewStyle().Foreground(TextColor).Render(info)

	statusLine := m.renderStatusLine()

	divider := lipgloss.NewStyle().
		Foreground(BorderColor).
		Render(strings.Repeat("─", 60))

	var body string
	switch {
	case m.Overview != nil:
		body = strings.Join(m.renderStateLines(), "\n")
	case m.Loading:
		body = SubtitleStyle.Render("  Fetching state...")
	default:
		body = SubtitleStyle.Render("  No state available. Press 'r' to retry.")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		infoLine,
		statusLine,
		divider,
		"",
		body,
	)
}

// renderStatusLine renders the one-line operation status under the header
func (m DashboardModel) renderStatusLine() string {
	switch {
	case m.Writing:
		return SubtitleStyle.Render("Applying change...")
	case m.Loading:
		return SubtitleStyle.Render("Refreshing...")
	case m.Err != nil:
		errStyle := lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
		return errStyle.Render("✗ " + cloud.GetShortErrorMessage(m.Err))
	case m.LastAction != "":
		okStyle := lipgloss.NewStyle().Foreground(SecondaryColor)
		return okStyle.Render(m.LastAction)
	default:
		return ""
	}
}

// renderStateLines renders one aligned line per reported parameter
func (m DashboardModel) renderStateLines() []string {
	o := m.Overview
	labelStyle := lipgloss.NewStyle().Width(11).Foreground(SubtleColor)

	var lines []string
	field := func(label, value string) {
		lines = append(lines, "  "+labelStyle.Render(label)+value)
	}

	if o.Mode != nil {
		style := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
		if o.Mode.Mode == brasa.ModeStandby {
			style = lipgloss.NewStyle().Foreground(SubtleColor)
		}
		field("Mode", style.Render(o.Mode.Mode.String()))
	}

	if o.Flame != nil {
		field("Flame", o.Flame.Effect.String())
	}

	if o.Setpoint != nil || m.PendingSetpoint != nil {
		value := ""
		if o.Setpoint != nil {
			value = display.FormatSetpoint(*o.Setpoint, m.Unit)
		}
		if m.PendingSetpoint != nil {
			pendingStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
			value += pendingStyle.Render(fmt.Sprintf("  → %s (enter to apply)",
				display.FormatTemperature(*m.PendingSetpoint, m.Unit)))
		}
		field("Heat", value)
	}

	if o.Timer != nil {
		field("Timer", display.FormatTimer(*o.Timer))
	}

	if o.Color != nil {
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(display.ColorRGBHex(*o.Color))).
			Render("██")
		field("Color", fmt.Sprintf("%s %s", swatch, display.ColorHex(*o.Color)))
	}

	if o.Light != nil {
		field("Light", display.FormatLight(*o.Light))
	}

	if o.Fault != nil {
		if o.Fault.Code == brasa.FaultNone {
			field("Fault", "none")
		} else {
			faultStyle := lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
			field("Fault", faultStyle.Render(fmt.Sprintf("⚠ %s", o.Fault.Code)))
		}
	}

	for _, u := range o.Unknown {
		field("Unknown", fmt.Sprintf("tag 0x%02x, %d byte(s)", uint8(u.RawTag), len(u.Data)))
	}

	if !o.FetchedAt.IsZero() {
		lines = append(lines, "")
		lines = append(lines, SubtitleStyle.Render(
			fmt.Sprintf("  Fetched at %s", o.FetchedAt.Local().Format("15:04:05"))))
	}

	return lines
}

// label resolves the display name for the fireplace
func (m DashboardModel) label() string {
	if m.Registry != nil {
		return m.Registry.Label(m.Serial)
	}
	return m.Serial
}

// fetchOverviewCmd is a command that fetches and decodes the overview
func fetchOverviewCmd(client *cloud.Client, serial string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		overview, err := client.GetOverview(ctx, serial)
		return overviewMsg{overview: overview, err: err}
	}
}

// writeParamCmd performs one parameter write, then re-fetches the overview
// so the screen reflects what the unit actually stored
func writeParamCmd(client *cloud.Client, serial string, action string, write func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := write(ctx); err != nil {
			return writeDoneMsg{action: action, err: err}
		}

		overview, err := client.GetOverview(ctx, serial)
		return writeDoneMsg{action: action, overview: overview, err: err}
	}
}
