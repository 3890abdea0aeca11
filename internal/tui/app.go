package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jtollefsen/emberon/internal/config"
	"github.com/jtollefsen/emberon/pkg/cloud"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenFireList  Screen = "firelist"
	ScreenDashboard Screen = "dashboard"
)

// screenTransitionMsg switches the active screen
type screenTransitionMsg struct {
	screen Screen
	serial string
}

type goBackMsg struct{}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen Screen

	// Screen models
	FireListModel  FireListModel
	DashboardModel DashboardModel

	// Shared application state
	Client   *cloud.Client
	Registry *config.Registry
	Serial   string

	// UI state
	Width  int
	Height int
}

// NewAppModel creates a new application model starting at the specified
// screen. serial is only used when starting at the dashboard.
func NewAppModel(startScreen Screen, client *cloud.Client, reg *config.Registry, serial string) AppModel {
	model := AppModel{
		CurrentScreen: startScreen,
		Client:        client,
		Registry:      reg,
		Serial:        serial,
	}

	switch startScreen {
	case ScreenFireList:
		model.FireListModel = NewFireListModel(client, reg)
	case ScreenDashboard:
		model.DashboardModel = NewDashboardModel(client, reg, serial)
	}

	return model
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenFireList:
		return m.FireListModel.Init()
	case ScreenDashboard:
		return m.DashboardModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to both screens, then let the active one react too
		m.FireListModel.SetSize(msg.Width, msg.Height)
		m.DashboardModel.Width = msg.Width
		m.DashboardModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case screenTransitionMsg:
		return m.transitionTo(msg.screen, msg.serial)

	case goBackMsg:
		return m.goBack()
	}

	// Route to current screen
	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenFireList:
		// The key belongs to the filter input when it was open before this
		// message, including the esc that closes it
		filtering := m.FireListModel.Filtering()

		updated, c := m.FireListModel.Update(msg)
		m.FireListModel = updated.(FireListModel)
		cmd = c

		// Check if user picked a fireplace
		if m.FireListModel.Selected {
			if serial := m.FireListModel.SelectedSerial(); serial != "" {
				m.Serial = serial
				return m.transitionTo(ScreenDashboard, serial)
			}
		}

		// Check for quit (not while the listing request is in flight)
		if !m.FireListModel.Loading && !filtering {
			if keyMsg, ok := msg.(tea.KeyMsg); ok {
				if keyMsg.String() == "q" || keyMsg.String() == "esc" {
					return m, tea.Quit
				}
			}
		}

	case ScreenDashboard:
		updated, c := m.DashboardModel.Update(msg)
		m.DashboardModel = updated.(DashboardModel)
		cmd = c

		// Check if user wants to go back to the picker
		if m.DashboardModel.IsBackRequested() {
			return m.goBack()
		}
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen, serial string) (tea.Model, tea.Cmd) {
	m.CurrentScreen = screen

	var cmd tea.Cmd

	switch screen {
	case ScreenFireList:
		m.FireListModel = NewFireListModel(m.Client, m.Registry)
		m.FireListModel.SetSize(m.Width, m.Height)
		cmd = m.FireListModel.Init()

	case ScreenDashboard:
		m.DashboardModel = NewDashboardModel(m.Client, m.Registry, serial)
		m.DashboardModel.Width = m.Width
		m.DashboardModel.Height = m.Height
		cmd = m.DashboardModel.Init()
	}

	return m, cmd
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenFireList:
		// Can't go back from the picker - quit instead
		return m, tea.Quit

	case ScreenDashboard:
		// Go back to the picker
		return m.transitionTo(ScreenFireList, "")

	default:
		return m, tea.Quit
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenFireList:
		return m.FireListModel.View()
	case ScreenDashboard:
		return m.DashboardModel.View()
	default:
		return "Unknown screen"
	}
}
