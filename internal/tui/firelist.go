package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jtollefsen/emberon/internal/config"
	"github.com/jtollefsen/emberon/pkg/cloud"
)

// requestTimeout bounds every API call issued from the TUI.
const requestTimeout = 15 * time.Second

// firesLoadedMsg carries the result of the account listing request
type firesLoadedMsg struct {
	fires []cloud.Fire
	err   error
}

// fireListKeyMap defines key bindings for the picker screen
type fireListKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k fireListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Reload, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k fireListKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Reload, k.Quit},
	}
}

// loadingKeyMap defines key bindings while the listing request is in flight
type loadingKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (l loadingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{l.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (l loadingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{l.Quit},
	}
}

// fireItem wraps a Fire for use with bubbles/list
type fireItem struct {
	fire  cloud.Fire
	label string
}

// Implement list.Item interface
func (f fireItem) FilterValue() string {
	return f.fire.Serial + " " + f.fire.Nickname + " " + f.fire.Model
}

// Title returns the fireplace name for list display
func (f fireItem) Title() string {
	return f.label
}

// Description returns fireplace details for list display
func (f fireItem) Description() string {
	return fmt.Sprintf("%s • %s • FW %s", f.fire.Serial, f.fire.Model, f.fire.Firmware)
}

// fireDelegate is a custom list delegate for rendering fireplace cards
type fireDelegate struct {
	width int
}

func (d fireDelegate) Height() int { return 8 } // Card height including borders

func (d fireDelegate) Spacing() int { return 1 } // Spacing between cards

func (d fireDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d fireDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	fi, ok := item.(fireItem)
	if !ok {
		return
	}

	fire := fi.fire
	selected := index == m.Index()

	var content strings.Builder

	// Add selection indicator to the fireplace name
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + fi.label))
	} else {
		content.WriteString("  " + fi.label)
	}
	content.WriteString("\n\n")

	// Fireplace details
	content.WriteString(fmt.Sprintf("  Serial:   %s\n", fire.Serial))
	content.WriteString(fmt.Sprintf("  Model:    %s\n", fire.Model))
	content.WriteString(fmt.Sprintf("  Firmware: %s\n", fire.Firmware))

	// Online status with inline color styling
	statusStyle := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	statusWord := "Online"
	if !fire.Online {
		statusStyle = lipgloss.NewStyle().Foreground(SubtleColor)
		statusWord = "Offline"
	}
	content.WriteString(fmt.Sprintf("  Status:   %s", statusStyle.Render(statusWord)))

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2).
		MarginLeft(2)

	// Calculate card width (leave room for margins and borders)
	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle = cardStyle.Width(cardWidth)

	// Highlight selected card
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// FireListModel represents the fireplace picker screen state
type FireListModel struct {
	// Listing state
	Loading  bool
	FireList list.Model
	Selected bool
	Err      error

	// Shared state
	Client   *cloud.Client
	Registry *config.Registry

	// UI state
	Width       int
	Height      int
	Help        help.Model
	Keys        fireListKeyMap
	LoadingKeys loadingKeyMap
}

// NewFireListModel creates a new picker screen model
func NewFireListModel(client *cloud.Client, reg *config.Registry) FireListModel {
	delegate := fireDelegate{width: MinTerminalWidth}
	fireList := list.New([]list.Item{}, delegate, 0, 0)
	fireList.Title = "Your Fireplaces"
	fireList.SetShowStatusBar(false)
	fireList.SetFilteringEnabled(true)
	fireList.Styles.Title = TitleStyle

	h := help.New()

	keys := fireListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	loadingKeys := loadingKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}

	return FireListModel{
		Loading:     true,
		FireList:    fireList,
		Selected:    false,
		Client:      client,
		Registry:    reg,
		Help:        h,
		Keys:        keys,
		LoadingKeys: loadingKeys,
	}
}

// SetSize records the terminal dimensions and resizes the embedded list
func (m *FireListModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	m.FireList.SetWidth(width - 4)
	m.FireList.SetHeight(height - 10) // Leave room for header/footer
}

// Init initializes the picker model
func (m FireListModel) Init() tea.Cmd {
	return loadFiresCmd(m.Client)
}

// Update handles messages and updates the model
func (m FireListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.Loading {
			return m.updateNormalMode(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case firesLoadedMsg:
		m.Loading = false
		m.Err = msg.err
		m.rememberFires(msg.fires)

		items := make([]list.Item, len(msg.fires))
		for i, fire := range msg.fires {
			items[i] = fireItem{fire: fire, label: m.fireLabel(fire)}
		}
		m.FireList.SetItems(items)
	}

	if !m.Loading {
		m.FireList, cmd = m.FireList.Update(msg)
	}

	return m, cmd
}

// updateNormalMode handles keyboard input once the listing has loaded
func (m FireListModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter input is open every key belongs to the list
	if m.Filtering() {
		var cmd tea.Cmd
		m.FireList, cmd = m.FireList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter", " ":
		if selectedItem := m.FireList.SelectedItem(); selectedItem != nil {
			m.Selected = true
			return m, nil
		}

	case "r":
		// Reload the account listing
		m.FireList.SetItems([]list.Item{})
		m.Err = nil
		m.Loading = true
		return m, loadFiresCmd(m.Client)
	}

	// Let the list handle up/down navigation
	var cmd tea.Cmd
	m.FireList, cmd = m.FireList.Update(msg)
	return m, cmd
}

// Filtering reports whether the list's filter input is capturing keys
func (m FireListModel) Filtering() bool {
	return m.FireList.FilterState() == list.Filtering
}

// View renders the picker screen
func (m FireListModel) View() string {
	var content string
	if m.Loading {
		content = m.renderLoading()
	} else {
		content = m.renderResults()
	}

	var helpText string
	if m.Loading {
		helpText = m.Help.View(m.LoadingKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderLoading renders the waiting state of the listing request
func (m FireListModel) renderLoading() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render("LOADING FIREPLACES"),
		"",
		SubtitleStyle.Render("Contacting the Emberon cloud..."),
		"",
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderResults renders the fireplace list or an error/empty message
func (m FireListModel) renderResults() string {
	var b strings.Builder

	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(RenderError(fmt.Sprintf("Listing failed: %s", cloud.GetShortErrorMessage(m.Err))))
		b.WriteString("\n\n")
		b.WriteString(indentBlock(cloud.GetTroubleshootingHint(m.Err), "  "))
		b.WriteString("\n")
		b.WriteString("\n  Press 'r' to retry.\n")

	} else if len(m.FireList.Items()) == 0 {
		b.WriteString("  ")
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString(warningStyle.Render("⚠ No fireplaces on this account"))
		b.WriteString("\n\n")

		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Register the fireplace in the Emberon mobile app first\n")
		b.WriteString("    • Make sure you logged in with the account the app uses\n")
		b.WriteString("    • Press 'r' to reload the listing\n")
		b.WriteString("\n")

	} else {
		b.WriteString(m.FireList.View())
	}

	return b.String()
}

// SelectedSerial returns the serial of the picked fireplace (if any)
func (m FireListModel) SelectedSerial() string {
	if m.Selected {
		if selectedItem := m.FireList.SelectedItem(); selectedItem != nil {
			if item, ok := selectedItem.(fireItem); ok {
				return item.fire.Serial
			}
		}
	}
	return ""
}

// fireLabel prefers the registry label so renames made in the CLI show up
func (m FireListModel) fireLabel(fire cloud.Fire) string {
	if m.Registry != nil {
		if known := m.Registry.GetFire(fire.Serial); known != nil && known.Nickname != "" {
			return known.Nickname
		}
	}
	return fire.Label()
}

// rememberFires records the listing in the registry. Failures are ignored:
// the picker still works from the live listing.
func (m FireListModel) rememberFires(fires []cloud.Fire) {
	if m.Registry == nil || len(fires) == 0 {
		return
	}
	for _, fire := range fires {
		m.Registry.RememberFire(fire.Serial, fire.Nickname, fire.Model)
	}
	_ = m.Registry.Save()
}

// indentBlock prefixes every line of a multi-line block
func indentBlock(block, prefix string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// loadFiresCmd is a command that lists the fireplaces on the account
func loadFiresCmd(client *cloud.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		fires, err := client.ListFires(ctx)
		return firesLoadedMsg{
			fires: fires,
			err:   err,
		}
	}
}
