// Package tui implements the interactive terminal dashboard for Emberon fireplaces.
//
// This package provides a full-screen TUI for picking a fireplace from the
// account and monitoring and controlling it live. Built using the Bubble Tea
// framework, it follows the Elm architecture with immutable state updates and
// a clean Model-Update-View pattern.
//
// # Architecture
//
// The TUI is organized into two screens:
//   - Fire list: Pick a fireplace from the account
//   - Dashboard: View reported state and send basic controls
//
// Both screens use a unified container pattern (RenderApplicationContainer)
// for consistent layout with header, content area, and context-sensitive
// footer.
//
// # Framework Components
//
// The TUI leverages Bubble Tea framework components throughout:
//   - bubbles/list: Fireplace cards with filtering
//   - bubbles/help: Context-aware help system
//   - bubbles/key: Declarative key bindings
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	// Create and run the dashboard
//	app := tui.NewAppModel(tui.ScreenFireList, client, registry, "")
//	program := tea.NewProgram(app)
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Screen Flow
//
// The typical flow through the dashboard:
//
//  1. Fire List Screen:
//     - Fetches the account's fireplaces from the cloud
//     - Displays them as cards with serial, model, firmware and reachability
//     - Remembers serials and nicknames in the local registry
//     - User selects a fireplace to open
//
//  2. Dashboard Screen:
//     - Fetches the fireplace overview (decoded parameter frames)
//     - Displays one line per reported parameter: mode, flame effect,
//       heat setpoint, timer, color, accent light, firmware, faults
//     - Power toggle and setpoint adjustment with explicit apply
//     - Every write is followed by a fresh overview fetch so the screen
//       shows what the appliance actually stored
//     - ESC returns to the fire list
//
// When the caller already knows which fireplace to open (a --fire flag or a
// configured default), the app starts directly on the dashboard screen.
//
// # Key Bindings
//
// Each screen has context-aware key bindings:
//   - Fire list: ↑/↓ navigate, Enter select, r reload, q quit
//   - Dashboard: r refresh, p power, +/- adjust setpoint, Enter apply,
//     u toggle °C/°F, ESC back, q quit
//
// Help text automatically updates based on screen state (e.g., while the
// fireplace list is loading).
//
// # Styling
//
// All styling uses lipgloss for consistency:
//   - Color palette: Ember orange highlights, amber accents, green success,
//     red errors
//   - Borders: Rounded borders for cards and the outer container
//   - Layout: Flexbox-style alignment and centering
//
// # State Management
//
// The TUI maintains immutable state with explicit updates:
//   - Models contain all state (no global variables)
//   - Update() returns new model + commands
//   - View() is pure function of model state
//   - Commands represent async cloud calls
//
// # Error Handling
//
// Cloud failures surface as short, user-friendly messages with a retry key,
// using the same error classification the CLI commands use. Requests carry a
// timeout so a dead connection never hangs the screen.
//
// # Thread Safety
//
// The Bubble Tea framework ensures thread safety through message passing.
// All model updates occur in a single goroutine, preventing race conditions.
package tui
