package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/term"

	"github.com/jtollefsen/emberon/internal/config"
	"github.com/jtollefsen/emberon/internal/display"
	"github.com/jtollefsen/emberon/internal/logging"
	"github.com/jtollefsen/emberon/internal/urls"
	"github.com/jtollefsen/emberon/pkg/brasa"
	"github.com/jtollefsen/emberon/pkg/cloud"
)

// Environment variables read by the CLI
const (
	tokenEnvVar    = "EMBERON_TOKEN"
	emailEnvVar    = "EMBERON_EMAIL"
	passwordEnvVar = "EMBERON_PASSWORD"
	apiURLEnvVar   = "EMBERON_API_URL"
)

// Command flags
var (
	fireSerial string
	apiURL     string
	jsonOutput bool
	heatMode   string
)

func init() {
	// Common flags for fireplace commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&fireSerial, "fire", "", "Fireplace serial number (overrides the registry default)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Cloud API base URL (overrides EMBERON_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output where supported (fires, status)")

	// Add subcommands directly to root
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(firesCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(setTempCmd)
	rootCmd.AddCommand(setFlameCmd)
	rootCmd.AddCommand(setTimerCmd)
	rootCmd.AddCommand(setColorCmd)
	rootCmd.AddCommand(setLightCmd)
}

// loginCmd authenticates against the cloud and prints an API token
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Emberon cloud and print an API token",
	Long: `Log in with your Emberon account and print an API token.

The token is printed once and never written to disk. Export it as
EMBERON_TOKEN so the other commands can use it.

For non-interactive use, set EMBERON_EMAIL and EMBERON_PASSWORD before
running login.`,
	Example: `  # Interactive login
  emberon-ctl login

  # Non-interactive login (CI, scripts)
  EMBERON_EMAIL=me@example.com EMBERON_PASSWORD=secret emberon-ctl login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := os.Getenv(emailEnvVar)
	if email == "" {
		fmt.Print("Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	password := os.Getenv(passwordEnvVar)
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	client, err := cloud.Login(cmd.Context(), email, password, clientOptions()...)
	if err != nil {
		return cliError("login failed", err)
	}

	tok, err := client.Token()
	if err != nil {
		return fmt.Errorf("login succeeded but token is unavailable: %w", err)
	}

	fmt.Println("\n✓ Logged in successfully")
	fmt.Println("\nExport the token so other commands can use it:")
	fmt.Printf("\n  export %s=%s\n", tokenEnvVar, tok.AccessToken)
	if !tok.Expiry.IsZero() {
		fmt.Printf("\nThe token expires %s. Run login again after that.\n",
			tok.Expiry.Local().Format(time.RFC1123))
	}
	fmt.Printf("\nToken handling guide: %s\n", urls.Authentication)

	return nil
}

// firesCmd lists the fireplaces registered on the account
var firesCmd = &cobra.Command{
	Use:   "fires",
	Short: "List the fireplaces on your account",
	Long: `List all fireplaces registered to your Emberon account.

The serials, nicknames and models are remembered in the local registry so
later commands can resolve fireplaces without hitting the API.`,
	Example: `  # Human-readable list
  emberon-ctl fires

  # JSON output for scripting
  emberon-ctl fires --json`,
	Args: cobra.NoArgs,
	RunE: runFires,
}

func runFires(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	fires, err := client.ListFires(cmd.Context())
	if err != nil {
		return cliError("failed to list fireplaces", err)
	}

	rememberFires(fires)

	if jsonOutput {
		data, err := json.MarshalIndent(fires, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(fires) == 0 {
		fmt.Println("No fireplaces on this account.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Register the fireplace in the Emberon mobile app first")
		fmt.Println("  - Make sure you logged in with the account the app uses")
		fmt.Printf("  - Pairing guide: %s\n", urls.GettingStarted)
		return nil
	}

	fmt.Printf("Found %d fireplace(s):\n\n", len(fires))

	for i, fire := range fires {
		fmt.Printf("%d. %s\n", i+1, fire.Label())
		fmt.Printf("   Serial:   %s\n", fire.Serial)
		fmt.Printf("   Model:    %s\n", fire.Model)
		fmt.Printf("   Firmware: %s\n", fire.Firmware)
		fmt.Printf("   Status:   %s\n", onlineWord(fire.Online))
		fmt.Println()
	}

	fmt.Println("Use 'emberon-ctl use <serial>' to set the default fireplace")
	fmt.Println("Use 'emberon-ctl status' to view its current state")

	return nil
}

// useCmd sets the default fireplace in the registry
var useCmd = &cobra.Command{
	Use:   "use <serial>",
	Short: "Set the default fireplace",
	Long: `Set the fireplace that commands operate on when --fire is not given.

The choice is stored in the local registry.`,
	Example: `  emberon-ctl use EF36-0042`,
	Args:    cobra.ExactArgs(1),
	RunE:    runUse,
}

func runUse(cmd *cobra.Command, args []string) error {
	serial := args[0]

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	known := reg.GetFire(serial) != nil
	reg.EnsureFire(serial)
	reg.SetDefaultFire(serial)

	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Printf("✓ Default fireplace is now %s\n", reg.Label(serial))
	if !known {
		fmt.Println("\nThis serial is not in the local registry yet.")
		fmt.Println("Run 'emberon-ctl fires' to fetch its nickname and model.")
	}

	return nil
}

// statusCmd fetches and prints the decoded state of a fireplace
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current state of a fireplace",
	Long: `Fetch the overview of a fireplace and print its decoded parameters:
operating mode, flame effect, heat setpoint, timer, color, accent light,
firmware version and fault state.`,
	Example: `  # Status of the default fireplace
  emberon-ctl status

  # Status of a specific fireplace
  emberon-ctl status --fire EF36-0042

  # Raw decoded values for scripting
  emberon-ctl status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, serial, err := clientAndFire()
	if err != nil {
		return err
	}

	overview, err := client.GetOverview(cmd.Context(), serial)
	if err != nil {
		return cliError("failed to fetch status", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(overview, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(display.FormatOverview(overview, fireLabel(serial), currentUnit()))

	return nil
}

// onCmd turns a fireplace on
var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the fireplace on",
	Long: `Switch the fireplace to the on operating mode. The flame comes on
and the heater runs per the stored setpoint.`,
	Example: `  emberon-ctl on
  emberon-ctl on --fire EF36-0042`,
	Args: cobra.NoArgs,
	RunE: runOn,
}

func runOn(cmd *cobra.Command, args []string) error {
	client, serial, err := clientAndFire()
	if err != nil {
		return err
	}

	if err := client.TurnOn(cmd.Context(), serial); err != nil {
		return cliError("failed to turn on", err)
	}

	fmt.Printf("✓ %s is now on\n", fireLabel(serial))
	return nil
}

// offCmd puts a fireplace in standby
var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Put the fireplace in standby",
	Long: `Switch the fireplace to standby. Flame and heater turn off; the unit
stays reachable through the cloud.`,
	Example: `  emberon-ctl off
  emberon-ctl off --fire EF36-0042`,
	Args: cobra.NoArgs,
	RunE: runOff,
}

func runOff(cmd *cobra.Command, args []string) error {
	client, serial, err := clientAndFire()
	if err != nil {
		return err
	}

	if err := client.TurnOff(cmd.Context(), serial); err != nil {
		return cliError("failed to turn off", err)
	}

	fmt.Printf("✓ %s is now in standby\n", fireLabel(serial))
	return nil
}

// setTempCmd writes the heat setpoint
var setTempCmd = &cobra.Command{
	Use:   "set-temp <temperature>",
	Short: "Set the heater target temperature",
	Long: `Set the heat mode and target room temperature.

The temperature is read in the unit configured in the registry (celsius
unless changed) and converted to the wire format. The EF series accepts
targets between 10.0°C and 32.0°C (50-90°F).`,
	Example: `  # Thermostat mode targeting 22.5 degrees
  emberon-ctl set-temp 22.5

  # Continuous low heat (target still stored for later auto use)
  emberon-ctl set-temp 21 --heat low`,
	Args: cobra.ExactArgs(1),
	RunE: runSetTemp,
}

func init() {
	setTempCmd.Flags().StringVar(&heatMode, "heat", "auto", "Heat mode (off, low, high, auto)")
}

func runSetTemp(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid temperature %q: %w", args[0], err)
	}

	heat, err := parseHeatMode(heatMode)
	if err != nil {
		return err
	}

	unit := currentUnit()
	celsius := value
	if unit == display.UnitFahrenheit {
		celsius = display.FahrenheitToCelsius(value)
	}
	target := brasa.TemperatureFromCelsius(celsius)

	client, serial, err := clientAndFire()
	if err != nil {
		return err
	}

	if err := client.SetSetpoint(cmd.Context(), serial, heat, target); err != nil {
		return cliError("failed to set temperature", err)
	}

	fmt.Printf("✓ %s: heat %s, target %s\n",
		fireLabel(serial), heat, display.FormatTemperature(target, unit))
	return nil
}

// setFlameCmd writes the flame effect
var setFlameCmd = &cobra.Command{
	Use:   "set-flame <effect>",
	Short: "Set the flame effect",
	Long:  `Set the LED flame bed render pattern: steady, natural, ember or wave.`,
	Example: `  emberon-ctl set-flame natural
  emberon-ctl set-flame ember --fire EF36-0042`,
	Args: cobra.ExactArgs(1),
	RunE: runSetFlame,
}

func runSetFlame(cmd *cobra.Command, args []string) error {
	effect, err := parseFlameEffect(args[0])
	if err != nil {
		return err
	}

	client, serial, err := clientAndFire()
	if err != nil {
		return err
	}

	if err := client.SetFlameEffect(cmd.Context(), serial, effect); err != nil {
		return cliError("failed to set flame effect", err)
	}

	fmt.Printf("✓ %s: flame effect %s\n", fireLabel(serial), effect)
	return nil
}

// setTimerCmd writes the shutdown timer
var setTimerCmd = &cobra.Command{
	Use:   "set-timer <minutes|off>",
	Short: "Set the shutdown timer",
	Long: `Set the shutdown timer in minutes, or disable it with 'off'.
When the timer reaches zero the fireplace drops to standby.`,
	Example: `  # Standby after 90 minutes
  emberon-ctl set-timer 90

  # Cancel the timer
  emberon-ctl set-timer off`,
	Args: cobra.ExactArgs(1),
	RunE: runSetTimer,
}

func runSetTimer(cmd *cobra.Command, args []string) error {
	enabled := false
	var minutes uint16

	if !strings.EqualFold(args[0], "off") {
		v, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid timer value %q (want minutes or 'off'): %w", args[0], err)
		}
		enabled = true
		minutes = uint16(v)
	}

	client, serial, err := clientAndFire()
	if err != nil {
		return err
	}

	if err := client.SetTimer(cmd.Context(), serial, enabled, minutes); err != nil {
		return cliError("failed to set timer", err)
	}

	if enabled {
		fmt.Printf("✓ %s: standby in %s\n",
			fireLabel(serial), display.FormatTimer(brasa.TimerParam{Enabled: true, Minutes: minutes}))
	} else {
		fmt.Printf("✓ %s: timer off\n", fireLabel(serial))
	}
	return nil
}

// setColorCmd writes the flame color
var setColorCmd = &cobra.Command{
	Use:   "set-color <R G B [W] | #RRGGBB[WW]>",
	Short: "Set the flame color",
	Long: `Set the flame bed color. Takes either decimal channel values (0-255)
or a hex color. The fourth channel drives the dedicated warm-white LEDs
and defaults to 0.`,
	Example: `  # Deep orange with some warm white
  emberon-ctl set-color 255 80 0 40

  # Same color in hex
  emberon-ctl set-color '#ff500028'`,
	Args: cobra.RangeArgs(1, 4),
	RunE: runSetColor,
}

func runSetColor(cmd *cobra.Command, args []string) error {
	r, g, b, w, err := parseColor(args)
	if err != nil {
		return err
	}

	client, serial, err := clientAndFire()
	if err != nil {
		return err
	}

	if err := client.SetColor(cmd.Context(), serial, r, g, b, w); err != nil {
		return cliError("failed to set color", err)
	}

	fmt.Printf("✓ %s: color %s\n",
		fireLabel(serial), display.ColorHex(brasa.ColorParam{R: r, G: g, B: b, W: w}))
	return nil
}

// setLightCmd writes the accent light configuration
var setLightCmd = &cobra.Command{
	Use:   "set-light <mode> [brightness]",
	Short: "Set the accent light",
	Long: `Set the accent light strip mode (off, ambient, accent) and brightness
(0-255, defaults to 255). Ambient follows the flame color; accent is an
independent warm white.`,
	Example: `  emberon-ctl set-light ambient 128
  emberon-ctl set-light off`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSetLight,
}

func runSetLight(cmd *cobra.Command, args []string) error {
	mode, err := parseLightMode(args[0])
	if err != nil {
		return err
	}

	brightness := uint8(255)
	if len(args) == 2 {
		v, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid brightness %q (want 0-255): %w", args[1], err)
		}
		brightness = uint8(v)
	}

	client, serial, err := clientAndFire()
	if err != nil {
		return err
	}

	if err := client.SetLight(cmd.Context(), serial, mode, brightness); err != nil {
		return cliError("failed to set light", err)
	}

	if mode == brasa.LightOff {
		fmt.Printf("✓ %s: accent light off\n", fireLabel(serial))
	} else {
		fmt.Printf("✓ %s: accent light %s, brightness %d\n", fireLabel(serial), mode, brightness)
	}
	return nil
}

// Helper functions

// newClient builds an API client from the environment token.
func newClient() (*cloud.Client, error) {
	token := os.Getenv(tokenEnvVar)
	if token == "" {
		return nil, fmt.Errorf("no API token found. Run 'emberon-ctl login' and export %s", tokenEnvVar)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return cloud.NewClient(ts, clientOptions()...), nil
}

// clientOptions collects the client options shared by all commands.
func clientOptions() []cloud.Option {
	opts := []cloud.Option{cloud.WithLogger(logging.GetLogger())}

	base := apiURL
	if base == "" {
		base = os.Getenv(apiURLEnvVar)
	}
	if base != "" {
		opts = append(opts, cloud.WithBaseURL(base))
	}

	return opts
}

// clientAndFire builds the client and resolves which fireplace to talk to.
func clientAndFire() (*cloud.Client, string, error) {
	client, err := newClient()
	if err != nil {
		return nil, "", err
	}

	serial, err := resolveFire()
	if err != nil {
		return nil, "", err
	}

	return client, serial, nil
}

// resolveFire picks the target fireplace: --fire flag, then the registry
// default, then a sole registered fireplace.
func resolveFire() (string, error) {
	if fireSerial != "" {
		return fireSerial, nil
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return "", fmt.Errorf("failed to load registry: %w", err)
	}

	if def := reg.DefaultFire(); def != "" {
		return def, nil
	}

	if len(reg.Fires) == 1 {
		for serial := range reg.Fires {
			return serial, nil
		}
	}

	if len(reg.Fires) == 0 {
		return "", fmt.Errorf("no fireplaces known yet. Run 'emberon-ctl fires', then pick one with 'emberon-ctl use <serial>' or --fire")
	}

	return "", fmt.Errorf("%d fireplaces registered and no default set. Use --fire <serial> or 'emberon-ctl use <serial>'", len(reg.Fires))
}

// rememberFires records listed fireplaces in the registry. Registry
// failures are logged, not fatal: listing still worked.
func rememberFires(fires []cloud.Fire) {
	reg, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("failed to load fireplace registry", zap.Error(err))
		return
	}

	for _, fire := range fires {
		reg.RememberFire(fire.Serial, fire.Nickname, fire.Model)
	}

	if err := reg.Save(); err != nil {
		logging.Warn("failed to save fireplace registry", zap.Error(err))
	}
}

// fireLabel returns the registry label for a serial, or the serial itself
// when the registry is unavailable.
func fireLabel(serial string) string {
	reg, err := config.LoadRegistry()
	if err != nil {
		return serial
	}
	return reg.Label(serial)
}

// currentUnit returns the configured temperature unit, defaulting to
// Celsius when the registry or preference is unusable.
func currentUnit() display.Unit {
	reg, err := config.LoadRegistry()
	if err != nil {
		return display.UnitCelsius
	}
	unit, err := display.ParseUnit(reg.TemperatureUnit())
	if err != nil {
		return display.UnitCelsius
	}
	return unit
}

// cliError folds an API failure into a one-line error and prints the
// matching troubleshooting hint to stderr.
func cliError(action string, err error) error {
	fmt.Fprintf(os.Stderr, "\n%s\n", cloud.GetTroubleshootingHint(err))
	fmt.Fprintf(os.Stderr, "More help: %s\n", urls.Troubleshooting)
	return fmt.Errorf("%s: %s", action, cloud.GetShortErrorMessage(err))
}

func onlineWord(online bool) string {
	if online {
		return "online"
	}
	return "offline"
}

func parseHeatMode(s string) (brasa.HeatMode, error) {
	switch strings.ToLower(s) {
	case "off":
		return brasa.HeatOff, nil
	case "low":
		return brasa.HeatLow, nil
	case "high":
		return brasa.HeatHigh, nil
	case "auto":
		return brasa.HeatAuto, nil
	default:
		return 0, fmt.Errorf("unknown heat mode %q (want off, low, high or auto)", s)
	}
}

func parseFlameEffect(s string) (brasa.FlameEffect, error) {
	switch strings.ToLower(s) {
	case "steady":
		return brasa.EffectSteady, nil
	case "natural":
		return brasa.EffectNatural, nil
	case "ember":
		return brasa.EffectEmber, nil
	case "wave":
		return brasa.EffectWave, nil
	default:
		return 0, fmt.Errorf("unknown flame effect %q (want steady, natural, ember or wave)", s)
	}
}

func parseLightMode(s string) (brasa.LightMode, error) {
	switch strings.ToLower(s) {
	case "off":
		return brasa.LightOff, nil
	case "ambient":
		return brasa.LightAmbient, nil
	case "accent":
		return brasa.LightAccent, nil
	default:
		return 0, fmt.Errorf("unknown light mode %q (want off, ambient or accent)", s)
	}
}

// parseColor parses either decimal channels (R G B [W]) or one hex color.
func parseColor(args []string) (r, g, b, w uint8, err error) {
	if len(args) == 1 && strings.HasPrefix(args[0], "#") {
		return parseHexColor(args[0])
	}

	if len(args) != 3 && len(args) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("expected R G B [W] channel values or a #RRGGBB[WW] hex color")
	}

	var channels [4]uint8
	for i, arg := range args {
		v, parseErr := strconv.ParseUint(arg, 10, 8)
		if parseErr != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid channel value %q (want 0-255)", arg)
		}
		channels[i] = uint8(v)
	}

	return channels[0], channels[1], channels[2], channels[3], nil
}

func parseHexColor(s string) (r, g, b, w uint8, err error) {
	raw, decodeErr := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if decodeErr != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", s, decodeErr)
	}

	switch len(raw) {
	case 3:
		return raw[0], raw[1], raw[2], 0, nil
	case 4:
		return raw[0], raw[1], raw[2], raw[3], nil
	default:
		return 0, 0, 0, 0, fmt.Errorf("invalid hex color %q (want #RRGGBB or #RRGGBBWW)", s)
	}
}
