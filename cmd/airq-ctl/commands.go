package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nanoklima/airq/internal/client"
	"github.com/nanoklima/airq/internal/config"
	"github.com/nanoklima/airq/internal/discovery"
	"github.com/nanoklima/airq/internal/telemetry"
	"github.com/nanoklima/airq/internal/watch"
)

// passwordEnvVar lets scripts pass the device password without a prompt
const passwordEnvVar = "AIRQ_PASSWORD"

// Command flags
var (
	deviceAddr   string
	deviceID     string
	password     string
	timeoutSecs  int
	scanTimeout  int
	outputFormat string

	rawData           bool
	keepUncertainties bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceAddr, "device", "", "Device IP address or hostname (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&deviceID, "id", "", "Device id (resolved via config registry or mDNS)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Device password (default: $"+passwordEnvVar+" or prompt)")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 15, "HTTP request timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(averageCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(blinkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(shutdownCmd)
}

// resolveAddress determines the device address from flags, the config
// registry, or an mDNS wait, in that order
func resolveAddress() (string, error) {
	if deviceAddr != "" {
		return deviceAddr, nil
	}
	if deviceID == "" {
		return "", fmt.Errorf("no device specified (use --device or --id)")
	}

	// The registry remembers where the device was last seen
	if registry, err := config.LoadRegistry(); err == nil {
		if addr := registry.ResolveAddress(deviceID); addr != "" {
			return addr, nil
		}
	}

	fmt.Fprintf(os.Stderr, "Looking for device %s via mDNS...\n", deviceID)
	scanner := discovery.NewScanner()
	device, err := scanner.WaitForDevice(deviceID)
	if err != nil {
		return "", err
	}
	return device.Address(), nil
}

// resolvePassword returns the device password from the flag, the
// environment, or an interactive prompt
func resolvePassword() (string, error) {
	if password != "" {
		return password, nil
	}
	if env := os.Getenv(passwordEnvVar); env != "" {
		return env, nil
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no password given (use --password or $%s)", passwordEnvVar)
	}

	fmt.Fprint(os.Stderr, "Device password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// newClient builds a device client from the common flags
func newClient() (*client.Client, error) {
	addr, err := resolveAddress()
	if err != nil {
		return nil, err
	}
	pw, err := resolvePassword()
	if err != nil {
		return nil, err
	}

	c := client.New(addr, pw)
	c.SetTimeout(time.Duration(timeoutSecs) * time.Second)
	return c, nil
}

// rememberDevice records the device in the config registry so the next
// invocation can resolve it by id alone. Failures are ignored; the
// registry is a convenience, not a requirement.
func rememberDevice(ctx context.Context, c *client.Client) {
	info, err := c.DeviceInfo(ctx)
	if err != nil {
		return
	}
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}
	registry.UpdateDeviceLastSeen(info.ID, c.Address)
	registry.UpdateDeviceInfo(info.ID, info.Model, info.SuggestedArea)
	_ = registry.Save()
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for air-Q devices on the network",
	Long: `Scan for air-Q devices using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts and displays all discovered
air-Q devices with their device ids and addresses. No password is
needed; the device id is part of the advertised hostname.`,
	Example: `  # Scan for 10 seconds (default)
  airq-ctl scan

  # Quick 3-second scan
  airq-ctl scan --scan-timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for air-Q devices (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForDevices(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the device is powered on and connected to this network")
		fmt.Println("  - Firewalls must allow mDNS (UDP port 5353)")
		fmt.Println("  - Use --device to specify the address manually if discovery fails")
		return nil
	}

	registry, regErr := config.LoadRegistry()

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Hostname)
		fmt.Printf("   ID:      %s\n", device.DeviceID)
		fmt.Printf("   Address: %s\n", device.Address())
		if regErr == nil {
			if known := registry.GetDevice(device.DeviceID); known != nil && known.Nickname != "" {
				fmt.Printf("   Nickname: %s\n", known.Nickname)
			}
			registry.UpdateDeviceLastSeen(device.DeviceID, device.Address())
		}
		fmt.Println()
	}
	if regErr == nil {
		_ = registry.Save()
	}

	fmt.Println("Use 'airq-ctl data --id <id>' to read telemetry")
	return nil
}

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Read the latest measurement",
	Long: `Read the device's latest measurement.

By default the rolling average is fetched, negative values are clipped
to zero, and measurement uncertainties are dropped. Use --raw to fetch
the momentary values with no post-processing instead.`,
	Example: `  # Averaged, normalized measurement
  airq-ctl data --device 192.168.1.50

  # Momentary values with uncertainties
  airq-ctl data --device 192.168.1.50 --raw --uncertainties`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runData(false)
	},
}

var averageCmd = &cobra.Command{
	Use:   "average",
	Short: "Read the rolling average measurement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runData(true)
	},
}

func init() {
	dataCmd.Flags().BoolVar(&rawData, "raw", false, "Fetch momentary values without normalization")
	dataCmd.Flags().BoolVar(&keepUncertainties, "uncertainties", false, "Keep [value, uncertainty] pairs")
	averageCmd.Flags().BoolVar(&keepUncertainties, "uncertainties", false, "Keep [value, uncertainty] pairs")
}

func runData(forceAverage bool) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	opts := client.DataOptions{
		Average:           forceAverage || !rawData,
		ClipNegatives:     !rawData,
		KeepUncertainties: keepUncertainties,
	}
	snapshot, err := c.LatestData(ctx, opts)
	if err != nil {
		return err
	}
	rememberDevice(ctx, c)

	if outputFormat == "json" {
		return printJSON(snapshot)
	}
	printSnapshot(snapshot)
	return nil
}

// printSnapshot renders a snapshot as an aligned table
func printSnapshot(snapshot *telemetry.Snapshot) {
	if warming := snapshot.Status.WarmingUp(); len(warming) > 0 {
		names := make([]string, 0, len(warming))
		for name := range warming {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Status: warming up:")
		for _, name := range names {
			if msg, ok := snapshot.Status.Message(name); ok {
				fmt.Printf("  %s: %s\n", name, msg)
			}
		}
	} else {
		fmt.Println("Status: OK")
	}
	fmt.Printf("Timestamp: %.0f\n\n", snapshot.Timestamp)

	names := make([]string, 0, len(snapshot.Fields))
	for name := range snapshot.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		reading := snapshot.Fields[name]
		if value, ok := reading.Value(); ok {
			if uncertainty, ok := reading.Uncertainty(); ok {
				fmt.Printf("  %-16s %.2f ± %.2f\n", name, value, uncertainty)
			} else {
				fmt.Printf("  %-16s %.2f\n", name, value)
			}
		} else if text, ok := reading.Text(); ok {
			fmt.Printf("  %-16s %s\n", name, text)
		} else {
			fmt.Printf("  %-16s %s\n", name, string(reading.Raw()))
		}
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the device configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()

		cfg, err := c.Config(ctx)
		if err != nil {
			return err
		}
		rememberDevice(ctx, c)

		if outputFormat == "json" {
			return printJSON(cfg)
		}

		keys := make([]string, 0, len(cfg))
		for key := range cfg {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("  %-28s %s\n", key, string(cfg[key]))
		}
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the device log",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		lines, err := c.Log(context.Background())
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(lines)
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check reachability and verify the password",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if err := c.Ping(context.Background()); err != nil {
			if client.IsAuth(err) {
				return fmt.Errorf("device reachable but the password looks wrong: %w", err)
			}
			return err
		}
		fmt.Printf("Device %s is reachable and the password is valid.\n", c.Address)
		return nil
	},
}

var blinkCmd = &cobra.Command{
	Use:   "blink",
	Short: "Flash the device LEDs to identify it",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		id, err := c.Blink(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Device %s is blinking.\n", id)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live telemetry dashboard",
	Long: `Open a live terminal dashboard that polls the device and renders
sensor readings with per-poll deltas. Warm-up phases and unexplained
sensor losses are called out as they happen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		interval := watch.DefaultInterval
		opts := client.DefaultDataOptions()
		if registry, err := config.LoadRegistry(); err == nil {
			prefs := registry.TelemetryDefaults()
			if prefs.PollInterval > 0 {
				interval = time.Duration(prefs.PollInterval) * time.Second
			}
			opts.Average = prefs.Average
			opts.ClipNegatives = prefs.ClipNegatives
			opts.KeepUncertainties = prefs.KeepUncertainties
		}

		title := c.Address
		if deviceID != "" {
			title = deviceID
		}
		return watch.Run(c, title, interval, opts)
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the device",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Restart(context.Background()); err != nil {
			return err
		}
		fmt.Println("Device is restarting.")
		return nil
	},
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Shut the device down",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Shutdown(context.Background()); err != nil {
			return err
		}
		fmt.Println("Device is shutting down.")
		return nil
	},
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
