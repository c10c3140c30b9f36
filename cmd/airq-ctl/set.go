package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanoklima/airq/internal/client"
	"github.com/nanoklima/airq/internal/config"
)

// Setting command flags
var (
	ledSide string

	nightActivated       bool
	nightStartDay        string
	nightStartNight      string
	nightBrightnessDay   float64
	nightBrightnessNight float64
	nightFanOff          bool
	nightWifiOff         bool

	ifIP      string
	ifSubnet  string
	ifGateway string
	ifDNS     string
)

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(setCmd)

	setCmd.AddCommand(setNameCmd)
	setCmd.AddCommand(setNicknameCmd)
	setCmd.AddCommand(setTimeServerCmd)
	setCmd.AddCommand(setCloudRemoteCmd)
	setCmd.AddCommand(setLedThemeCmd)
	setCmd.AddCommand(setNightModeCmd)
	setCmd.AddCommand(setIfconfigCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a condensed device description",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()

		info, err := c.DeviceInfo(ctx)
		if err != nil {
			return err
		}
		rememberDevice(ctx, c)

		if outputFormat == "json" {
			return printJSON(info)
		}
		fmt.Printf("  %-12s %s\n", "ID:", info.ID)
		fmt.Printf("  %-12s %s\n", "Name:", info.Name)
		fmt.Printf("  %-12s %s\n", "Model:", info.Model)
		fmt.Printf("  %-12s %s\n", "Room:", info.SuggestedArea)
		fmt.Printf("  %-12s %s\n", "Firmware:", info.SWVersion)
		fmt.Printf("  %-12s %s\n", "Hardware:", info.HWVersion)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change device settings",
	Long: `Change settings on the device.

Most settings take effect immediately; network settings (ifconfig)
require a restart to apply.`,
}

var setNameCmd = &cobra.Command{
	Use:   "name <name>",
	Short: "Set the device name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.SetDeviceName(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Device name set to %q.\n", args[0])
		return nil
	},
}

// setNicknameCmd only touches the local registry, never the device
var setNicknameCmd = &cobra.Command{
	Use:   "nickname <id> <nickname>",
	Short: "Set a local nickname for a device id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		registry.SetDeviceNickname(args[0], args[1])
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Printf("Nickname for %s set to %q.\n", args[0], args[1])
		return nil
	},
}

var setTimeServerCmd = &cobra.Command{
	Use:   "timeserver <host>",
	Short: "Set the NTP server the device syncs against",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.SetTimeServer(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Time server set to %s.\n", args[0])
		return nil
	},
}

var setCloudRemoteCmd = &cobra.Command{
	Use:   "cloudremote <on|off>",
	Short: "Enable or disable cloud remote access",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var enabled bool
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			enabled = true
		case "off", "false", "0":
			enabled = false
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.SetCloudRemote(context.Background(), enabled); err != nil {
			return err
		}
		fmt.Printf("Cloud remote access %s.\n", map[bool]string{true: "enabled", false: "disabled"}[enabled])
		return nil
	},
}

var setLedThemeCmd = &cobra.Command{
	Use:   "ledtheme <theme>",
	Short: "Set the LED theme",
	Long: `Set the LED theme for both sides of the device, or one side with
--side left / --side right. Run 'airq-ctl config' and look at
possibleLedTheme for the themes your firmware supports.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()
		theme := args[0]

		switch strings.ToLower(ledSide) {
		case "both", "":
			err = c.SetLedThemeBoth(ctx, theme, theme)
		case "left":
			err = c.SetLedThemeLeft(ctx, theme)
		case "right":
			err = c.SetLedThemeRight(ctx, theme)
		default:
			return fmt.Errorf("expected --side both, left, or right, got %q", ledSide)
		}
		if err != nil {
			return err
		}
		fmt.Printf("LED theme set to %q (%s).\n", theme, ledSide)
		return nil
	},
}

var setNightModeCmd = &cobra.Command{
	Use:   "nightmode",
	Short: "Configure night mode",
	Example: `  # Dim the LEDs and stop the fan between 21:00 and 06:00
  airq-ctl set nightmode --activated --start-night 21:00 --start-day 06:00 \
      --brightness-night 2 --fan-off`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		mode := client.NightMode{
			Activated:       nightActivated,
			StartDay:        nightStartDay,
			StartNight:      nightStartNight,
			BrightnessDay:   nightBrightnessDay,
			BrightnessNight: nightBrightnessNight,
			FanNightOff:     nightFanOff,
			WifiNightOff:    nightWifiOff,
		}
		if err := c.SetNightMode(context.Background(), mode); err != nil {
			return err
		}
		fmt.Println("Night mode updated.")
		return nil
	},
}

var setIfconfigCmd = &cobra.Command{
	Use:   "ifconfig",
	Short: "Configure the network interface",
	Long: `Configure a static IPv4 setup, or switch back to DHCP with --dhcp.
The device must be restarted for network settings to apply.`,
	Example: `  # Static address
  airq-ctl set ifconfig --ip 192.168.1.50 --subnet 255.255.255.0 \
      --gateway 192.168.1.1 --dns 192.168.1.1

  # Back to DHCP
  airq-ctl set ifconfig --dhcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()

		useDHCP, _ := cmd.Flags().GetBool("dhcp")
		if useDHCP {
			if err := c.SetIfconfigDHCP(ctx); err != nil {
				return err
			}
			fmt.Println("Interface set to DHCP. Restart the device to apply.")
			return nil
		}

		err = c.SetIfconfigStatic(ctx, client.IfConfig{
			IP:      ifIP,
			Subnet:  ifSubnet,
			Gateway: ifGateway,
			DNS:     ifDNS,
		})
		if err != nil {
			return err
		}
		fmt.Println("Static network configuration saved. Restart the device to apply.")
		return nil
	},
}

func init() {
	setLedThemeCmd.Flags().StringVar(&ledSide, "side", "both", "Which side to change (both, left, right)")

	setNightModeCmd.Flags().BoolVar(&nightActivated, "activated", false, "Enable night mode")
	setNightModeCmd.Flags().StringVar(&nightStartDay, "start-day", "06:00", "When the day phase starts (HH:MM)")
	setNightModeCmd.Flags().StringVar(&nightStartNight, "start-night", "21:00", "When the night phase starts (HH:MM)")
	setNightModeCmd.Flags().Float64Var(&nightBrightnessDay, "brightness-day", 6, "LED brightness during the day")
	setNightModeCmd.Flags().Float64Var(&nightBrightnessNight, "brightness-night", 3, "LED brightness at night")
	setNightModeCmd.Flags().BoolVar(&nightFanOff, "fan-off", false, "Stop the fan at night")
	setNightModeCmd.Flags().BoolVar(&nightWifiOff, "wifi-off", false, "Disable WiFi at night")

	setIfconfigCmd.Flags().Bool("dhcp", false, "Switch back to DHCP")
	setIfconfigCmd.Flags().StringVar(&ifIP, "ip", "", "Static IPv4 address")
	setIfconfigCmd.Flags().StringVar(&ifSubnet, "subnet", "255.255.255.0", "Subnet mask")
	setIfconfigCmd.Flags().StringVar(&ifGateway, "gateway", "", "Gateway address")
	setIfconfigCmd.Flags().StringVar(&ifDNS, "dns", "", "DNS server address")
}
