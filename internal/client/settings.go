package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
)

// DeviceName returns the user-assigned device name
func (c *Client) DeviceName(ctx context.Context) (string, error) {
	return c.configStringField(ctx, "devicename")
}

// SetDeviceName assigns a new device name
func (c *Client) SetDeviceName(ctx context.Context, name string) error {
	return c.postConfig(ctx, map[string]string{"devicename": name})
}

// TimeServer returns the configured NTP server
func (c *Client) TimeServer(ctx context.Context) (string, error) {
	return c.configStringField(ctx, "TimeServer")
}

// SetTimeServer configures the NTP server the device syncs against
func (c *Client) SetTimeServer(ctx context.Context, server string) error {
	return c.postConfig(ctx, map[string]string{"TimeServer": server})
}

// CloudRemote reports whether cloud remote access is enabled
func (c *Client) CloudRemote(ctx context.Context) (bool, error) {
	config, err := c.Config(ctx)
	if err != nil {
		return false, err
	}
	raw, ok := config["cloudRemote"]
	if !ok {
		return false, &DeviceError{
			Type:    ErrTypeResponse,
			Subject: "config",
			Err:     fmt.Errorf("config has no cloudRemote field"),
		}
	}
	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err != nil {
		return false, &DeviceError{Type: ErrTypeResponse, Subject: "config", Err: err}
	}
	return enabled, nil
}

// SetCloudRemote enables or disables cloud remote access
func (c *Client) SetCloudRemote(ctx context.Context, enabled bool) error {
	return c.postConfig(ctx, map[string]bool{"cloudRemote": enabled})
}

// NightMode returns the device's night mode configuration
func (c *Client) NightMode(ctx context.Context) (NightMode, error) {
	config, err := c.Config(ctx)
	if err != nil {
		return NightMode{}, err
	}
	raw, ok := config["NightMode"]
	if !ok {
		return NightMode{}, &DeviceError{
			Type:    ErrTypeResponse,
			Subject: "config",
			Err:     fmt.Errorf("config has no NightMode field"),
		}
	}
	var mode NightMode
	if err := json.Unmarshal(raw, &mode); err != nil {
		return NightMode{}, &DeviceError{Type: ErrTypeResponse, Subject: "config", Err: err}
	}
	return mode, nil
}

// SetNightMode replaces the night mode configuration
func (c *Client) SetNightMode(ctx context.Context, mode NightMode) error {
	return c.postConfig(ctx, map[string]NightMode{"NightMode": mode})
}

// PossibleLedThemes lists the LED themes the firmware supports
func (c *Client) PossibleLedThemes(ctx context.Context) ([]string, error) {
	config, err := c.Config(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := config["possibleLedTheme"]
	if !ok {
		return nil, &DeviceError{
			Type:    ErrTypeResponse,
			Subject: "config",
			Err:     fmt.Errorf("config has no possibleLedTheme field"),
		}
	}
	var themes []string
	if err := json.Unmarshal(raw, &themes); err != nil {
		return nil, &DeviceError{Type: ErrTypeResponse, Subject: "config", Err: err}
	}
	return themes, nil
}

// LedTheme returns the currently active LED theme for both sides
func (c *Client) LedTheme(ctx context.Context) (LedTheme, error) {
	config, err := c.Config(ctx)
	if err != nil {
		return LedTheme{}, err
	}
	raw, ok := config["ledTheme"]
	if !ok {
		return LedTheme{}, &DeviceError{
			Type:    ErrTypeResponse,
			Subject: "config",
			Err:     fmt.Errorf("config has no ledTheme field"),
		}
	}
	var theme LedTheme
	if err := json.Unmarshal(raw, &theme); err != nil {
		return LedTheme{}, &DeviceError{Type: ErrTypeResponse, Subject: "config", Err: err}
	}
	return theme, nil
}

// SetLedThemeBoth sets the LED theme for both sides at once
func (c *Client) SetLedThemeBoth(ctx context.Context, left, right string) error {
	return c.postConfig(ctx, map[string]LedTheme{
		"ledTheme": {Left: left, Right: right},
	})
}

// SetLedThemeLeft changes only the left LED theme. The firmware rejects
// single-sided updates with a misleading "unsupported option" error, so
// the current theme is read first and both sides are written back.
func (c *Client) SetLedThemeLeft(ctx context.Context, theme string) error {
	return c.setLedThemeOneSide(ctx, theme, true)
}

// SetLedThemeRight changes only the right LED theme
func (c *Client) SetLedThemeRight(ctx context.Context, theme string) error {
	return c.setLedThemeOneSide(ctx, theme, false)
}

func (c *Client) setLedThemeOneSide(ctx context.Context, theme string, left bool) error {
	current, err := c.LedTheme(ctx)
	if err != nil {
		return err
	}
	if left {
		current.Left = theme
	} else {
		current.Right = theme
	}
	return c.SetLedThemeBoth(ctx, current.Left, current.Right)
}

// SetIfconfigStatic configures a static IPv4 setup. The device only
// supports IPv4. Call Restart afterwards to apply the settings.
func (c *Client) SetIfconfigStatic(ctx context.Context, cfg IfConfig) error {
	for _, addr := range []struct {
		label, value string
	}{
		{"ip", cfg.IP},
		{"subnet", cfg.Subnet},
		{"gateway", cfg.Gateway},
		{"dns", cfg.DNS},
	} {
		if !isValidIPv4(addr.value) {
			return &DeviceError{
				Type:    ErrTypeUsage,
				Subject: "config",
				Err:     fmt.Errorf("invalid %s address: %q", addr.label, addr.value),
			}
		}
	}
	return c.postConfig(ctx, map[string]IfConfig{"ifconfig": cfg})
}

// SetIfconfigDHCP switches the interface back to DHCP. Call Restart
// afterwards to apply the settings.
func (c *Client) SetIfconfigDHCP(ctx context.Context) error {
	return c.postConfig(ctx, map[string]string{"DeleteKey": "ifconfig"})
}

// configStringField fetches the config and extracts one required string
func (c *Client) configStringField(ctx context.Context, key string) (string, error) {
	config, err := c.Config(ctx)
	if err != nil {
		return "", err
	}
	raw, ok := config[key]
	if !ok {
		return "", &DeviceError{
			Type:    ErrTypeResponse,
			Subject: "config",
			Err:     fmt.Errorf("config has no %s field", key),
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &DeviceError{Type: ErrTypeResponse, Subject: "config", Err: err}
	}
	return s, nil
}

// isValidIPv4 reports whether s is a dotted-quad IPv4 address
func isValidIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}
