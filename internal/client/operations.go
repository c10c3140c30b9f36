package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nanoklima/airq/internal/telemetry"
)

// DataOptions controls how LatestData post-processes a measurement
type DataOptions struct {
	// Average selects /average over /data
	Average bool

	// ClipNegatives clamps negative sensor values to zero. Sensors
	// near their detection floor drift slightly negative; the clamp
	// keeps dashboards from showing impossible values.
	ClipNegatives bool

	// KeepUncertainties retains [value, uncertainty] pairs instead of
	// reducing them to bare values
	KeepUncertainties bool

	// OriginalKeys keeps the firmware's field names verbatim. By default
	// hardware-suffixed names like pm1_SPS30 are renamed to their
	// canonical sensor names.
	OriginalKeys bool
}

// DefaultDataOptions are the options most consumers want: averaged,
// clipped, uncertainties dropped.
func DefaultDataOptions() DataOptions {
	return DataOptions{Average: true, ClipNegatives: true}
}

// Get fetches and decodes one of the device's envelope routes. Prefer
// the typed operations; this is the escape hatch for raw access.
func (c *Client) Get(ctx context.Context, subject string) (json.RawMessage, error) {
	if !supportedSubjects[subject] {
		return nil, &DeviceError{
			Type:    ErrTypeUsage,
			Subject: subject,
			Err:     fmt.Errorf("unsupported subject (want one of config, log, data, average, ping, blink)"),
		}
	}
	return c.getDecoded(ctx, subject)
}

// Data returns the device's latest measurement
func (c *Client) Data(ctx context.Context) (*telemetry.Snapshot, error) {
	return c.snapshot(ctx, "data")
}

// Average returns the device's rolling average measurement
func (c *Client) Average(ctx context.Context) (*telemetry.Snapshot, error) {
	return c.snapshot(ctx, "average")
}

// LatestData fetches a measurement and applies the requested
// normalization
func (c *Client) LatestData(ctx context.Context, opts DataOptions) (*telemetry.Snapshot, error) {
	subject := "data"
	if opts.Average {
		subject = "average"
	}
	snapshot, err := c.snapshot(ctx, subject)
	if err != nil {
		return nil, err
	}
	if opts.ClipNegatives {
		snapshot = telemetry.ClipNegativeValues(snapshot)
	}
	if !opts.KeepUncertainties {
		snapshot = telemetry.DropUncertainties(snapshot)
	}
	if !opts.OriginalKeys {
		snapshot = telemetry.CanonicalizeKeys(snapshot)
	}
	return snapshot, nil
}

func (c *Client) snapshot(ctx context.Context, subject string) (*telemetry.Snapshot, error) {
	inner, err := c.getDecoded(ctx, subject)
	if err != nil {
		return nil, err
	}
	snapshot, err := telemetry.ParseSnapshot(inner)
	if err != nil {
		return nil, &DeviceError{Type: ErrTypeResponse, Subject: subject, Err: err}
	}
	return snapshot, nil
}

// Config returns the decoded device configuration
func (c *Client) Config(ctx context.Context) (map[string]json.RawMessage, error) {
	inner, err := c.getDecoded(ctx, "config")
	if err != nil {
		return nil, err
	}
	var config map[string]json.RawMessage
	if err := json.Unmarshal(inner, &config); err != nil {
		return nil, &DeviceError{Type: ErrTypeResponse, Subject: "config", Err: err}
	}
	return config, nil
}

// Log returns the device's log lines
func (c *Client) Log(ctx context.Context) ([]string, error) {
	inner, err := c.getDecoded(ctx, "log")
	if err != nil {
		return nil, err
	}
	var lines []string
	if err := json.Unmarshal(inner, &lines); err != nil {
		return nil, &DeviceError{Type: ErrTypeResponse, Subject: "log", Err: err}
	}
	return lines, nil
}

// Ping checks that the device is reachable and the password decodes its
// responses
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.getDecoded(ctx, "ping")
	return err
}

// Validate tests the configured password. It relies on the decode
// failure surfacing as an auth error; there is no dedicated endpoint.
func (c *Client) Validate(ctx context.Context) error {
	return c.Ping(ctx)
}

// Blink makes the device flash its LEDs briefly and returns the device
// id, which is handy for telling several devices apart.
func (c *Client) Blink(ctx context.Context) (string, error) {
	inner, err := c.getDecoded(ctx, "blink")
	if err != nil {
		return "", err
	}
	var reply struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(inner, &reply); err != nil || reply.ID == "" {
		return "", &DeviceError{
			Type:    ErrTypeResponse,
			Subject: "blink",
			Err:     fmt.Errorf("reply has no device id"),
		}
	}
	return reply.ID, nil
}

// Restart restarts the device. The firmware applies any pending setting
// changes first.
func (c *Client) Restart(ctx context.Context) error {
	return c.postConfig(ctx, map[string]bool{"reset": true})
}

// Shutdown shuts the device down
func (c *Client) Shutdown(ctx context.Context) error {
	return c.postConfig(ctx, map[string]bool{"shutdown": true})
}

// DeviceInfo assembles a condensed device description from /config
func (c *Client) DeviceInfo(ctx context.Context) (DeviceInfo, error) {
	config, err := c.Config(ctx)
	if err != nil {
		return DeviceInfo{}, err
	}

	id := configString(config, "id")
	if id == "" {
		// The one field that should never be missing
		return DeviceInfo{}, &DeviceError{
			Type:    ErrTypeResponse,
			Subject: "config",
			Err:     fmt.Errorf("config has no device id"),
		}
	}

	return DeviceInfo{
		ID:            id,
		Name:          configString(config, "devicename"),
		Model:         configString(config, "type"),
		SuggestedArea: prettifyRoomType(configString(config, "RoomType")),
		SWVersion:     configString(config, "air-Q-Software-Version"),
		HWVersion:     configString(config, "air-Q-Hardware-Version"),
	}, nil
}

// configString extracts an optional string field from a decoded config
func configString(config map[string]json.RawMessage, key string) string {
	raw, ok := config[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// prettifyRoomType turns a room type like "living-room" into "Living Room"
func prettifyRoomType(roomType string) string {
	if roomType == "" {
		return ""
	}
	words := strings.Split(strings.ReplaceAll(roomType, "-", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
