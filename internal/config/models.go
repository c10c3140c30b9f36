package config

import "time"

// Registry represents the entire user configuration file.
// This stores user-defined metadata for devices and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device id
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single air-Q device.
// This is keyed by the device's id in the Registry.
type Device struct {
	Nickname    string    `yaml:"nickname,omitempty"`     // User-friendly name
	LastAddress string    `yaml:"last_address,omitempty"` // Last known IP address or hostname
	LastSeen    time.Time `yaml:"last_seen,omitempty"`    // Last discovery/connection time
	Model       string    `yaml:"model,omitempty"`        // Hardware type reported by the device
	RoomType    string    `yaml:"room_type,omitempty"`    // Room type reported by the device
}

// TelemetryPrefs represents default telemetry handling preferences.
// These map onto the options every data fetch accepts.
type TelemetryPrefs struct {
	Average           bool `yaml:"average"`            // Prefer the rolling average route
	ClipNegatives     bool `yaml:"clip_negatives"`     // Clamp negative values to zero
	KeepUncertainties bool `yaml:"keep_uncertainties"` // Retain [value, uncertainty] pairs
	PollInterval      int  `yaml:"poll_interval"`      // Watch/export poll interval in seconds
}

// Preferences represents application-wide user preferences.
// Note: device passwords are NEVER stored - they are always prompted
// from the user or taken from the environment.
type Preferences struct {
	AutoDiscover    bool            `yaml:"auto_discover"`       // Enable automatic mDNS discovery on startup
	DiscoverTimeout int             `yaml:"discover_timeout"`    // mDNS discovery timeout in seconds
	Telemetry       *TelemetryPrefs `yaml:"telemetry,omitempty"` // Default telemetry handling
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
			Telemetry: &TelemetryPrefs{
				Average:       true,
				ClipNegatives: true,
				PollInterval:  10,
			},
		},
	}
}

// GetDevice retrieves device metadata by device id.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(deviceID string) *Device {
	return r.Devices[deviceID]
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(deviceID string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[deviceID]; exists {
		return device
	}

	device := &Device{}
	r.Devices[deviceID] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and address for a device.
func (r *Registry) UpdateDeviceLastSeen(deviceID, address string) {
	device := r.EnsureDevice(deviceID)
	device.LastSeen = time.Now()
	device.LastAddress = address
}

// UpdateDeviceInfo records the device's self-reported identity fields.
func (r *Registry) UpdateDeviceInfo(deviceID, model, roomType string) {
	device := r.EnsureDevice(deviceID)
	device.Model = model
	device.RoomType = roomType
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(deviceID, nickname string) {
	device := r.EnsureDevice(deviceID)
	device.Nickname = nickname
}

// ResolveAddress returns the best known address for a device id, or
// empty string if the registry has never seen it.
func (r *Registry) ResolveAddress(deviceID string) string {
	device := r.GetDevice(deviceID)
	if device == nil {
		return ""
	}
	return device.LastAddress
}

// TelemetryDefaults returns the telemetry preferences, falling back to
// the built-in defaults when the file has none.
func (r *Registry) TelemetryDefaults() TelemetryPrefs {
	if r.Preferences != nil && r.Preferences.Telemetry != nil {
		return *r.Preferences.Telemetry
	}
	return TelemetryPrefs{Average: true, ClipNegatives: true, PollInterval: 10}
}
