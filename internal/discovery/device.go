package discovery

import (
	"fmt"
	"time"
)

// Device represents a discovered air-Q device on the network
type Device struct {
	// DeviceID is the short device id (e.g., "a123f") taken from the
	// mDNS hostname
	DeviceID string

	// Hostname is the mDNS hostname (e.g., "a123f_air-q.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.50")
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("air-Q %s (%s) at %s:%d", d.DeviceID, d.Hostname, d.IP, d.Port)
}

// Address returns the host:port form suitable for a client. Port 80 is
// left implicit so addresses match what users type by hand.
func (d *Device) Address() string {
	if d.Port == 0 || d.Port == DefaultPort {
		return d.IP
	}
	return fmt.Sprintf("%s:%d", d.IP, d.Port)
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.Address()
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
