// Package discovery provides mDNS-based device discovery for air-Q devices.
//
// This package implements multicast DNS (mDNS) service discovery to
// automatically locate air-Q devices on the local network. The devices
// advertise themselves using the "_http._tcp" service type with a
// hostname of the form "<deviceid>_air-q.local", which is how the device
// id is recovered without knowing any password.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for service advertisements
//  3. Filters responses by the air-Q hostname pattern
//  4. Collects device information (device id, hostname, IP, port)
//  5. Returns a list of discovered devices after the timeout period
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	devices, err := scanner.ScanForDevices()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, device := range devices {
//	    fmt.Printf("Found: %s at %s (ID: %s)\n",
//	        device.Hostname, device.IP, device.DeviceID)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions
// can run simultaneously without interference.
package discovery
