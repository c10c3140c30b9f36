package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantDeviceID string
		wantIP       string
		wantPort     int
	}{
		{
			name: "valid air-Q with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "a123f_air-q.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				Text:     []string{"path=/"},
			},
			wantNil:      false,
			wantDeviceID: "a123f",
			wantIP:       "192.168.1.50",
			wantPort:     80,
		},
		{
			name: "valid air-Q without trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "deadbeef_air-q.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantNil:      false,
			wantDeviceID: "deadbeef",
			wantIP:       "10.0.0.5",
			wantPort:     80,
		},
		{
			name: "uppercase id is normalised",
			entry: &zeroconf.ServiceEntry{
				HostName: "A123F_air-Q.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.51")},
			},
			wantNil:      false,
			wantDeviceID: "a123f",
			wantIP:       "192.168.1.51",
			wantPort:     80,
		},
		{
			name: "no port specified defaults to 80",
			entry: &zeroconf.ServiceEntry{
				HostName: "cafe01_air-q.local",
				Port:     0,
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantNil:      false,
			wantDeviceID: "cafe01",
			wantIP:       "172.16.0.1",
			wantPort:     80,
		},
		{
			name: "unrelated device on the same service type",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "air-Q-looking hostname with no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "a123f_air-q.local",
				Port:     80,
			},
			wantNil: true,
		},
		{
			name: "empty hostname",
			entry: &zeroconf.ServiceEntry{
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Fatalf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}
			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want device")
			}
			if device.DeviceID != tt.wantDeviceID {
				t.Errorf("DeviceID = %v, want %v", device.DeviceID, tt.wantDeviceID)
			}
			if device.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", device.Port, tt.wantPort)
			}
			if device.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt should be set")
			}
		})
	}
}

func TestScanner_parseServiceEntry_IPv6Fallback(t *testing.T) {
	scanner := NewScanner()
	device := scanner.parseServiceEntry(&zeroconf.ServiceEntry{
		HostName: "a123f_air-q.local",
		Port:     80,
		AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
	})

	if device == nil {
		t.Fatal("expected device from IPv6-only entry")
	}
	if device.IP != "fe80::1" {
		t.Errorf("IP = %v, want fe80::1", device.IP)
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()
	device := scanner.parseServiceEntry(&zeroconf.ServiceEntry{
		HostName: "a123f_air-q.local",
		Port:     80,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
		Text:     []string{"path=/", "flag"},
	})

	if device == nil {
		t.Fatal("expected device")
	}
	if got := device.GetMetadata("path"); got != "/" {
		t.Errorf("metadata path = %v, want /", got)
	}
	if got, ok := device.Metadata["flag"]; !ok || got != "" {
		t.Errorf("bare TXT key should map to empty string, got %q (present=%v)", got, ok)
	}
}

func TestNewScanner_Defaults(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}
