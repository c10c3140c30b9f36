package discovery

import (
	"testing"
)

func TestDevice_String(t *testing.T) {
	device := &Device{
		DeviceID: "a123f",
		Hostname: "a123f_air-q.local",
		IP:       "192.168.1.50",
		Port:     80,
	}

	expected := "air-Q a123f (a123f_air-q.local) at 192.168.1.50:80"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_Address(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name: "standard HTTP port is implicit",
			device: &Device{
				IP:   "192.168.1.50",
				Port: 80,
			},
			expected: "192.168.1.50",
		},
		{
			name: "unset port is implicit",
			device: &Device{
				IP: "192.168.1.50",
			},
			expected: "192.168.1.50",
		},
		{
			name: "custom port",
			device: &Device{
				IP:   "10.0.0.5",
				Port: 8080,
			},
			expected: "10.0.0.5:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.Address(); got != tt.expected {
				t.Errorf("Device.Address() = %v, want %v", got, tt.expected)
			}
			if got := tt.device.BaseURL(); got != "http://"+tt.expected {
				t.Errorf("Device.BaseURL() = %v, want %v", got, "http://"+tt.expected)
			}
		})
	}
}

func TestDevice_GetMetadata(t *testing.T) {
	device := &Device{
		Metadata: map[string]string{
			"path": "/",
		},
	}

	if got := device.GetMetadata("path"); got != "/" {
		t.Errorf("Device.GetMetadata(path) = %v, want /", got)
	}
	if got := device.GetMetadata("missing"); got != "" {
		t.Errorf("Device.GetMetadata(missing) = %v, want empty string", got)
	}
}

func TestDevice_GetMetadata_NilMap(t *testing.T) {
	device := &Device{}

	if got := device.GetMetadata("anything"); got != "" {
		t.Errorf("Device.GetMetadata() with nil map = %v, want empty string", got)
	}
}
