package client

// DeviceInfo is a condensed device description assembled from /config
type DeviceInfo struct {
	// ID is the device id. It is the only field the firmware guarantees.
	ID string

	// Name is the user-assigned device name, if any
	Name string

	// Model is the hardware type reported by the device
	Model string

	// SuggestedArea is the configured room type, prettified for display
	// (dashes replaced, title case)
	SuggestedArea string

	// SWVersion is the firmware version
	SWVersion string

	// HWVersion is the hardware revision
	HWVersion string
}

// LedTheme holds the LED theme for each side of the device
type LedTheme struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// NightMode is the device's night mode configuration
type NightMode struct {
	Activated       bool    `json:"activated"`
	StartDay        string  `json:"start_day"`
	StartNight      string  `json:"start_night"`
	BrightnessDay   float64 `json:"brightness_day"`
	BrightnessNight float64 `json:"brightness_night"`
	FanNightOff     bool    `json:"fan_night_off"`
	WifiNightOff    bool    `json:"wifi_night_off"`
}

// IfConfig is a static IPv4 interface configuration
type IfConfig struct {
	IP      string `json:"ip"`
	Subnet  string `json:"subnet"`
	Gateway string `json:"gateway"`
	DNS     string `json:"dns"`
}
