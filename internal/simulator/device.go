package simulator

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nanoklima/airq/internal/logging"
	"github.com/nanoklima/airq/internal/protocol"
)

// Defaults for a freshly constructed device
const (
	DefaultID       = "a123f"
	DefaultName     = "air-Q Simulator"
	DefaultModel    = "airQ Pro"
	DefaultRoomType = "living-room"
)

// Config holds the simulated device's identity
type Config struct {
	// Password is the device password clients must use
	Password string

	// ID is the device id (hex-ish string, defaults to DefaultID)
	ID string

	// Name is the user-visible device name
	Name string

	// RoomType is the configured room type, dashed like the firmware
	// reports it
	RoomType string
}

// sensor is one simulated measurement channel
type sensor struct {
	value       float64
	uncertainty float64
	jitter      float64
	warmupUntil time.Time
}

// Device is a scriptable fake air-Q. All exported methods are safe for
// concurrent use with the HTTP handler.
type Device struct {
	mu sync.Mutex

	key      protocol.Key
	id       string
	name     string
	model    string
	roomType string

	timeServer  string
	cloudRemote bool
	ledTheme    ledTheme
	nightMode   map[string]interface{}
	ifconfig    map[string]string

	sensors map[string]*sensor
	started time.Time
	logs    []string
	rng     *rand.Rand

	restarts  int
	shutdowns int

	log *zap.Logger
}

// ledTheme mirrors the firmware's ledTheme config object
type ledTheme struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// New creates a simulated device with a default sensor set
func New(cfg Config) *Device {
	if cfg.ID == "" {
		cfg.ID = DefaultID
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.RoomType == "" {
		cfg.RoomType = DefaultRoomType
	}

	d := &Device{
		key:        protocol.DeriveKey(cfg.Password),
		id:         cfg.ID,
		name:       cfg.Name,
		model:      DefaultModel,
		roomType:   cfg.RoomType,
		timeServer: "pool.ntp.org",
		ledTheme:   ledTheme{Left: "standard", Right: "standard"},
		nightMode: map[string]interface{}{
			"activated":        false,
			"start_day":        "06:00",
			"start_night":      "21:00",
			"brightness_day":   6.0,
			"brightness_night": 3.0,
			"fan_night_off":    true,
			"wifi_night_off":   false,
		},
		sensors: map[string]*sensor{
			"temperature": {value: 21.5, uncertainty: 0.6, jitter: 0.2},
			"humidity":    {value: 48.0, uncertainty: 4.0, jitter: 0.8},
			"co2":         {value: 620.0, uncertainty: 68.0, jitter: 15.0},
			"tvoc":        {value: 120.0, uncertainty: 20.0, jitter: 8.0},
			"co":          {value: 0.9, uncertainty: 0.2, jitter: 0.05},
			"o3":          {value: 27.2, uncertainty: 2.3, jitter: 0.4},
		},
		started: time.Now(),
		logs: []string{
			"booting",
			"sensors initialised",
			"http server listening on :80",
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		log: logging.GetLogger(),
	}
	return d
}

// ID returns the device id
func (d *Device) ID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

// SetSensor sets or adds a sensor channel
func (d *Device) SetSensor(name string, value, uncertainty float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.sensors[name]; ok {
		s.value = value
		s.uncertainty = uncertainty
		return
	}
	d.sensors[name] = &sensor{value: value, uncertainty: uncertainty}
}

// RemoveSensor drops a sensor channel entirely, as if the hardware
// vanished
func (d *Device) RemoveSensor(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sensors, name)
}

// StartWarmup puts the named sensors into warm-up for the given
// duration. While warming, a sensor reports no value and shows up in the
// Status map instead.
func (d *Device) StartWarmup(duration time.Duration, names ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until := time.Now().Add(duration)
	for _, name := range names {
		if s, ok := d.sensors[name]; ok {
			s.warmupUntil = until
		}
	}
}

// Restarts returns how many reset commands the device accepted
func (d *Device) Restarts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.restarts
}

// Shutdowns returns how many shutdown commands the device accepted
func (d *Device) Shutdowns() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdowns
}

// DeviceName returns the current device name
func (d *Device) DeviceName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}
