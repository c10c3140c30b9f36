package simulator

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nanoklima/airq/internal/protocol"
)

// possibleLedThemes matches the firmware's fixed theme list
var possibleLedThemes = []string{
	"standard",
	"co2_covid19",
	"CO2",
	"VOC",
	"PM",
	"Humidity",
	"Noise",
}

// Handler returns the device's HTTP surface. Mount it on an
// httptest.Server or a plain http.Server.
func (d *Device) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/data", d.handleMeasurement)
	mux.HandleFunc("/average", d.handleMeasurement)
	mux.HandleFunc("/config", d.handleConfig)
	mux.HandleFunc("/log", d.handleLog)
	mux.HandleFunc("/ping", d.handlePing)
	mux.HandleFunc("/blink", d.handleBlink)
	return mux
}

// writeEnvelope encrypts payload and writes the {"content": ...} wrapper
func (d *Device) writeEnvelope(w http.ResponseWriter, payload interface{}) {
	text, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	wire, err := protocol.Encrypt(text, d.key)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"content": wire})
}

// handleMeasurement serves /data and /average. Warming sensors report no
// value; they show up in the Status map instead, the way the firmware
// announces warm-up.
func (d *Device) handleMeasurement(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	payload := map[string]interface{}{}
	warming := map[string]string{}
	for name, s := range d.sensors {
		if s.warmupUntil.After(now) {
			remaining := int(s.warmupUntil.Sub(now).Seconds()) + 1
			warming[name] = fmt.Sprintf(
				"%s sensor still in warm up phase; waiting value %d sec", name, remaining)
			continue
		}
		value := s.value
		if s.jitter > 0 {
			value += (d.rng.Float64()*2 - 1) * s.jitter
		}
		payload[name] = [2]float64{round2(value), s.uncertainty}
	}

	payload["timestamp"] = float64(now.UnixMilli())
	payload["uptime"] = int(now.Sub(d.started).Seconds())
	payload["DeviceID"] = d.id
	if len(warming) == 0 {
		payload["Status"] = "OK"
	} else {
		payload["Status"] = warming
	}

	d.writeEnvelope(w, payload)
}

func (d *Device) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		d.handleConfigPost(w, r)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	config := map[string]interface{}{
		"id":                      d.id,
		"devicename":              d.name,
		"type":                    d.model,
		"RoomType":                d.roomType,
		"TimeServer":              d.timeServer,
		"cloudRemote":             d.cloudRemote,
		"ledTheme":                d.ledTheme,
		"possibleLedTheme":        possibleLedThemes,
		"NightMode":               d.nightMode,
		"air-Q-Software-Version":  "1.79.3",
		"air-Q-Hardware-Version":  "D",
		"SensorInfo":              sensorNamesLocked(d.sensors),
		"WLANssid":                "simulated",
	}
	if d.ifconfig != nil {
		config["ifconfig"] = d.ifconfig
	}

	d.writeEnvelope(w, config)
}

// handleConfigPost applies a configuration change. The request value is
// raw base64 in the form body, so the body is split by hand instead of
// going through url.ParseQuery, which would mangle '+' characters.
func (d *Device) handleConfigPost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	content, ok := strings.CutPrefix(string(body), protocol.RequestField+"=")
	if !ok {
		http.Error(w, "missing request field", http.StatusBadRequest)
		return
	}

	inner, err := protocol.DecodeContent(content, d.key)
	if err != nil {
		d.log.Debug("Simulator rejected config post", zap.Error(err))
		http.Error(w, "undecodable request", http.StatusBadRequest)
		return
	}

	var changes map[string]json.RawMessage
	if err := json.Unmarshal(inner, &changes); err != nil {
		http.Error(w, "request is not an object", http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	reply := d.applyConfig(changes)
	d.mu.Unlock()

	d.writeEnvelope(w, reply)
}

// applyConfig mutates device state per the decoded change set and
// returns the firmware-style reply string. Caller holds the lock.
func (d *Device) applyConfig(changes map[string]json.RawMessage) string {
	for key, raw := range changes {
		switch key {
		case "devicename":
			if json.Unmarshal(raw, &d.name) != nil {
				return "Error: devicename must be a string"
			}
		case "TimeServer":
			if json.Unmarshal(raw, &d.timeServer) != nil {
				return "Error: TimeServer must be a string"
			}
		case "cloudRemote":
			if json.Unmarshal(raw, &d.cloudRemote) != nil {
				return "Error: cloudRemote must be a boolean"
			}
		case "ledTheme":
			var theme ledTheme
			if json.Unmarshal(raw, &theme) != nil || theme.Left == "" || theme.Right == "" {
				// The firmware insists on both sides in one write
				return "Error: unsupported option"
			}
			d.ledTheme = theme
		case "NightMode":
			var mode map[string]interface{}
			if json.Unmarshal(raw, &mode) != nil {
				return "Error: NightMode must be an object"
			}
			for k, v := range mode {
				d.nightMode[k] = v
			}
		case "ifconfig":
			var cfg map[string]string
			if json.Unmarshal(raw, &cfg) != nil {
				return "Error: ifconfig must be an object"
			}
			d.ifconfig = cfg
		case "DeleteKey":
			var name string
			if json.Unmarshal(raw, &name) != nil {
				return "Error: DeleteKey must be a string"
			}
			if name == "ifconfig" {
				d.ifconfig = nil
			}
		case "reset":
			d.restarts++
			d.logs = append(d.logs, "restart requested")
			return "Success: air-Q will restart"
		case "shutdown":
			d.shutdowns++
			d.logs = append(d.logs, "shutdown requested")
			return "Success: air-Q will shut down"
		default:
			return fmt.Sprintf("Error: unknown setting %s", key)
		}
	}
	return "Success: new settings saved"
}

func (d *Device) handleLog(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	lines := make([]string, len(d.logs))
	copy(lines, d.logs)
	d.mu.Unlock()

	d.writeEnvelope(w, lines)
}

func (d *Device) handlePing(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	payload := map[string]interface{}{
		"id":     d.id,
		"uptime": int(time.Since(d.started).Seconds()),
	}
	d.mu.Unlock()

	d.writeEnvelope(w, payload)
}

func (d *Device) handleBlink(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	id := d.id
	d.logs = append(d.logs, "blink requested")
	d.mu.Unlock()

	d.writeEnvelope(w, map[string]string{"id": id})
}

// sensorNamesLocked lists sensor channel names; caller holds the lock
func sensorNamesLocked(sensors map[string]*sensor) []string {
	names := make([]string, 0, len(sensors))
	for name := range sensors {
		names = append(names, name)
	}
	return names
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
