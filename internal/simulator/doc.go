// Package simulator implements a fake air-Q device.
//
// The simulator serves the same routes as real firmware (/data, /average,
// /config, /log, /ping, /blink and POST /config) with properly encrypted
// envelopes for a configured password. It exists for two reasons: client
// and exporter tests need a device that speaks the wire protocol, and
// the CLI tools need something to talk to during development without
// hardware on the bench.
//
// Sensor warm-up can be scripted, which makes it possible to drive the
// telemetry differencer through reboot and sensor-loss scenarios end to
// end:
//
//	dev := simulator.New(simulator.Config{Password: "airqsetup", ID: "a123f"})
//	dev.StartWarmup(30*time.Second, "co", "o3")
//	srv := httptest.NewServer(dev.Handler())
//
// The simulator applies the same form-field convention as the firmware:
// the request value is the raw base64 text, not percent-escaped, so the
// body is split manually rather than through url.ParseQuery.
package simulator
