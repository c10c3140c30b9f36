// Package client implements the HTTP client for air-Q devices.
//
// An air-Q serves a small HTTP API on port 80 of its IP or mDNS address.
// Every response body is an encrypted envelope (see internal/protocol);
// configuration changes travel as encrypted form posts to /config. This
// package wraps the routes the device supports:
//
//   - /data     latest measurement
//   - /average  rolling average measurement
//   - /config   device configuration (GET to read, POST to change)
//   - /log      device log lines
//   - /ping     cheap reachability and password check
//   - /blink    flash the LEDs, returns the device id
//
// # Usage Example
//
//	c := client.New("192.168.4.20", "airqsetup")
//
//	snapshot, err := c.Data(ctx)
//	if err != nil {
//	    if client.IsAuth(err) {
//	        // wrong password
//	    }
//	    return err
//	}
//
//	info, err := c.DeviceInfo(ctx)
//
// # Authentication
//
// The device never reports a bad password. A wrong key shows up as an
// envelope that fails to decode; the client reclassifies those failures
// as authentication errors when the outer response was intact. Use
// IsAuth to test for them.
//
// # State
//
// The client holds no telemetry state. Callers that want comparisons
// keep the previous snapshot themselves and hand both to
// telemetry.Compare.
//
// # Thread Safety
//
// A Client is safe for concurrent use; it carries only immutable
// configuration and the shared http.Client.
package client
