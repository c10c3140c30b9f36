// Package watch provides a live terminal dashboard for air-Q telemetry.
//
// The dashboard polls one device on a fixed interval and renders its
// sensor readings with per-poll deltas. Consecutive snapshots are
// compared, so warm-up phases, newly appearing sensors, and unexplained
// sensor losses are called out as they happen rather than buried in a
// scrolling log.
//
// # Key Bindings
//
//   - r: refresh immediately
//   - p: pause/resume polling
//   - u: toggle uncertainty display
//   - ?: expand help
//   - q: quit
//
// # Usage Example
//
//	c := client.New("192.168.1.50", password)
//	err := watch.Run(c, "Bedroom", 10*time.Second, client.DefaultDataOptions())
package watch
