// Package exporter publishes air-Q telemetry as Prometheus metrics.
//
// The exporter polls one or more devices on a fixed interval, mirrors
// their sensor readings into gauges, and tracks poll health. Consecutive
// snapshots are compared, so a sensor that disappears without a warm-up
// notice shows up both in the logs and in the
// airq_sensor_dropouts_total counter instead of silently going stale.
//
// # Metrics
//
//   - airq_sensor_value{device,sensor} - latest value after normalization
//   - airq_sensor_uncertainty{device,sensor} - reported measurement uncertainty
//   - airq_sensor_warming_up{device,sensor} - 1 during warm-up
//   - airq_device_up{device} - 1 if the last poll succeeded
//   - airq_device_timestamp{device} - device-reported timestamp
//   - airq_polls_total{device,result} - polls by outcome
//   - airq_sensor_dropouts_total{device,sensor} - unexplained disappearances
//
// # Usage Example
//
//	reg := prometheus.NewRegistry()
//	metrics := exporter.NewMetrics(reg)
//	poller := exporter.NewPoller(client.New(addr, password), deviceID, metrics, 10*time.Second)
//	go poller.Run(ctx)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package exporter
