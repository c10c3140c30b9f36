package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments the exporter maintains. All
// per-sensor series carry device and sensor labels so one exporter can
// front several devices.
type Metrics struct {
	SensorValue       *prometheus.GaugeVec
	SensorUncertainty *prometheus.GaugeVec
	SensorWarmingUp   *prometheus.GaugeVec

	DeviceUp        *prometheus.GaugeVec
	DeviceTimestamp *prometheus.GaugeVec

	PollsTotal    *prometheus.CounterVec
	DropoutsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the exporter's instruments on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SensorValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "airq",
			Name:      "sensor_value",
			Help:      "Latest sensor value, after normalization.",
		}, []string{"device", "sensor"}),

		SensorUncertainty: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "airq",
			Name:      "sensor_uncertainty",
			Help:      "Measurement uncertainty reported alongside the value.",
		}, []string{"device", "sensor"}),

		SensorWarmingUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "airq",
			Name:      "sensor_warming_up",
			Help:      "1 while the sensor is in its warm-up phase and reports no value.",
		}, []string{"device", "sensor"}),

		DeviceUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "airq",
			Name:      "device_up",
			Help:      "1 if the last poll of the device succeeded.",
		}, []string{"device"}),

		DeviceTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "airq",
			Name:      "device_timestamp",
			Help:      "Device-reported measurement timestamp, in the device's epoch unit.",
		}, []string{"device"}),

		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airq",
			Name:      "polls_total",
			Help:      "Device polls by outcome.",
		}, []string{"device", "result"}),

		DropoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airq",
			Name:      "sensor_dropouts_total",
			Help:      "Sensor disappearances not explained by a warm-up phase.",
		}, []string{"device", "sensor"}),
	}

	reg.MustRegister(
		m.SensorValue,
		m.SensorUncertainty,
		m.SensorWarmingUp,
		m.DeviceUp,
		m.DeviceTimestamp,
		m.PollsTotal,
		m.DropoutsTotal,
	)
	return m
}
