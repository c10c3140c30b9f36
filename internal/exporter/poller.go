package exporter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nanoklima/airq/internal/client"
	"github.com/nanoklima/airq/internal/logging"
	"github.com/nanoklima/airq/internal/telemetry"
)

// DefaultInterval is the default poll interval. The firmware refreshes
// its rolling average every couple of seconds; polling much faster than
// this only reads the same numbers twice.
const DefaultInterval = 10 * time.Second

// DataSource is the slice of the device client the poller needs
type DataSource interface {
	LatestData(ctx context.Context, opts client.DataOptions) (*telemetry.Snapshot, error)
}

// Poller periodically fetches telemetry from one device and mirrors it
// into the exporter's metrics. It threads the previous snapshot through
// each cycle so sensor dropouts can be told apart from warm-up phases.
type Poller struct {
	source   DataSource
	deviceID string
	metrics  *Metrics
	interval time.Duration
	opts     client.DataOptions

	previous *telemetry.Snapshot
	// known tracks sensors seen at least once, so stale series can be
	// zeroed or dropped when a sensor goes away
	known map[string]bool

	log *zap.Logger
}

// NewPoller creates a poller for one device. The deviceID is used as
// the metric label; it should be the stable device id, not the address.
func NewPoller(source DataSource, deviceID string, metrics *Metrics, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	opts := client.DefaultDataOptions()
	opts.KeepUncertainties = true
	return &Poller{
		source:   source,
		deviceID: deviceID,
		metrics:  metrics,
		interval: interval,
		opts:     opts,
		known:    make(map[string]bool),
		log:      logging.GetLogger(),
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one fetch-and-publish cycle
func (p *Poller) Poll(ctx context.Context) {
	snapshot, err := p.source.LatestData(ctx, p.opts)
	if err != nil {
		p.metrics.DeviceUp.WithLabelValues(p.deviceID).Set(0)
		p.metrics.PollsTotal.WithLabelValues(p.deviceID, "error").Inc()
		p.log.Warn("Device poll failed",
			zap.String("device", p.deviceID),
			zap.Error(err),
		)
		return
	}

	p.metrics.DeviceUp.WithLabelValues(p.deviceID).Set(1)
	p.metrics.PollsTotal.WithLabelValues(p.deviceID, "success").Inc()
	p.metrics.DeviceTimestamp.WithLabelValues(p.deviceID).Set(snapshot.Timestamp)

	p.publishFields(snapshot)
	p.publishWarmup(snapshot)

	if p.previous != nil {
		p.publishComparison(snapshot)
	}
	p.previous = snapshot
}

// publishFields mirrors the snapshot's numeric fields into the gauges
func (p *Poller) publishFields(snapshot *telemetry.Snapshot) {
	for name, reading := range snapshot.Fields {
		value, ok := reading.Value()
		if !ok {
			// Text and raw fields have no numeric rendering
			continue
		}
		p.metrics.SensorValue.WithLabelValues(p.deviceID, name).Set(value)
		if uncertainty, ok := reading.Uncertainty(); ok {
			p.metrics.SensorUncertainty.WithLabelValues(p.deviceID, name).Set(uncertainty)
		}
		p.known[name] = true
	}
}

// publishWarmup maintains the warming-up gauge for every sensor the
// poller has ever seen, plus the ones named by the current status
func (p *Poller) publishWarmup(snapshot *telemetry.Snapshot) {
	warming := snapshot.Status.WarmingUp()
	for name := range warming {
		p.metrics.SensorWarmingUp.WithLabelValues(p.deviceID, name).Set(1)
		p.known[name] = true
	}
	for name := range p.known {
		if !warming[name] {
			p.metrics.SensorWarmingUp.WithLabelValues(p.deviceID, name).Set(0)
		}
	}
}

// publishComparison classifies changes against the previous snapshot,
// counting unexplained dropouts and pruning series for vanished sensors
func (p *Poller) publishComparison(snapshot *telemetry.Snapshot) {
	summary := telemetry.Compare(snapshot, p.previous)

	logging.LogComparison(p.deviceID,
		setNames(summary.WarmingUp),
		setNames(summary.MissingKeys),
		setNames(summary.UnaccountablyMissingKeys),
	)

	for name := range summary.UnaccountablyMissingKeys {
		p.metrics.DropoutsTotal.WithLabelValues(p.deviceID, name).Inc()
		p.log.Warn("Sensor disappeared without a warm-up notice",
			zap.String("device", p.deviceID),
			zap.String("sensor", name),
		)
	}

	for name := range summary.MissingKeys {
		p.metrics.SensorValue.DeleteLabelValues(p.deviceID, name)
		p.metrics.SensorUncertainty.DeleteLabelValues(p.deviceID, name)
	}

	if len(summary.NewValues) > 0 {
		names := make([]string, 0, len(summary.NewValues))
		for name := range summary.NewValues {
			names = append(names, name)
		}
		p.log.Info("New sensors reporting",
			zap.String("device", p.deviceID),
			zap.Strings("sensors", names),
		)
	}
}

func setNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}
