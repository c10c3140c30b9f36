package exporter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nanoklima/airq/internal/client"
	"github.com/nanoklima/airq/internal/telemetry"
)

// fakeSource replays a scripted sequence of snapshots or errors
type fakeSource struct {
	snapshots []*telemetry.Snapshot
	errs      []error
	calls     int
}

func (f *fakeSource) LatestData(ctx context.Context, opts client.DataOptions) (*telemetry.Snapshot, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.snapshots) {
		i = len(f.snapshots) - 1
	}
	return f.snapshots[i], nil
}

func snapshotWith(timestamp float64, status telemetry.Status, fields map[string]telemetry.Reading) *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Timestamp: timestamp,
		Status:    status,
		Fields:    fields,
	}
}

func TestPollerPublishesValues(t *testing.T) {
	source := &fakeSource{snapshots: []*telemetry.Snapshot{
		snapshotWith(1000, telemetry.OKStatus(), map[string]telemetry.Reading{
			"co2":         telemetry.NewPair(620, 68),
			"temperature": telemetry.NewScalar(21.5),
			"DeviceID":    telemetry.NewText("a123f"),
		}),
	}}

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	poller := NewPoller(source, "a123f", metrics, time.Second)

	poller.Poll(context.Background())

	if got := testutil.ToFloat64(metrics.SensorValue.WithLabelValues("a123f", "co2")); got != 620 {
		t.Errorf("co2 value = %v, want 620", got)
	}
	if got := testutil.ToFloat64(metrics.SensorUncertainty.WithLabelValues("a123f", "co2")); got != 68 {
		t.Errorf("co2 uncertainty = %v, want 68", got)
	}
	if got := testutil.ToFloat64(metrics.SensorValue.WithLabelValues("a123f", "temperature")); got != 21.5 {
		t.Errorf("temperature value = %v, want 21.5", got)
	}
	if got := testutil.ToFloat64(metrics.DeviceUp.WithLabelValues("a123f")); got != 1 {
		t.Errorf("device_up = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.DeviceTimestamp.WithLabelValues("a123f")); got != 1000 {
		t.Errorf("device_timestamp = %v, want 1000", got)
	}
	if got := testutil.ToFloat64(metrics.PollsTotal.WithLabelValues("a123f", "success")); got != 1 {
		t.Errorf("polls_total{success} = %v, want 1", got)
	}

	// Text fields must not become series
	if got := testutil.CollectAndCount(metrics.SensorValue); got != 2 {
		t.Errorf("sensor_value series = %v, want 2", got)
	}
}

func TestPollerCountsUnexplainedDropouts(t *testing.T) {
	source := &fakeSource{snapshots: []*telemetry.Snapshot{
		snapshotWith(1000, telemetry.OKStatus(), map[string]telemetry.Reading{
			"co2":  telemetry.NewPair(620, 68),
			"tvoc": telemetry.NewPair(120, 20),
		}),
		snapshotWith(2000, telemetry.OKStatus(), map[string]telemetry.Reading{
			"co2": telemetry.NewPair(630, 68),
		}),
	}}

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	poller := NewPoller(source, "a123f", metrics, time.Second)

	ctx := context.Background()
	poller.Poll(ctx)
	poller.Poll(ctx)

	if got := testutil.ToFloat64(metrics.DropoutsTotal.WithLabelValues("a123f", "tvoc")); got != 1 {
		t.Errorf("dropouts_total{tvoc} = %v, want 1", got)
	}

	// The vanished sensor's value series is pruned, not left stale
	if got := testutil.CollectAndCount(metrics.SensorValue); got != 1 {
		t.Errorf("sensor_value series = %v, want 1", got)
	}
}

func TestPollerWarmupIsNotADropout(t *testing.T) {
	source := &fakeSource{snapshots: []*telemetry.Snapshot{
		snapshotWith(1000, telemetry.OKStatus(), map[string]telemetry.Reading{
			"co": telemetry.NewPair(0.9, 0.2),
		}),
		snapshotWith(2000, telemetry.WarmupStatus(map[string]string{
			"co": "co sensor still in warm up phase; waiting value 120 sec",
		}), map[string]telemetry.Reading{}),
	}}

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	poller := NewPoller(source, "a123f", metrics, time.Second)

	ctx := context.Background()
	poller.Poll(ctx)

	if got := testutil.ToFloat64(metrics.SensorWarmingUp.WithLabelValues("a123f", "co")); got != 0 {
		t.Errorf("warming_up before warm-up = %v, want 0", got)
	}

	poller.Poll(ctx)

	if got := testutil.ToFloat64(metrics.SensorWarmingUp.WithLabelValues("a123f", "co")); got != 1 {
		t.Errorf("warming_up during warm-up = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.DropoutsTotal.WithLabelValues("a123f", "co")); got != 0 {
		t.Errorf("dropouts_total{co} = %v, want 0 for an announced warm-up", got)
	}
}

func TestPollerFailure(t *testing.T) {
	source := &fakeSource{
		snapshots: []*telemetry.Snapshot{nil},
		errs:      []error{errors.New("connection refused")},
	}

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	poller := NewPoller(source, "a123f", metrics, time.Second)

	poller.Poll(context.Background())

	if got := testutil.ToFloat64(metrics.DeviceUp.WithLabelValues("a123f")); got != 0 {
		t.Errorf("device_up = %v, want 0", got)
	}
	if got := testutil.ToFloat64(metrics.PollsTotal.WithLabelValues("a123f", "error")); got != 1 {
		t.Errorf("polls_total{error} = %v, want 1", got)
	}
}
