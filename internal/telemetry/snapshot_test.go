package telemetry

import (
	"encoding/json"
	"errors"
	"testing"
)

func mustSnapshot(t *testing.T, doc string) *Snapshot {
	t.Helper()
	s, err := ParseSnapshot(json.RawMessage(doc))
	if err != nil {
		t.Fatalf("ParseSnapshot(%s) error = %v", doc, err)
	}
	return s
}

func TestParseSnapshot(t *testing.T) {
	s := mustSnapshot(t, `{
		"timestamp": 1621223828000,
		"Status": "OK",
		"temperature": [18.9, 0.6],
		"humidity": 63.0,
		"DeviceID": "a123f",
		"door_event": null
	}`)

	if s.Timestamp != 1621223828000 {
		t.Errorf("Timestamp = %v, want 1621223828000", s.Timestamp)
	}
	if !s.Status.OK() {
		t.Error("Status.OK() = false, want true")
	}

	temp, ok := s.Fields["temperature"]
	if !ok || temp.Kind() != KindPair {
		t.Fatalf("temperature = %v, want pair", temp)
	}
	if v, _ := temp.Value(); v != 18.9 {
		t.Errorf("temperature value = %v, want 18.9", v)
	}
	if u, _ := temp.Uncertainty(); u != 0.6 {
		t.Errorf("temperature uncertainty = %v, want 0.6", u)
	}

	hum := s.Fields["humidity"]
	if hum.Kind() != KindScalar {
		t.Errorf("humidity kind = %v, want scalar", hum.Kind())
	}

	id := s.Fields["DeviceID"]
	if text, ok := id.Text(); !ok || text != "a123f" {
		t.Errorf("DeviceID = %v, want text a123f", id)
	}

	if s.Fields["door_event"].Kind() != KindRaw {
		t.Errorf("door_event kind = %v, want raw", s.Fields["door_event"].Kind())
	}

	// Status and timestamp never show up as ordinary fields
	if _, ok := s.Fields[StatusKey]; ok {
		t.Error("Status leaked into Fields")
	}
	if _, ok := s.Fields[TimestampKey]; ok {
		t.Error("timestamp leaked into Fields")
	}
}

func TestParseSnapshotWarmupStatus(t *testing.T) {
	s := mustSnapshot(t, `{
		"timestamp": 1621223828000,
		"Status": {
			"co": "co sensor still in warm up phase; waiting time = 90 s",
			"o3": "o3 sensor still in warm up phase; waiting time = 90 s"
		},
		"humidity": [63.0, 4.0]
	}`)

	if s.Status.OK() {
		t.Error("Status.OK() = true, want false")
	}

	warming := s.Status.WarmingUp()
	if len(warming) != 2 || !warming["co"] || !warming["o3"] {
		t.Errorf("WarmingUp() = %v, want {co, o3}", warming)
	}

	msg, ok := s.Status.Message("co")
	if !ok || msg != "co sensor still in warm up phase; waiting time = 90 s" {
		t.Errorf("Message(co) = %q, %v", msg, ok)
	}
}

func TestStatusOKWarmingUpEmpty(t *testing.T) {
	s := mustSnapshot(t, `{"timestamp": 1, "Status": "OK"}`)
	if got := s.Status.WarmingUp(); len(got) != 0 {
		t.Errorf("WarmingUp() = %v, want empty", got)
	}
}

func TestParseSnapshotShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"payload is an array", `[1, 2, 3]`},
		{"status missing", `{"timestamp": 1}`},
		{"status wrong string", `{"timestamp": 1, "Status": "ok"}`},
		{"status is a number", `{"timestamp": 1, "Status": 200}`},
		{"status map with non-string value", `{"timestamp": 1, "Status": {"co": 90}}`},
		{"timestamp missing", `{"Status": "OK"}`},
		{"timestamp not a number", `{"timestamp": "later", "Status": "OK"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot(json.RawMessage(tt.doc))
			if err == nil {
				t.Fatal("ParseSnapshot() succeeded, want error")
			}
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Errorf("error = %v, want ShapeError", err)
			}
		})
	}
}

func TestSnapshotMarshalRoundTrip(t *testing.T) {
	original := `{
		"timestamp": 1621223828000,
		"Status": {"co": "warming"},
		"temperature": [18.9, 0.6],
		"humidity": 63.5,
		"DeviceID": "a123f"
	}`
	s := mustSnapshot(t, original)

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	again, err := ParseSnapshot(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	if again.Timestamp != s.Timestamp {
		t.Errorf("timestamp changed: %v != %v", again.Timestamp, s.Timestamp)
	}
	if len(again.Fields) != len(s.Fields) {
		t.Fatalf("field count changed: %d != %d", len(again.Fields), len(s.Fields))
	}
	for name, reading := range s.Fields {
		if !again.Fields[name].Equal(reading) {
			t.Errorf("field %q changed: %v != %v", name, again.Fields[name], reading)
		}
	}
	if !again.Status.WarmingUp()["co"] {
		t.Error("warm-up status lost in round trip")
	}
}

func TestParseReadingClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{"integer", `604`, KindScalar},
		{"float", `63.26`, KindScalar},
		{"pair", `[604.0, 68.1]`, KindPair},
		{"string", `"open"`, KindText},
		{"boolean", `true`, KindRaw},
		{"null", `null`, KindRaw},
		{"one element array", `[604.0]`, KindRaw},
		{"three element array", `[1, 2, 3]`, KindRaw},
		{"array of strings", `["a", "b"]`, KindRaw},
		{"object", `{"x": 1}`, KindRaw},
		{"empty array", `[]`, KindRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseReading(json.RawMessage(tt.raw))
			if got.Kind() != tt.want {
				t.Errorf("kind = %v, want %v", got.Kind(), tt.want)
			}
		})
	}
}
