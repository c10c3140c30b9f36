package telemetry

import (
	"encoding/json"
)

// Field names with fixed meaning in every telemetry payload
const (
	// StatusKey is the per-sensor health field
	StatusKey = "Status"
	// TimestampKey is the epoch timestamp field
	TimestampKey = "timestamp"

	// statusOK is the exact string the device reports when no sensor
	// is warming up
	statusOK = "OK"
)

// Status is the device's per-sensor health report: either OK, or a map
// from sensor name to a human-readable warm-up message. The message text
// is display-only and never parsed further.
type Status struct {
	ok      bool
	warming map[string]string
}

// OKStatus returns the all-clear status
func OKStatus() Status {
	return Status{ok: true}
}

// WarmupStatus returns a status marking the given sensors as warming up
func WarmupStatus(messages map[string]string) Status {
	return Status{warming: messages}
}

// OK reports whether the device signalled the literal "OK" status
func (s Status) OK() bool {
	return s.ok
}

// WarmingUp returns the set of sensor names currently unable to report.
// Every key in the status map is, by construction, a warming-up sensor.
func (s Status) WarmingUp() map[string]bool {
	names := make(map[string]bool, len(s.warming))
	for name := range s.warming {
		names[name] = true
	}
	return names
}

// Message returns the warm-up message for a sensor, if any
func (s Status) Message(sensor string) (string, bool) {
	msg, ok := s.warming[sensor]
	return msg, ok
}

// MarshalJSON renders the status in its wire shape
func (s Status) MarshalJSON() ([]byte, error) {
	if s.ok {
		return json.Marshal(statusOK)
	}
	if s.warming == nil {
		return json.Marshal(map[string]string{})
	}
	return json.Marshal(s.warming)
}

// parseStatus accepts the two shapes the device emits and rejects
// everything else
func parseStatus(raw json.RawMessage) (Status, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == statusOK {
			return OKStatus(), nil
		}
		return Status{}, &ShapeError{Field: StatusKey, Reason: "unexpected status string " + text}
	}

	var warming map[string]string
	if err := json.Unmarshal(raw, &warming); err == nil {
		return WarmupStatus(warming), nil
	}

	return Status{}, &ShapeError{Field: StatusKey, Reason: "neither \"OK\" nor a sensor map"}
}

// Snapshot is one decoded telemetry reading at a point in time. It is
// built once by ParseSnapshot and treated as read-only afterwards; the
// normalizers return fresh snapshots instead of editing in place.
//
// Timestamp is kept in whatever epoch unit the device used. Consecutive
// snapshots from one device share a unit, which is all Compare needs.
type Snapshot struct {
	Timestamp float64
	Status    Status
	Fields    map[string]Reading
}

// ParseSnapshot builds a snapshot from a decoded /data or /average
// payload
func ParseSnapshot(raw json.RawMessage) (*Snapshot, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ShapeError{Reason: "payload is not a JSON object"}
	}

	statusRaw, ok := doc[StatusKey]
	if !ok {
		return nil, &ShapeError{Field: StatusKey, Reason: "missing"}
	}
	status, err := parseStatus(statusRaw)
	if err != nil {
		return nil, err
	}

	tsRaw, ok := doc[TimestampKey]
	if !ok {
		return nil, &ShapeError{Field: TimestampKey, Reason: "missing"}
	}
	var timestamp float64
	if err := json.Unmarshal(tsRaw, &timestamp); err != nil {
		return nil, &ShapeError{Field: TimestampKey, Reason: "not a number"}
	}

	fields := make(map[string]Reading, len(doc)-2)
	for name, value := range doc {
		if name == StatusKey || name == TimestampKey {
			continue
		}
		fields[name] = parseReading(value)
	}

	return &Snapshot{
		Timestamp: timestamp,
		Status:    status,
		Fields:    fields,
	}, nil
}

// MarshalJSON reassembles the snapshot into its wire shape
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(s.Fields)+2)
	for name, reading := range s.Fields {
		doc[name] = reading
	}
	doc[StatusKey] = s.Status
	doc[TimestampKey] = s.Timestamp
	return json.Marshal(doc)
}

// withFields returns a copy of the snapshot carrying the given field map
func (s *Snapshot) withFields(fields map[string]Reading) *Snapshot {
	return &Snapshot{
		Timestamp: s.Timestamp,
		Status:    s.Status,
		Fields:    fields,
	}
}
