package telemetry

// DropUncertainties replaces every [value, uncertainty] field with just
// its value. Scalars, text, Status, and timestamp pass through. A field
// holding an empty sequence becomes absent instead of failing. The
// transform is idempotent, commutes with ClipNegativeValues, and returns
// a fresh snapshot.
func DropUncertainties(s *Snapshot) *Snapshot {
	fields := make(map[string]Reading, len(s.Fields))
	for name, reading := range s.Fields {
		switch {
		case reading.kind == KindPair:
			fields[name] = NewScalar(reading.value)
		case reading.kind == KindRaw && isEmptyArray(reading.raw):
			// dropped entirely
		default:
			fields[name] = reading
		}
	}
	return s.withFields(fields)
}

// ClipNegativeValues clamps negative sensor values to zero. Only the
// value half of a pair is clamped; the uncertainty is reported as-is.
// Non-numeric fields pass through unchanged. The transform is idempotent,
// commutes with DropUncertainties, and returns a fresh snapshot.
func ClipNegativeValues(s *Snapshot) *Snapshot {
	fields := make(map[string]Reading, len(s.Fields))
	for name, reading := range s.Fields {
		switch reading.kind {
		case KindScalar:
			fields[name] = NewScalar(clip(reading.value))
		case KindPair:
			fields[name] = NewPair(clip(reading.value), reading.uncertainty)
		default:
			fields[name] = reading
		}
	}
	return s.withFields(fields)
}

func clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// canonicalKeys maps firmware field names that carry a hardware-revision
// suffix to the canonical sensor name. Devices with an SPS30 particulate
// sensor report its channels under suffixed keys.
var canonicalKeys = map[string]string{
	"pm1_SPS30":   "pm1",
	"pm2_5_SPS30": "pm2_5",
	"pm10_SPS30":  "pm10",
}

// CanonicalizeKeys renames hardware-suffixed field names to their
// canonical sensor names. Unsuffixed fields pass through unchanged. The
// transform is idempotent and returns a fresh snapshot.
func CanonicalizeKeys(s *Snapshot) *Snapshot {
	fields := make(map[string]Reading, len(s.Fields))
	for name, reading := range s.Fields {
		if canonical, ok := canonicalKeys[name]; ok {
			name = canonical
		}
		fields[name] = reading
	}
	return s.withFields(fields)
}
