package telemetry

// ComparisonSummary classifies the relationship between two consecutive
// snapshots from the same device. All fields are computed eagerly by
// Compare and the value is immutable afterwards.
type ComparisonSummary struct {
	// WarmingUp is the set of sensors warming up in the current
	// snapshot. A warming sensor may still carry a (stale or partial)
	// value; the value is reported as usual and only the name is
	// tagged here.
	WarmingUp map[string]bool

	// MissingKeys are fields present in the previous snapshot but
	// absent from the current one. Status and timestamp never appear
	// here.
	MissingKeys map[string]bool

	// UnaccountablyMissingKeys is the subset of MissingKeys not
	// explained by warm-up in either snapshot. An accountable absence
	// is the expected transient of a sensor entering warm-up; an
	// unaccountable one points at a hardware fault or a reboot into an
	// incompatible configuration.
	UnaccountablyMissingKeys map[string]bool

	// NewValues are fields present in the current snapshot but absent
	// from the previous one, with their current readings.
	NewValues map[string]Reading

	// Difference holds the elementwise delta current − previous for
	// every numeric field present in both snapshots, plus the
	// timestamp delta under the "timestamp" key, in whatever epoch
	// unit the source used. Pairs subtract literally, value-wise and
	// uncertainty-wise; uncertainties are not combined in quadrature.
	Difference map[string]Reading
}

// Compare computes the summary for a current snapshot against the
// previous one. It is a pure function: the caller owns and threads the
// previous snapshot, which keeps comparison trivially parallelizable
// across many devices.
func Compare(current, previous *Snapshot) ComparisonSummary {
	warming := current.Status.WarmingUp()
	prevWarming := previous.Status.WarmingUp()

	summary := ComparisonSummary{
		WarmingUp:                warming,
		MissingKeys:              make(map[string]bool),
		UnaccountablyMissingKeys: make(map[string]bool),
		NewValues:                make(map[string]Reading),
		Difference:               make(map[string]Reading),
	}

	for name := range previous.Fields {
		if _, ok := current.Fields[name]; ok {
			continue
		}
		summary.MissingKeys[name] = true
		if !warming[name] && !prevWarming[name] {
			summary.UnaccountablyMissingKeys[name] = true
		}
	}

	for name, cur := range current.Fields {
		prev, ok := previous.Fields[name]
		if !ok {
			summary.NewValues[name] = cur
			continue
		}
		if delta, ok := subtract(cur, prev); ok {
			summary.Difference[name] = delta
		}
	}

	summary.Difference[TimestampKey] = NewScalar(current.Timestamp - previous.Timestamp)

	return summary
}

// subtract computes the elementwise delta of two readings of the same
// numeric kind. Text, raw, and kind-mismatched fields have no meaningful
// delta and are left out of the difference map.
func subtract(cur, prev Reading) (Reading, bool) {
	switch {
	case cur.kind == KindScalar && prev.kind == KindScalar:
		return NewScalar(cur.value - prev.value), true
	case cur.kind == KindPair && prev.kind == KindPair:
		return NewPair(cur.value-prev.value, cur.uncertainty-prev.uncertainty), true
	default:
		return Reading{}, false
	}
}
