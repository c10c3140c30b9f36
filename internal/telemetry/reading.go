package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the possible shapes of a telemetry field
type Kind int

const (
	// KindScalar is a bare numeric value
	KindScalar Kind = iota
	// KindPair is a [value, uncertainty] two-element sequence
	KindPair
	// KindText is a string value (device IDs, door events, etc.)
	KindText
	// KindRaw is anything else, kept verbatim
	KindRaw
)

// String returns a human-readable name for the reading kind
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindPair:
		return "pair"
	case KindText:
		return "text"
	case KindRaw:
		return "raw"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reading is one telemetry field. The device alternates between bare
// scalars and [value, uncertainty] pairs depending on firmware and
// configuration, so the shape is carried as an explicit tag rather than
// a dynamically typed value.
type Reading struct {
	kind        Kind
	value       float64
	uncertainty float64
	text        string
	raw         json.RawMessage
}

// NewScalar creates a bare numeric reading
func NewScalar(value float64) Reading {
	return Reading{kind: KindScalar, value: value}
}

// NewPair creates a [value, uncertainty] reading
func NewPair(value, uncertainty float64) Reading {
	return Reading{kind: KindPair, value: value, uncertainty: uncertainty}
}

// NewText creates a string reading
func NewText(text string) Reading {
	return Reading{kind: KindText, text: text}
}

// NewRaw creates a reading holding unclassified JSON verbatim
func NewRaw(raw json.RawMessage) Reading {
	return Reading{kind: KindRaw, raw: raw}
}

// Kind returns the shape tag of the reading
func (r Reading) Kind() Kind {
	return r.kind
}

// Value returns the numeric value for scalar and pair readings
func (r Reading) Value() (float64, bool) {
	if r.kind == KindScalar || r.kind == KindPair {
		return r.value, true
	}
	return 0, false
}

// Uncertainty returns the uncertainty half of a pair reading
func (r Reading) Uncertainty() (float64, bool) {
	if r.kind == KindPair {
		return r.uncertainty, true
	}
	return 0, false
}

// Text returns the string value of a text reading
func (r Reading) Text() (string, bool) {
	if r.kind == KindText {
		return r.text, true
	}
	return "", false
}

// Raw returns the verbatim JSON of a raw reading
func (r Reading) Raw() json.RawMessage {
	return r.raw
}

// Equal reports whether two readings have the same kind and payload
func (r Reading) Equal(other Reading) bool {
	if r.kind != other.kind {
		return false
	}
	switch r.kind {
	case KindScalar:
		return r.value == other.value
	case KindPair:
		return r.value == other.value && r.uncertainty == other.uncertainty
	case KindText:
		return r.text == other.text
	default:
		return bytes.Equal(bytes.TrimSpace(r.raw), bytes.TrimSpace(other.raw))
	}
}

// String formats the reading for display
func (r Reading) String() string {
	switch r.kind {
	case KindScalar:
		return strconv.FormatFloat(r.value, 'g', -1, 64)
	case KindPair:
		return fmt.Sprintf("%s ±%s",
			strconv.FormatFloat(r.value, 'g', -1, 64),
			strconv.FormatFloat(r.uncertainty, 'g', -1, 64))
	case KindText:
		return r.text
	default:
		return string(r.raw)
	}
}

// MarshalJSON renders the reading back in its wire shape
func (r Reading) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case KindScalar:
		return json.Marshal(r.value)
	case KindPair:
		return json.Marshal([2]float64{r.value, r.uncertainty})
	case KindText:
		return json.Marshal(r.text)
	default:
		if len(r.raw) == 0 {
			return []byte("null"), nil
		}
		return r.raw, nil
	}
}

// parseReading classifies one field value. It is total: anything that is
// not a number, a string, or a two-element numeric sequence is kept
// verbatim as a raw reading.
func parseReading(raw json.RawMessage) Reading {
	// json.Unmarshal treats null as a no-op on a *float64 target, which
	// would misclassify a null field as a zero scalar.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return NewRaw(raw)
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return NewScalar(num)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return NewText(text)
	}

	var pair []float64
	if err := json.Unmarshal(raw, &pair); err == nil && len(pair) == 2 {
		return NewPair(pair[0], pair[1])
	}

	return NewRaw(raw)
}

// isEmptyArray reports whether raw is the empty JSON array. The device
// ought never to send one, but drop_uncertainties-style handling treats
// it as an absent field instead of failing.
func isEmptyArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) < 2 || trimmed[0] != '[' {
		return false
	}
	inner := bytes.TrimSpace(trimmed[1 : len(trimmed)-1])
	return trimmed[len(trimmed)-1] == ']' && len(inner) == 0
}
