package telemetry

import "fmt"

// ShapeError reports a telemetry payload that violates the data model,
// such as a Status field that is neither the literal "OK" nor a map of
// sensor names to warm-up messages. Shape violations are hard failures;
// they are never papered over with a default.
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid telemetry payload: %s", e.Reason)
	}
	return fmt.Sprintf("invalid telemetry field %q: %s", e.Field, e.Reason)
}
