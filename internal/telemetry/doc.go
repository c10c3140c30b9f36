// Package telemetry models decoded air-Q sensor readings and classifies
// how consecutive readings relate to each other.
//
// # Data Model
//
// A decoded /data or /average payload is a flat JSON object whose shape
// shifts with firmware and configuration: sensor fields are either a
// bare number or a [value, uncertainty] pair, the "Status" field is
// either the literal string "OK" or an object mapping sensor names to
// warm-up messages, and "timestamp" is an epoch number whose unit the
// device does not guarantee. Each field is parsed into a Reading, a
// small tagged union, so downstream logic can switch over kinds instead
// of poking at interface{} values.
//
// # Comparison
//
// Compare takes the current and previous Snapshot and produces a
// ComparisonSummary: which sensors are warming up, which fields vanished
// (and whether warm-up accounts for the absence), which appeared, and
// the per-field numeric delta. The device's sensor set is runtime
// configurable, so none of this assumes a fixed field list. The caller
// owns the previous snapshot and threads it through explicitly; Compare
// is a pure function and safe to run concurrently across devices.
//
// # Normalizers
//
// DropUncertainties and ClipNegativeValues are pure snapshot transforms
// that commute and are idempotent. They return fresh snapshots and never
// modify their input.
package telemetry
