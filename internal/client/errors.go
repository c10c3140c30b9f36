package client

import (
	"errors"
	"fmt"

	"github.com/nanoklima/airq/internal/protocol"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a transport-level failure (connection
	// refused, timeout, DNS)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates a non-200 status code from the device
	ErrTypeHTTP
	// ErrTypeAuth indicates a suspected wrong password: the device
	// answered normally but the payload would not decode
	ErrTypeAuth
	// ErrTypeEnvelope indicates a malformed response that is not
	// attributable to the password (broken outer JSON)
	ErrTypeEnvelope
	// ErrTypeResponse indicates a decoded payload with unexpected
	// content (missing required fields, wrong shape)
	ErrTypeResponse
	// ErrTypeUsage indicates a caller error (unsupported subject,
	// invalid argument)
	ErrTypeUsage
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeEnvelope:
		return "Envelope Error"
	case ErrTypeResponse:
		return "Response Error"
	case ErrTypeUsage:
		return "Usage Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// DeviceError represents an error from one device operation
type DeviceError struct {
	Type    ErrorType
	Subject string // route the operation hit, e.g. "data"
	Err     error
}

func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s on /%s: %v", e.Type, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s on /%s", e.Type, e.Subject)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is a suspected wrong-password failure
func IsAuth(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeAuth
}

// classifyDecodeError maps an envelope decode failure to the right
// device error category. An intact outer response with a garbled inner
// payload is the wrong-password signature; a broken outer response is
// not the password's fault.
func classifyDecodeError(subject string, err error) *DeviceError {
	if protocol.AuthenticationSuspected(err) {
		return &DeviceError{Type: ErrTypeAuth, Subject: subject, Err: err}
	}
	return &DeviceError{Type: ErrTypeEnvelope, Subject: subject, Err: err}
}
