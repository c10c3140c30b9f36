package protocol

import (
	"errors"
	"fmt"
)

// Stage identifies where envelope decoding failed.
type Stage int

const (
	// StageOuterJSON indicates the outer {"content": "..."} response
	// document could not be parsed or is missing the content field.
	StageOuterJSON Stage = iota
	// StageBase64 indicates the transport text is not valid base64.
	StageBase64
	// StageAlignment indicates the decoded envelope is shorter than
	// IV plus one block, or its ciphertext is not block-aligned.
	StageAlignment
	// StagePadding indicates the trailing pad byte is zero or claims
	// more bytes than the decrypted buffer holds.
	StagePadding
	// StageUTF8 indicates the decrypted plaintext is not valid UTF-8.
	StageUTF8
	// StageInnerJSON indicates the decrypted plaintext is not valid JSON.
	StageInnerJSON
)

// String returns a human-readable name for the decode stage
func (s Stage) String() string {
	switch s {
	case StageOuterJSON:
		return "outer JSON"
	case StageBase64:
		return "base64"
	case StageAlignment:
		return "block alignment"
	case StagePadding:
		return "padding"
	case StageUTF8:
		return "UTF-8"
	case StageInnerJSON:
		return "inner JSON"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// EnvelopeError reports a malformed envelope. Decoding is deterministic
// over the input bytes, so retrying the decode is pointless; the caller
// may retry the underlying network call instead. The Stage field lets
// callers distinguish a broken outer response from an inner payload that
// decrypted to garbage.
type EnvelopeError struct {
	Stage Stage
	Err   error
}

func (e *EnvelopeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed envelope (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("malformed envelope (%s)", e.Stage)
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}

// envelopeErrorf creates an EnvelopeError with a formatted message
func envelopeErrorf(stage Stage, format string, args ...interface{}) *EnvelopeError {
	return &EnvelopeError{Stage: stage, Err: fmt.Errorf(format, args...)}
}

// AuthenticationSuspected reports whether err looks like a wrong-password
// failure rather than a broken response. A wrong key produces garbage
// plaintext, not a distinct "wrong password" signal from the device: the
// outer response parses fine but the inner payload fails base64, padding,
// UTF-8, or JSON decoding with overwhelming probability. Callers should
// surface such failures as authentication errors, not protocol errors.
func AuthenticationSuspected(err error) bool {
	var envErr *EnvelopeError
	if !errors.As(err, &envErr) {
		return false
	}
	return envErr.Stage != StageOuterJSON
}
