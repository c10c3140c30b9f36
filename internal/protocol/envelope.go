package protocol

import (
	"encoding/json"
	"unicode/utf8"
)

// RequestField is the form field carrying the encrypted request body
const RequestField = "request"

// outerResponse is the device's response wrapper. The device may add
// other top-level fields; only content matters here.
type outerResponse struct {
	Content *string `json:"content"`
}

// DecodeResponse decodes a full device response body: parses the outer
// {"content": "<base64>"} wrapper and then decrypts and parses the inner
// payload. The returned RawMessage is the inner JSON document, which may
// be an object, array, or scalar depending on the route.
func DecodeResponse(body []byte, key Key) (json.RawMessage, error) {
	var outer outerResponse
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, &EnvelopeError{Stage: StageOuterJSON, Err: err}
	}
	if outer.Content == nil {
		return nil, envelopeErrorf(StageOuterJSON, "response has no content field")
	}
	return DecodeContent(*outer.Content, key)
}

// DecodeContent decrypts and parses an inner payload for callers that
// already extracted the base64 content string themselves.
func DecodeContent(content string, key Key) (json.RawMessage, error) {
	plaintext, err := Decrypt(content, key)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(plaintext) {
		return nil, envelopeErrorf(StageUTF8, "plaintext is not valid UTF-8")
	}

	var inner json.RawMessage
	if err := json.Unmarshal(plaintext, &inner); err != nil {
		return nil, &EnvelopeError{Stage: StageInnerJSON, Err: err}
	}
	return inner, nil
}

// EncodeRequest serializes payload to JSON, encrypts it, and returns the
// form-encoded request body the device expects. The device reads the
// base64 text verbatim, so the value is deliberately not percent-escaped.
func EncodeRequest(payload interface{}, key Key) (string, error) {
	text, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	wire, err := Encrypt(text, key)
	if err != nil {
		return "", err
	}
	return RequestField + "=" + wire, nil
}
