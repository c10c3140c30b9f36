// Package protocol implements the air-Q device cipher envelope.
//
// air-Q sensors serve their HTTP API in an encrypted wrapper: every
// response body is a JSON object whose "content" field holds the base64
// encoding of IV || ciphertext, where the ciphertext is the AES-256-CBC
// encryption of a padded JSON document. Requests travel the other way as
// a form-encoded body with a single "request" field holding the same
// transport representation.
//
// # Key Derivation
//
// The AES key is derived from the device password by right-padding with
// ASCII '0' to 32 bytes, or truncating to the first 32 bytes. There is
// no salt and no iteration count. This is weak by modern standards, but
// it is what the firmware implements, and interoperability requires a
// bit-identical key, so this package reproduces it exactly.
//
// # Padding
//
// Plaintext is padded to the 16-byte block size with byte-count padding:
// each pad byte holds the number of pad bytes added. Block-aligned
// plaintext receives a full extra block of padding so that the last byte
// of a decrypted message is always a valid pad count.
//
// # Usage Example
//
//	key := protocol.DeriveKey("airqsetup")
//
//	// Decode a response body from the device
//	inner, err := protocol.DecodeResponse(body, key)
//	if err != nil {
//	    if protocol.AuthenticationSuspected(err) {
//	        // wrong password, most likely
//	    }
//	    return err
//	}
//
//	// Encode an outbound config change
//	body, err := protocol.EncodeRequest(map[string]bool{"reset": true}, key)
//
// # Wrong Passwords
//
// The device never signals a bad password. Decrypting with the wrong key
// yields garbage that fails padding, UTF-8, or JSON checks with
// overwhelming probability. Every decode failure carries the stage at
// which it occurred; AuthenticationSuspected classifies failures where
// the outer response was intact but the inner payload was not, which is
// exactly the wrong-password signature.
//
// # Thread Safety
//
// All functions are pure given their inputs (plus the random IV chosen
// during encryption) and safe for concurrent use.
package protocol
