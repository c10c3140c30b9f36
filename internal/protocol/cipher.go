package protocol

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// Cipher constants (fixed by the device firmware)
const (
	// KeySize is the AES-256 key length in bytes
	KeySize = 32

	// BlockSize is the AES block size used for padding and the IV
	BlockSize = aes.BlockSize

	// keyPadByte is appended to short passwords during key derivation.
	// The firmware pads with ASCII '0', not NUL.
	keyPadByte = '0'
)

// Key is a derived AES-256 key.
type Key [KeySize]byte

// DeriveKey derives the device key from a password. Passwords shorter
// than 32 bytes are right-padded with ASCII '0'; longer passwords are
// truncated to the first 32 bytes. This scheme has no salt and no
// stretching - it is a known weakness of the device firmware, and the
// key must stay bit-compatible with it, so do not substitute a real KDF.
func DeriveKey(password string) Key {
	var key Key
	n := copy(key[:], password)
	for i := n; i < KeySize; i++ {
		key[i] = keyPadByte
	}
	return key
}

// Encrypt encrypts plaintext with AES-256-CBC under a fresh random IV
// and returns the base64 transport form of IV || ciphertext.
func Encrypt(plaintext []byte, key Key) (string, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pad(plaintext)

	buf := make([]byte, BlockSize+len(padded))
	iv := buf[:BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(buf[BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt reverses Encrypt: base64-decodes the transport text, splits
// off the IV, decrypts the remainder, and strips the padding. All
// failures are reported as EnvelopeError with the failing stage.
func Decrypt(wire string, key Key) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(wire)
	if err != nil {
		return nil, &EnvelopeError{Stage: StageBase64, Err: err}
	}

	// The envelope is IV (one block) plus at least one ciphertext block
	if len(raw) < 2*BlockSize {
		return nil, envelopeErrorf(StageAlignment,
			"envelope is %d bytes, need at least %d", len(raw), 2*BlockSize)
	}

	iv := raw[:BlockSize]
	ciphertext := raw[BlockSize:]
	if len(ciphertext)%BlockSize != 0 {
		return nil, envelopeErrorf(StageAlignment,
			"ciphertext length %d is not a multiple of %d", len(ciphertext), BlockSize)
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return unpad(plaintext)
}

// pad applies byte-count padding: every pad byte holds the number of
// pad bytes added. A message that is already block-aligned still gets a
// full block of padding, so the last byte is always a pad count.
func pad(data []byte) []byte {
	n := BlockSize - len(data)%BlockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// unpad strips byte-count padding. The claimed pad length must be
// non-zero and must fit in the buffer; anything else means the message
// was not produced under this key.
func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, envelopeErrorf(StagePadding, "empty plaintext")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > len(data) {
		return nil, envelopeErrorf(StagePadding,
			"pad length %d invalid for %d-byte buffer", n, len(data))
	}
	return data[:len(data)-n], nil
}
