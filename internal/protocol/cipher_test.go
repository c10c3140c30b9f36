package protocol

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{
			name:     "short password padded with zeros",
			password: "airqsetup",
			want:     "airqsetup" + strings.Repeat("0", 23),
		},
		{
			name:     "empty password is all pad bytes",
			password: "",
			want:     strings.Repeat("0", 32),
		},
		{
			name:     "exact length password unchanged",
			password: strings.Repeat("a", 32),
			want:     strings.Repeat("a", 32),
		},
		{
			name:     "long password truncated",
			password: strings.Repeat("b", 40),
			want:     strings.Repeat("b", 32),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := DeriveKey(tt.password)
			if len(key) != KeySize {
				t.Fatalf("key length = %d, want %d", len(key), KeySize)
			}
			if string(key[:]) != tt.want {
				t.Errorf("key = %q, want %q", key[:], tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name    string
		dataLen int
		wantLen int
		wantPad byte
	}{
		{"empty gets full block", 0, 16, 16},
		{"one byte", 1, 16, 15},
		{"fifteen bytes", 15, 16, 1},
		{"block aligned gets extra block", 16, 32, 16},
		{"two blocks minus one", 31, 32, 1},
		{"two blocks aligned", 32, 48, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bytes.Repeat([]byte{'x'}, tt.dataLen)
			padded := pad(data)

			if len(padded) != tt.wantLen {
				t.Errorf("padded length = %d, want %d", len(padded), tt.wantLen)
			}
			if len(padded)%BlockSize != 0 {
				t.Errorf("padded length %d not block aligned", len(padded))
			}
			if got := padded[len(padded)-1]; got != tt.wantPad {
				t.Errorf("pad byte = %d, want %d", got, tt.wantPad)
			}
			if !bytes.Equal(padded[:tt.dataLen], data) {
				t.Error("padding modified the message bytes")
			}
		})
	}
}

func TestUnpad(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    []byte
		wantErr bool
	}{
		{
			name: "valid single pad byte",
			data: append(bytes.Repeat([]byte{'a'}, 15), 1),
			want: bytes.Repeat([]byte{'a'}, 15),
		},
		{
			name: "full pad block",
			data: bytes.Repeat([]byte{16}, 16),
			want: []byte{},
		},
		{
			name:    "zero pad byte",
			data:    append(bytes.Repeat([]byte{'a'}, 15), 0),
			wantErr: true,
		},
		{
			name:    "pad exceeds buffer",
			data:    []byte{'a', 'b', 200},
			wantErr: true,
		},
		{
			name:    "empty buffer",
			data:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unpad(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unpad() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var envErr *EnvelopeError
				if !errors.As(err, &envErr) || envErr.Stage != StagePadding {
					t.Errorf("error = %v, want EnvelopeError at padding stage", err)
				}
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("unpad() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := DeriveKey("correct horse battery staple")

	tests := []struct {
		name      string
		plaintext string
	}{
		{"short object", `{"id":"a123f"}`},
		{"empty object", `{}`},
		{"array", `[1,2,3]`},
		{"bare string", `"Success: reset command received"`},
		{"block aligned payload", strings.Repeat("x", 32)},
		{"non-ascii", `{"name":"Büro"}`},
		{"large payload", `{"data":"` + strings.Repeat("measurement ", 200) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := Encrypt([]byte(tt.plaintext), key)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			got, err := Decrypt(wire, key)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if string(got) != tt.plaintext {
				t.Errorf("round trip = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncryptUsesFreshIV(t *testing.T) {
	key := DeriveKey("password")
	plaintext := []byte(`{"health":1024}`)

	first, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	second, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if first == second {
		t.Error("two encryptions of the same plaintext produced identical envelopes")
	}
}

func TestDecryptMalformedEnvelopes(t *testing.T) {
	key := DeriveKey("password")

	tests := []struct {
		name      string
		wire      string
		wantStage Stage
	}{
		{
			name:      "not base64",
			wire:      "this is %% not base64 !!",
			wantStage: StageBase64,
		},
		{
			name:      "shorter than IV plus one block",
			wire:      base64.StdEncoding.EncodeToString(make([]byte, 24)),
			wantStage: StageAlignment,
		},
		{
			name:      "ciphertext not block aligned",
			wire:      base64.StdEncoding.EncodeToString(make([]byte, 16+20)),
			wantStage: StageAlignment,
		},
		{
			name:      "empty wire string",
			wire:      "",
			wantStage: StageAlignment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.wire, key)
			if err == nil {
				t.Fatal("Decrypt() succeeded, want error")
			}
			var envErr *EnvelopeError
			if !errors.As(err, &envErr) {
				t.Fatalf("error = %v, want EnvelopeError", err)
			}
			if envErr.Stage != tt.wantStage {
				t.Errorf("stage = %v, want %v", envErr.Stage, tt.wantStage)
			}
		})
	}
}

// Flipping any ciphertext byte garbles a full plaintext block, so the
// decode must fail at padding, UTF-8, or JSON validation. This is a
// probabilistic guarantee, but the failure odds per flip are far below
// anything a test run would ever observe.
func TestDecodeContentTamperedCiphertext(t *testing.T) {
	key := DeriveKey("password")

	wire, err := Encrypt([]byte(`{"id":"a123f","health":1024}`), key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(wire)
	if err != nil {
		t.Fatalf("base64 decode: %v", err)
	}

	for pos := BlockSize; pos < len(raw); pos++ {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[pos] ^= 0x40

		_, err := DecodeContent(base64.StdEncoding.EncodeToString(tampered), key)
		if err == nil {
			t.Errorf("flip at byte %d: decode succeeded, want failure", pos)
		}
	}
}

func TestDecodeContentWrongKey(t *testing.T) {
	wire, err := Encrypt([]byte(`{"id":"a123f"}`), DeriveKey("rightpassword"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	_, err = DecodeContent(wire, DeriveKey("wrongpassword"))
	if err == nil {
		t.Fatal("decode with wrong key succeeded")
	}
	if !AuthenticationSuspected(err) {
		t.Errorf("AuthenticationSuspected() = false for %v, want true", err)
	}
}
