package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// deviceResponse builds the outer response body the way the device does
func deviceResponse(t *testing.T, inner string, key Key) []byte {
	t.Helper()
	content, err := Encrypt([]byte(inner), key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		t.Fatalf("marshal outer: %v", err)
	}
	return body
}

func TestDecodeResponse(t *testing.T) {
	key := DeriveKey("airqsetup")

	tests := []struct {
		name  string
		inner string
	}{
		{"object payload", `{"id":"a123f","devicename":"kitchen"}`},
		{"array payload", `["log line one","log line two"]`},
		{"string payload", `"Success: new setting saved for key 'devicename'"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeResponse(deviceResponse(t, tt.inner, key), key)
			if err != nil {
				t.Fatalf("DecodeResponse() error = %v", err)
			}
			if string(got) != tt.inner {
				t.Errorf("inner = %s, want %s", got, tt.inner)
			}
		})
	}
}

func TestDecodeResponseIgnoresExtraFields(t *testing.T) {
	key := DeriveKey("airqsetup")
	content, err := Encrypt([]byte(`{"health":1024}`), key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	body := `{"content":"` + content + `","uptime":12345,"request-count":7}`

	got, err := DecodeResponse([]byte(body), key)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if string(got) != `{"health":1024}` {
		t.Errorf("inner = %s", got)
	}
}

func TestDecodeResponseErrors(t *testing.T) {
	key := DeriveKey("airqsetup")

	tests := []struct {
		name      string
		body      string
		wantStage Stage
		wantAuth  bool
	}{
		{
			name:      "outer not JSON",
			body:      "<html>404 not found</html>",
			wantStage: StageOuterJSON,
			wantAuth:  false,
		},
		{
			name:      "outer missing content",
			body:      `{"status":200}`,
			wantStage: StageOuterJSON,
			wantAuth:  false,
		},
		{
			name:      "content not base64",
			body:      `{"content":"!!definitely not base64!!"}`,
			wantStage: StageBase64,
			wantAuth:  true,
		},
		{
			name:      "content too short",
			body:      `{"content":"AAAA"}`,
			wantStage: StageAlignment,
			wantAuth:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(tt.body), key)
			if err == nil {
				t.Fatal("DecodeResponse() succeeded, want error")
			}
			var envErr *EnvelopeError
			if !errors.As(err, &envErr) {
				t.Fatalf("error = %v, want EnvelopeError", err)
			}
			if envErr.Stage != tt.wantStage {
				t.Errorf("stage = %v, want %v", envErr.Stage, tt.wantStage)
			}
			if got := AuthenticationSuspected(err); got != tt.wantAuth {
				t.Errorf("AuthenticationSuspected() = %v, want %v", got, tt.wantAuth)
			}
		})
	}
}

func TestEncodeRequest(t *testing.T) {
	key := DeriveKey("airqsetup")

	body, err := EncodeRequest(map[string]bool{"reset": true}, key)
	if err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}

	if !strings.HasPrefix(body, RequestField+"=") {
		t.Fatalf("body = %q, want %q prefix", body, RequestField+"=")
	}

	wire := strings.TrimPrefix(body, RequestField+"=")
	plaintext, err := Decrypt(wire, key)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if string(plaintext) != `{"reset":true}` {
		t.Errorf("plaintext = %s, want {\"reset\":true}", plaintext)
	}
}

func TestEncodeRequestRoundTripThroughDecode(t *testing.T) {
	key := DeriveKey("a longer password than thirty-two bytes in total")

	payload := map[string]interface{}{
		"ledTheme": map[string]string{"left": "CO2", "right": "standard"},
	}
	body, err := EncodeRequest(payload, key)
	if err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}

	wire := strings.TrimPrefix(body, RequestField+"=")
	inner, err := DecodeContent(wire, key)
	if err != nil {
		t.Fatalf("DecodeContent() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(inner, &got); err != nil {
		t.Fatalf("unmarshal inner: %v", err)
	}
	theme, ok := got["ledTheme"].(map[string]interface{})
	if !ok {
		t.Fatalf("ledTheme missing from %v", got)
	}
	if theme["left"] != "CO2" || theme["right"] != "standard" {
		t.Errorf("ledTheme = %v", theme)
	}
}

func TestAuthenticationSuspected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"plain error", errors.New("connection refused"), false},
		{"outer JSON stage", &EnvelopeError{Stage: StageOuterJSON}, false},
		{"base64 stage", &EnvelopeError{Stage: StageBase64}, true},
		{"padding stage", &EnvelopeError{Stage: StagePadding}, true},
		{"inner JSON stage", &EnvelopeError{Stage: StageInnerJSON}, true},
		{
			name: "wrapped envelope error",
			err:  errors.Join(errors.New("request failed"), &EnvelopeError{Stage: StageUTF8}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthenticationSuspected(tt.err); got != tt.want {
				t.Errorf("AuthenticationSuspected() = %v, want %v", got, tt.want)
			}
		})
	}
}
