package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestIsKnownCode(t *testing.T) {
	for code := range knownCodes {
		if !strings.HasPrefix(code, "E_") || strings.ToUpper(code) != code {
			t.Errorf("code %q does not follow E_UPPER_SNAKE", code)
		}
		if !IsKnownCode(code) {
			t.Errorf("code %q not known", code)
		}
	}
	// Accepted ACKs carry no code.
	if !IsKnownCode("") {
		t.Fatalf("empty code rejected")
	}
	for _, c := range []string{"E_NO_SUCH_CODE", "e_illegal", "ILLEGAL", "E_ILLEGAL "} {
		if IsKnownCode(c) {
			t.Fatalf("accepted unknown code %q", c)
		}
	}
}

func TestCheckFrame(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		err  error
	}{
		{"cmd", `{"type":"CMD","protocol_version":"1.0","cmd":"ROLL_DICE"}`, TypeCmd, nil},
		{"hello for cmd", `{"type":"HELLO","protocol_version":"1.0","seat":0}`, TypeCmd, ErrFrameType},
		{"old version", `{"type":"HELLO","protocol_version":"0.9","seat":1}`, TypeHello, ErrVersionMismatch},
		{"no version", `{"type":"CMD","cmd":"PASS_TURN"}`, TypeCmd, ErrVersionMismatch},
	}
	for _, tc := range cases {
		err := CheckFrame([]byte(tc.raw), tc.want)
		if tc.err == nil && err != nil {
			t.Errorf("%s: %v", tc.name, err)
		}
		if tc.err != nil && !errors.Is(err, tc.err) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.err)
		}
	}
	if err := CheckFrame([]byte(`not json`), TypeCmd); err == nil {
		t.Fatalf("expected decode error")
	}
	if typ, err := FrameType([]byte(`{"type":"OBS","seq":3}`)); err != nil || typ != TypeObs {
		t.Fatalf("frame type %q err %v", typ, err)
	}
}
