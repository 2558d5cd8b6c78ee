package datauri

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xFF}

	uri := Encode("image/png", payload)
	if uri[:22] != "data:image/png;base64," {
		t.Fatalf("unexpected prefix: %s", uri)
	}

	mimeType, data, err := Decode(uri)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mimeType != "image/png" {
		t.Errorf("expected image/png, got %q", mimeType)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("payload mismatch: %v", data)
	}
}

func TestDecode_BareBase64(t *testing.T) {
	mimeType, data, err := Decode("aGVsbG8=")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mimeType != "" {
		t.Errorf("expected empty media type, got %q", mimeType)
	}
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []string{
		"data:image/png;base64",          // no comma
		"data:text/plain,hello",          // not base64
		"data:image/png;base64,!!notb64", // bad payload
	}

	for _, uri := range tests {
		if _, _, err := Decode(uri); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q): expected ErrMalformed, got %v", uri, err)
		}
	}
}
