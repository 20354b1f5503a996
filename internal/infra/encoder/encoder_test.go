package encoder

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
)

func TestEncode_RoundTrip(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 251)
	}

	payload, err := New().Encode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload.Base64)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("round trip mismatch: expected %d bytes back, got %d", len(data), len(decoded))
	}
	if payload.Frame != nil {
		t.Errorf("image payload should carry no frame")
	}
}

func TestEncode_RewindsConsumedReader(t *testing.T) {
	data := []byte("original file content")
	r := bytes.NewReader(data)

	// Simulate a previous partial read of the upload stream.
	if _, err := r.Read(make([]byte, 8)); err != nil {
		t.Fatalf("setup read failed: %v", err)
	}

	payload, err := New().Encode(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, _ := base64.StdEncoding.DecodeString(payload.Base64)
	if !bytes.Equal(decoded, data) {
		t.Errorf("expected full content %q, got %q", data, decoded)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk unplugged") }

func TestEncode_ReadFailure(t *testing.T) {
	_, err := New().Encode(failingReader{})
	if !errors.Is(err, media.ErrEncoding) {
		t.Errorf("expected ErrEncoding, got %v", err)
	}
}

func TestEncode_Empty(t *testing.T) {
	payload, err := New().Encode(io.LimitReader(bytes.NewReader(nil), 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Base64 != "" {
		t.Errorf("expected empty payload for empty input, got %q", payload.Base64)
	}
}
