package record

import (
	"context"
	"errors"
	"testing"

	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/rcontext"
)

func TestRecordRoundTrip(t *testing.T) {
	r := New(level.Warn, "billing.invoices", "invoice generated")
	r = r.WithSource("billing/invoices", "invoices.go", 42)
	r.AuthToken = "tok-123"
	r.AppID = "billing"
	r.Ctx = rcontext.Extract(context.Background())

	got, err := Decode(Encode(&r))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != r {
		t.Fatalf("round trip mismatch:\n got  %#v\n want %#v", got, r)
	}
}

func TestDecodeUnknownLevelTag(t *testing.T) {
	var buf []byte
	buf = appendString(buf, "not-a-level")
	buf = appendString(buf, "")
	buf = appendString(buf, "")
	buf = appendString(buf, "")
	buf = appendString(buf, "")
	buf = appendString(buf, "")
	buf = appendString(buf, "")
	buf = append(buf, 0, 0, 0, 0)
	buf = appendString(buf, "")
	buf = appendString(buf, "")

	_, err := Decode(buf)
	if !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte{4, 0, 0, 0, 'i', 'n', 'f', 'o', 1, 0})
	if !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData for truncated payload, got %v", err)
	}
}

func TestNetRecordRoundTrip(t *testing.T) {
	r := New(level.Error, "gateway.auth", "token rejected")
	r = r.WithSource("gateway/auth", "auth.go", 7)
	n := NewNetRecord(&r, "auth-tok", "gateway")

	got, err := DecodeNet(EncodeNet(&n))
	if err != nil {
		t.Fatalf("DecodeNet: %v", err)
	}
	if got != n {
		t.Fatalf("net record round trip mismatch:\n got  %#v\n want %#v", got, n)
	}
}
