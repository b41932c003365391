package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/record"
)

func TestValidateRejectsColorWithoutEnable(t *testing.T) {
	c := Config{EnableColor: false, Color: &ColorConfig{}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestProcessBatchWritesConcatenated(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(Config{}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r1 := record.New(level.Info, "svc.a", "hello")
	r2 := record.New(level.Warn, "svc.b", "world")

	if err := s.ProcessBatch(context.Background(), [][]byte{record.Encode(&r1), record.Encode(&r2)}); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Fatalf("expected both messages in output, got %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
}

func TestColorEnabledInjectsResetAfterBraceColon(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(Config{EnableColor: true}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r := record.New(level.Error, "svc", "boom").WithSource("pkg", "main.go", 12)
	if err := s.Process(context.Background(), record.Encode(&r)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if !strings.Contains(buf.String(), reset+":") {
		t.Fatalf("expected reset sequence injected after '}:' literal, got %q", buf.String())
	}
}
