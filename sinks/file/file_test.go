package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dirpx.dev/pulselog/compress"
	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/record"
)

func TestValidateRejectsRawWithFormat(t *testing.T) {
	f := FormatConfig{}
	c := Config{IsRaw: true, Format: &f, MaxFileSize: 1024}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for IsRaw+Format")
	}
}

func TestValidateRejectsNonPositiveMaxFileSize(t *testing.T) {
	c := Config{MaxFileSize: 0}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for MaxFileSize <= 0")
	}
}

func TestProcessWritesAndSkipsServerLogs(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{LogDir: dir, MaxFileSize: 1 << 20, SkipServerLogs: true}, compress.New(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	kept := record.New(level.Info, "svc", "kept")
	kept.AppID = "tenant-a"
	dropped := record.New(level.Info, "svc", "dropped")

	if err := s.ProcessBatch(context.Background(), [][]byte{record.Encode(&kept), record.Encode(&dropped)}); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if err := s.Cleanup(context.Background()); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one active file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "kept") || strings.Contains(string(data), "dropped") {
		t.Fatalf("expected only the tenant-tagged record to be written, got %q", data)
	}
}

func TestRotationNeverDeletesActiveFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{LogDir: dir, MaxFileSize: 32, MaxCompressedFiles: 5}, compress.New(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 10; i++ {
		r := record.New(level.Info, "svc", "a reasonably long message to force rotation")
		if err := s.Process(context.Background(), record.Encode(&r)); err != nil {
			t.Fatalf("Process: %v", err)
		}
	}

	time.Sleep(200 * time.Millisecond)
	if err := s.Cleanup(context.Background()); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) < 2 {
		t.Fatalf("expected rotation to have produced more than one file, got %d", len(entries))
	}
}
