package compress

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSubmitCompressesAndDeletesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app_20260101_000000.log")
	if err := os.WriteFile(src, []byte("hello world, repeated content, repeated content"), 0o640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := New(nil)
	p.Submit(context.Background(), src, filepath.Join(dir, "active.log"), 0)

	deadline := time.Now().Add(2 * time.Second)
	dst := src + ".lz4"
	for time.Now().Before(deadline) {
		if _, err := os.Stat(dst); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected compressed archive at %s: %v", dst, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source to be removed after compression, stat err = %v", err)
	}
}

func TestPruneNeverDeletesActiveFile(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "app_active.log")
	if err := os.WriteFile(active, []byte("x"), 0o640); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "app_old"+string(rune('0'+i))+".log.lz4"), []byte("x"), 0o640); err != nil {
			t.Fatal(err)
		}
	}

	if err := prune(dir, active, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if _, err := os.Stat(active); err != nil {
		t.Fatalf("active file must survive pruning: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	remaining := 0
	for _, e := range entries {
		if e.Name() != filepath.Base(active) {
			remaining++
		}
	}
	if remaining != 1 {
		t.Fatalf("expected 1 archive to remain after pruning to max=2 (active occupies one slot), got %d", remaining)
	}
}

func TestPruneCountsActiveFileTowardCap(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "app_active.log")
	if err := os.WriteFile(active, []byte("x"), 0o640); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "app_old"+string(rune('0'+i))+".log.lz4"), []byte("x"), 0o640); err != nil {
			t.Fatal(err)
		}
	}

	if err := prune(dir, active, 1); err != nil {
		t.Fatalf("prune: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	remaining := 0
	for _, e := range entries {
		if e.Name() != filepath.Base(active) {
			remaining++
		}
	}
	if remaining != 0 {
		t.Fatalf("expected 0 archives to remain after pruning to max=1 with an active file present, got %d", remaining)
	}
}
