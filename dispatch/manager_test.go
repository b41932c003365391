package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"dirpx.dev/pulselog/sink/policy"
)

// recordingSink captures everything it is asked to do, guarded by a mutex
// since the worker goroutine calls it from outside the test goroutine.
type recordingSink struct {
	mu            sync.Mutex
	name          string
	processed     [][]byte
	rotateCount   int
	compressCount int
	flushCount    int
	cleanedUp     bool
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Process(ctx context.Context, entry []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed = append(s.processed, entry)
	return nil
}

func (s *recordingSink) ProcessBatch(ctx context.Context, entries [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed = append(s.processed, entries...)
	return nil
}

func (s *recordingSink) HandleRotate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotateCount++
	return nil
}

func (s *recordingSink) HandleCompress(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compressCount++
	return nil
}

func (s *recordingSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushCount++
	return nil
}

func (s *recordingSink) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanedUp = true
	return nil
}

func testBatch() policy.Batch {
	return policy.Batch{BatchSize: 2, BufferCapacity: 16, Interval: 20 * time.Millisecond}
}

func TestManagerBroadcastWriteBatchesBySize(t *testing.T) {
	m := NewManager(zap.NewNop(), nil)
	impl := &recordingSink{name: "mem"}
	m.AddSink(impl, testBatch())

	if err := m.WaitReady(time.Second); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}

	m.BroadcastWrite([]byte("one"))
	m.BroadcastWrite([]byte("two"))

	waitUntil(t, func() bool {
		impl.mu.Lock()
		defer impl.mu.Unlock()
		return len(impl.processed) == 2
	})

	m.Close("test")
	impl.mu.Lock()
	defer impl.mu.Unlock()
	if !impl.cleanedUp {
		t.Fatal("expected sink to be cleaned up after Close")
	}
}

func TestManagerBroadcastRotateAndCompress(t *testing.T) {
	m := NewManager(zap.NewNop(), nil)
	impl := &recordingSink{name: "mem"}
	m.AddSink(impl, testBatch())
	if err := m.WaitReady(time.Second); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}

	m.BroadcastRotate()
	m.BroadcastCompress("mem.log")
	m.BroadcastFlush()

	waitUntil(t, func() bool {
		impl.mu.Lock()
		defer impl.mu.Unlock()
		return impl.rotateCount == 1 && impl.compressCount == 1 && impl.flushCount >= 1
	})

	m.Close("test")
}

func TestManagerHealthReport(t *testing.T) {
	m := NewManager(zap.NewNop(), nil)
	impl := &recordingSink{name: "mem"}
	m.AddSink(impl, testBatch())
	if err := m.WaitReady(time.Second); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}

	report := m.HealthReport(context.Background(), time.Second)
	if report.Status != "healthy" {
		t.Fatalf("expected healthy report, got %+v", report)
	}

	m.Close("test")
}

func TestAddSinkPanicsOnInvalidBatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid batch config")
		}
	}()

	m := NewManager(zap.NewNop(), nil)
	m.AddSink(&recordingSink{name: "bad"}, policy.Batch{BatchSize: 0, BufferCapacity: 0, Interval: 0})
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
