/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"dirpx.dev/pulselog/command"
	"dirpx.dev/pulselog/health"
	"dirpx.dev/pulselog/sink"
	"dirpx.dev/pulselog/sink/policy"
)

// Manager owns every sink worker for a single Logger and broadcasts
// commands to all of them. It is the Go counterpart of a process-wide
// processor manager, scoped per-Logger instead of per-process so a program
// can build more than one Logger.
type Manager struct {
	mu      sync.RWMutex
	workers []*Worker
	verified map[string]bool

	hs      *handshake
	metrics Metrics
	log     *zap.Logger
}

// NewManager builds an empty Manager. log receives structured diagnostics
// from every worker; pass zap.NewNop() if the caller has not configured one
// explicitly.
func NewManager(log *zap.Logger, metrics Metrics) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		verified: make(map[string]bool),
		hs:       newHandshake(),
		metrics:  metrics,
		log:      log,
	}
}

// AddSink validates cfg, starts a worker goroutine for impl, and returns
// once the worker has accepted the reference into the Manager (not once the
// goroutine is confirmed running — call WaitReady for that). An invalid
// BatchConfig panics immediately: a sink that can never make progress is a
// programming error, not a runtime condition to recover from.
//
// The handshake's expected count is grown before the worker is started, not
// after: incrementReady can run as the very first thing the new goroutine
// does, so growing expected afterward would race it.
func (m *Manager) AddSink(impl sink.Sink, cfg policy.Batch) {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("dispatch: invalid batch configuration for sink %q: %v", impl.Name(), err))
	}

	w := newWorker(impl.Name(), impl, cfg, m.hs, m.metrics, m.log)
	m.hs.addExpected(1)

	m.mu.Lock()
	m.workers = append(m.workers, w)
	delete(m.verified, impl.Name())
	m.mu.Unlock()

	w.Start()
}

// WaitReady blocks until every worker added since the last WaitReady call
// has signaled it is running, or timeout elapses.
func (m *Manager) WaitReady(timeout time.Duration) error {
	m.mu.Lock()
	var unverified []string
	for _, w := range m.workers {
		if !m.verified[w.name] {
			unverified = append(unverified, w.name)
		}
	}
	m.mu.Unlock()
	if len(unverified) == 0 {
		return nil
	}

	if err := m.hs.waitForReady(timeout); err != nil {
		return err
	}

	m.mu.Lock()
	for _, name := range unverified {
		m.verified[name] = true
	}
	m.mu.Unlock()
	return nil
}

func (m *Manager) snapshot() []*Worker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Worker, len(m.workers))
	copy(out, m.workers)
	return out
}

// BroadcastWrite sends payload as a Write command to every sink.
func (m *Manager) BroadcastWrite(payload []byte) {
	for _, w := range m.snapshot() {
		w.Send(command.NewWrite(payload))
	}
}

// BroadcastWriteForce sends payload as a WriteForce command to every sink,
// bypassing each worker's batch buffer.
func (m *Manager) BroadcastWriteForce(payload []byte) {
	for _, w := range m.snapshot() {
		w.Send(command.NewWriteForce(payload))
	}
}

// BroadcastFlush asks every sink to flush its buffered entries.
func (m *Manager) BroadcastFlush() {
	for _, w := range m.snapshot() {
		w.Send(command.NewFlush())
	}
}

// BroadcastRotate asks every sink to rotate. Sinks without a rotatable
// resource treat it as a no-op.
func (m *Manager) BroadcastRotate() {
	for _, w := range m.snapshot() {
		w.Send(command.NewRotate())
	}
}

// BroadcastCompress asks every sink to compress path. Sinks without a
// rotatable resource treat it as a no-op.
func (m *Manager) BroadcastCompress(path string) {
	for _, w := range m.snapshot() {
		w.Send(command.NewCompress(path))
	}
}

// Close shuts every worker down gracefully: it sends Shutdown, gives
// workers a short grace period to finish in-flight processing, then waits
// for every worker goroutine to actually return.
func (m *Manager) Close(tag string) {
	workers := m.snapshot()
	for _, w := range workers {
		w.Send(command.NewShutdown(tag))
	}

	// Grace period mirroring the original implementation's sleep-before-join:
	// gives slow sinks (fsync, network) breathing room before we block.
	time.Sleep(100 * time.Millisecond)

	for _, w := range workers {
		w.Wait()
	}

	m.mu.Lock()
	m.workers = nil
	m.verified = make(map[string]bool)
	m.mu.Unlock()
}

// Len returns the number of sinks currently registered.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workers)
}

// HealthReport runs a liveness round-trip against every sink and returns an
// aggregated health.Report. Each sink gets its own HealthCheck command and a
// buffered reply channel so a single stuck worker cannot block the others.
func (m *Manager) HealthReport(ctx context.Context, timeout time.Duration) health.Report {
	agg := health.NewAggregator()
	for _, w := range m.snapshot() {
		w := w
		agg.Add(w.name, health.WorkerPing(w.name, timeout, func() <-chan bool {
			reply := make(chan bool, 1)
			w.Send(command.NewHealthCheck(reply))
			return reply
		}))
	}
	return agg.Run(ctx)
}
