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
	"fmt"
	"sync/atomic"
	"time"
)

// handshake coordinates the "all sink workers are up" signal a Manager
// waits on after spawning workers: each worker increments ready once its
// goroutine has actually started, and a caller blocks, polling every 10ms,
// until the count reaches the expected total or a timeout elapses.
//
// Both counters are cumulative over the handshake's entire lifetime — never
// reset — so expected must be bumped by addExpected *before* the worker
// that will eventually call incrementReady is spawned. A worker whose first
// scheduled statement is incrementReady can otherwise race ahead of a
// caller that only grows expected afterward, losing its signal entirely.
//
// A package-level instance is not used here (unlike the single-process,
// single-logger original this is ported from) because a process may build
// more than one Logger; each Manager owns its own handshake.
type handshake struct {
	ready    atomic.Int64
	expected atomic.Int64
}

func newHandshake() *handshake {
	return &handshake{}
}

// incrementReady records that one more worker goroutine has started.
func (h *handshake) incrementReady() {
	h.ready.Add(1)
}

// addExpected grows the ready count waitForReady blocks for by n. Callers
// must call this before starting the worker(s) it accounts for.
func (h *handshake) addExpected(n int64) {
	h.expected.Add(n)
}

// readyCount returns the current ready count.
func (h *handshake) readyCount() int64 {
	return h.ready.Load()
}

const pollInterval = 10 * time.Millisecond

// waitForReady blocks, polling every 10ms, until the ready count reaches the
// expected count, or timeout elapses.
func (h *handshake) waitForReady(timeout time.Duration) error {
	expected := h.expected.Load()
	if h.readyCount() >= expected {
		return nil
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if h.readyCount() >= expected {
			return nil
		}
		time.Sleep(pollInterval)
	}

	ready := h.readyCount()
	if ready >= expected {
		return nil
	}
	return fmt.Errorf("dispatch: worker readiness timed out (%d/%d ready)", ready, expected)
}
