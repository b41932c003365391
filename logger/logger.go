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

// Package logger is the public façade producers call into: Log, Flush,
// SetLevel, Level, ForceFlush, EmergencyLog. Everything below this layer
// (record encoding, dispatch, sinks) is plumbing a caller never touches
// directly.
package logger

import (
	"context"
	"sync/atomic"
	"time"

	"dirpx.dev/pulselog/dispatch"
	"dirpx.dev/pulselog/health"
	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/rcontext"
	"dirpx.dev/pulselog/record"
)

// devModeSleep is how long Log sleeps after a synchronous dev-mode flush,
// giving slow sinks (terminal, disk) a moment to actually surface the line
// before the caller's next statement runs.
const devModeSleep = 10 * time.Millisecond

// forceFlushGrace is the settle period ForceFlush waits after broadcasting
// a Flush command, mirroring Manager.Close's grace sleep before Wait.
const forceFlushGrace = 50 * time.Millisecond

// Logger is the entry point producers log through. It is safe for
// concurrent use by many goroutines.
type Logger struct {
	mgr     *dispatch.Manager
	level   atomic.Int32
	devMode bool
}

// newLogger wraps mgr behind the level-gated public surface. lvl is the
// initial minimum severity that passes the gate.
func newLogger(mgr *dispatch.Manager, lvl level.Level, devMode bool) *Logger {
	l := &Logger{mgr: mgr, devMode: devMode}
	l.level.Store(int32(lvl))
	return l
}

// Enabled reports whether a record at lvl would currently pass the level
// gate, so callers can skip expensive field construction for a level that
// would be dropped anyway.
func (l *Logger) Enabled(lvl level.Level) bool {
	return lvl.Enabled(level.Level(l.level.Load()))
}

// SetLevel changes the minimum severity that passes the gate. Ordering is
// relaxed: a concurrent Log call may observe the old or the new level, but
// never a torn value.
func (l *Logger) SetLevel(lvl level.Level) {
	l.level.Store(int32(lvl))
}

// Level returns the currently configured minimum severity.
func (l *Logger) Level() level.Level {
	return level.Level(l.level.Load())
}

// Log gates, encodes, and dispatches a record. Records at Error severity are
// auto-promoted straight to the emergency write path (see EmergencyLog) —
// batching is a latency/throughput trade a caller has not opted into for
// something that demanded their attention in the first place. All other
// levels take the normal batched path; in dev mode they are additionally
// flushed synchronously and followed by a short sleep so output appears in
// program order on a terminal a human is watching.
func (l *Logger) Log(ctx context.Context, r record.Record) {
	if !l.Enabled(r.Level) {
		return
	}
	r.Ctx = rcontext.Extract(ctx)

	if r.Level == level.Error {
		l.EmergencyLog(r)
		return
	}

	l.mgr.BroadcastWrite(record.Encode(&r))

	if l.devMode {
		l.mgr.BroadcastFlush()
		time.Sleep(devModeSleep)
	}
}

// EmergencyLog bypasses batching entirely: it enqueues r as a WriteForce
// command on every sink, and each worker, on reaching it, writes out its
// pending batch, then r, then flushes. This call returns once the commands
// are enqueued; it does not wait for the workers to process them. Log
// auto-promotes Error-level records here; callers may also invoke it
// directly.
func (l *Logger) EmergencyLog(r record.Record) {
	l.mgr.BroadcastWriteForce(record.Encode(&r))
}

// Flush asks every sink to write out its currently buffered entries. It
// does not wait for the write to land; use ForceFlush for that.
func (l *Logger) Flush() {
	l.mgr.BroadcastFlush()
}

// ForceFlush flushes every sink and waits a short grace period for slow
// sinks (disk fsync, network) to actually finish before returning. It does
// not guarantee completion — a sink wedged past the grace period is a
// health-check concern, not a flush concern.
func (l *Logger) ForceFlush() {
	l.mgr.BroadcastFlush()
	time.Sleep(forceFlushGrace)
}

// HealthReport runs a liveness round-trip against every sink and returns an
// aggregated report (healthy/degraded/unhealthy, with a per-sink result).
func (l *Logger) HealthReport(ctx context.Context, timeout time.Duration) health.Report {
	return l.mgr.HealthReport(ctx, timeout)
}

// Close shuts every sink down gracefully: flush, release resources, stop.
// tag is an arbitrary caller-supplied marker surfaced in worker logs.
func (l *Logger) Close(tag string) {
	l.mgr.Close(tag)
}
