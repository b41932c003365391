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

// Package sink defines the contract every log destination implements:
// terminal, file, UDP, or anything a caller plugs in. A Sink works with
// already-encoded entries so it stays independent of the record codec.
package sink

import "context"

// Sink is a destination for encoded log entries. A dispatch.Worker owns
// exactly one Sink instance and is the only goroutine that calls it, so
// implementations do not need to be safe for concurrent use.
type Sink interface {
	// Name returns a human-friendly identifier used in diagnostics, metrics
	// and health reports.
	Name() string

	// Process writes a single encoded entry. Used on the emergency
	// (WriteForce) path, where batching is bypassed entirely.
	Process(ctx context.Context, entry []byte) error

	// ProcessBatch writes a slice of encoded entries accumulated by the
	// worker. BaseSink provides a naive per-entry loop; concrete sinks are
	// free to override it with a single concatenated write.
	ProcessBatch(ctx context.Context, entries [][]byte) error

	// HandleRotate asks the sink to rotate its underlying resource (e.g.
	// close and reopen a file). Sinks with nothing to rotate return nil.
	HandleRotate(ctx context.Context) error

	// HandleCompress asks the sink to compress a previously rotated
	// resource at path. Sinks that do not rotate files return nil.
	HandleCompress(ctx context.Context, path string) error

	// Flush ensures every accepted entry has actually reached the
	// destination (fsync'd file, sent datagram, flushed stdout buffer).
	Flush(ctx context.Context) error

	// Cleanup releases resources (file handles, sockets, connection
	// pools). After Cleanup the sink must not be used again.
	Cleanup(ctx context.Context) error
}

// BaseSink implements ProcessBatch as a sequential loop over Process, for
// sinks that have no cheaper batched form. Concrete sinks embed BaseSink
// and override ProcessBatch when they can do better (e.g. one concatenated
// write instead of N syscalls).
type BaseSink struct {
	// ProcessFunc is called once per entry by ProcessBatch's default loop.
	ProcessFunc func(ctx context.Context, entry []byte) error
}

// ProcessBatch writes each entry in order, stopping at the first error.
func (b BaseSink) ProcessBatch(ctx context.Context, entries [][]byte) error {
	for _, e := range entries {
		if err := b.ProcessFunc(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
