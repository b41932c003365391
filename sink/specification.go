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

package sink

import (
	"context"

	"dirpx.dev/pulselog/sink/policy"
)

// Specification is an immutable snapshot of sink configuration, produced by
// a Builder's caller (the logger's Builder) and consumed by a concrete
// Builder implementation to construct a Sink.
type Specification struct {
	// Name is the unique identifier of the sink within a Logger.
	Name string

	// Batch describes the worker's batching behavior. Every sink in
	// pulselog batches, so unlike the generic ancestor of this type, Batch
	// is not optional here.
	Batch policy.Batch

	// Rotation is non-nil only for sinks backed by a rotating file.
	Rotation *policy.Rotation

	// Retry is non-nil only for sinks that can fail a send and retry it
	// (the UDP sink).
	Retry *policy.Retry

	// Params carries sink-specific parameters (paths, addresses, format
	// templates) that do not belong in the generic Specification. Concrete
	// Builder implementations type-assert the values they expect.
	Params map[string]any
}

// Builder constructs a Sink from a Specification. pulselog's logger.Builder
// constructs sinks directly (AddTerminal/AddFile/AddUDP) rather than
// through a Kind-keyed registry of these; this interface documents the
// shape such a registry would dispatch through if one is added later.
type Builder interface {
	// Kind returns the canonical sink kind identifier.
	Kind() string

	// Build constructs a Sink for the given Specification. The returned
	// Sink.Name() must equal spec.Name.
	Build(ctx context.Context, spec *Specification) (Sink, error)
}
