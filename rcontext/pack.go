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

// Package rcontext carries the well-known, pre-extracted correlation data a
// Record travels with (trace/correlation id, node). It intentionally does
// NOT depend on any concrete tracing library; pulselog only needs a stable
// identifier to stitch a record back to its origin across sinks.
package rcontext

import (
	"context"

	"github.com/google/uuid"
)

// Pack is the correlation data extracted from a context.Context at the point
// a Record is created. It is copied by value into the Record so the record
// does not retain a live context.Context.
type Pack struct {
	// CorrelationID identifies the logical operation this record belongs to.
	// Generated with a random UUIDv4 when the caller's context carries none.
	CorrelationID string

	// Node is an optional identifier of the process/host that produced the
	// record (e.g. hostname or pod name). Empty when unset.
	Node string
}

type correlationKey struct{}

// WithCorrelationID returns a derived context carrying id, so subsequent
// Extract calls on it (and its children) reuse the same identifier instead
// of minting a fresh one per record.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// Extract pulls a Pack out of ctx, generating a new random correlation id
// when the context does not already carry one.
func Extract(ctx context.Context) Pack {
	if ctx == nil {
		return Pack{CorrelationID: uuid.NewString()}
	}
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return Pack{CorrelationID: id}
	}
	return Pack{CorrelationID: uuid.NewString()}
}
