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

// Package record defines the canonical, immutable-once-published log event
// shape shared by every producer, the dispatcher, and every sink.
package record

import (
	"fmt"

	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/rcontext"
)

// Record is the canonical log event. Once handed to a Logger it is treated
// as immutable; metadata is shared by reference so cloning is cheap.
type Record struct {
	Level Level
	// Target is an arbitrary identifier, typically a module path.
	Target string
	// AuthToken is optional, consumed only by the UDP sink.
	AuthToken string
	// AppID tags the record with a tenant/application name. An empty AppID
	// marks the record as "server/infra chatter" for sinks configured with
	// SkipServerLogs.
	AppID string
	// Message is the formatted human-readable payload.
	Message string
	// ModulePath, File and Line are an optional source location.
	ModulePath string
	File       string
	Line       uint32
	// Ctx carries pre-extracted correlation data (see rcontext.Pack).
	Ctx rcontext.Pack
}

// Level is a local alias so callers of this package do not need to import
// the level package separately for the common case.
type Level = level.Level

// New builds a Record with the required fields. It does not deep-copy Ctx;
// callers should treat the returned Record as owned.
func New(lvl Level, target, message string) Record {
	return Record{Level: lvl, Target: target, Message: message}
}

// Validate checks that the record has a recognized level and a message.
func (r Record) Validate() error {
	if err := r.Level.Validate(); err != nil {
		return fmt.Errorf("pulselog/record: invalid level: %w", err)
	}
	if r.Message == "" {
		return fmt.Errorf("pulselog/record: message must not be empty")
	}
	return nil
}

// Clone returns a shallow copy of the record. Record has no pointer/slice
// fields that would alias between producer and sink, so Clone is a plain
// value copy; it exists to make call sites' intent explicit.
func (r Record) Clone() Record {
	return r
}

// WithSource returns a copy of the record with source-location fields set.
func (r Record) WithSource(modulePath, file string, line uint32) Record {
	out := r
	out.ModulePath = modulePath
	out.File = file
	out.Line = line
	return out
}
