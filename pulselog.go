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

// Package pulselog is a high-throughput structured logging core: producers
// call into a Logger façade, records pass a level gate, get encoded, and
// are fanned out to one dedicated goroutine per sink (terminal, rotating
// file, UDP). This file re-exports the small set of free functions most
// programs need to get started without reaching into the logger
// subpackage directly.
package pulselog

import (
	"context"

	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/logger"
	"dirpx.dev/pulselog/record"
)

// Re-exported types callers construct records and builders with.
type (
	Logger  = logger.Logger
	Builder = logger.Builder
	Record  = record.Record
	Level   = level.Level
)

// Re-exported level constants.
const (
	Error = level.Error
	Warn  = level.Warn
	Info  = level.Info
	Debug = level.Debug
	Trace = level.Trace
)

// NewBuilder starts a Builder at Info level with the default batch policy.
func NewBuilder() *Builder { return logger.NewBuilder() }

// NewRecord builds a Record with the required fields.
func NewRecord(lvl Level, target, message string) Record {
	return record.New(lvl, target, message)
}

// InstallFromEnv installs a default terminal-only Logger as the
// process-wide global, at the level named by PULSELOG_LOG (or Info if
// unset).
func InstallFromEnv(ctx context.Context) error {
	return logger.InstallFromEnv(ctx)
}

// QuickInit builds and returns a standalone terminal-only Logger at lvl,
// without installing it as the process-wide global.
func QuickInit(lvl Level) (*Logger, error) {
	return logger.QuickInit(lvl)
}

// Current returns the process-wide installed Logger, or nil if none has
// been installed yet.
func Current() *Logger { return logger.Current() }

// Log is a convenience wrapper for Current().Log; it is a no-op if no
// Logger has been installed.
func Log(ctx context.Context, r Record) {
	if l := Current(); l != nil {
		l.Log(ctx, r)
	}
}
