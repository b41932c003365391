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

package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dirpx.dev/pulselog/dispatch"
	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/metrics"
	"dirpx.dev/pulselog/sink"
	"dirpx.dev/pulselog/sink/policy"
	"dirpx.dev/pulselog/sinks/file"
	"dirpx.dev/pulselog/sinks/terminal"
	"dirpx.dev/pulselog/sinks/udp"
)

// sinkSpec pairs a constructed Sink with the batch policy its worker runs
// under, captured at AddX time so each sink's Unit (bytes for terminal and
// file, records for UDP) is fixed independently of what WithBatchConfig is
// later called with for a different sink.
type sinkSpec struct {
	name  string
	impl  sink.Sink
	batch policy.Batch
}

// Builder assembles a Logger. The zero value is not usable; start from
// NewBuilder.
type Builder struct {
	level     level.Level
	batch     policy.Batch
	devMode   bool
	async     bool
	log       *zap.Logger
	recorder  metrics.Recorder
	specs     []sinkSpec
	buildErrs []error
}

// NewBuilder starts a Builder at Info level with the default batch policy.
func NewBuilder() *Builder {
	return &Builder{
		level: level.Info,
		batch: policy.DefaultBatch(),
		log:   zap.NewNop(),
	}
}

// WithLevel sets the initial minimum severity.
func (b *Builder) WithLevel(lvl level.Level) *Builder {
	b.level = lvl
	return b
}

// WithBatchConfig overrides the batch policy applied to every sink added
// from this point forward (sinks already added keep whatever was in effect
// when AddX ran — set this before the AddX calls it should cover).
func (b *Builder) WithBatchConfig(cfg policy.Batch) *Builder {
	b.batch = cfg
	return b
}

// WithDevMode turns on synchronous flush-and-sleep behavior after
// non-error log calls.
func (b *Builder) WithDevMode(on bool) *Builder {
	b.devMode = on
	return b
}

// WithAsyncMode is accepted for configuration-surface parity with
// original_source's builder: pulselog's dispatch is already fully
// asynchronous per sink (one goroutine each), so this flag only affects
// whether Build calls WaitReady before returning. When false (the
// default), Build blocks until every added sink's worker has confirmed it
// is running; when true, Build returns immediately and the handshake is
// left to complete in the background.
func (b *Builder) WithAsyncMode(on bool) *Builder {
	b.async = on
	return b
}

// WithLogger sets the structured logger worker diagnostics are written to.
func (b *Builder) WithLogger(log *zap.Logger) *Builder {
	if log != nil {
		b.log = log
	}
	return b
}

// WithMetrics injects a metrics.Recorder the dispatcher reports into. Nil
// (the default) means no-op instrumentation.
func (b *Builder) WithMetrics(r metrics.Recorder) *Builder {
	b.recorder = r
	return b
}

// byteCountedBatch returns b.batch with Unit forced to UnitBytes, the
// accumulation unit for sinks whose cost is dominated by bytes written
// (terminal, file) rather than record count (UDP).
func (b *Builder) byteCountedBatch() policy.Batch {
	cfg := b.batch
	cfg.Unit = policy.UnitBytes
	return cfg
}

// AddTerminal adds a terminal sink writing to os.Stdout.
func (b *Builder) AddTerminal(cfg terminal.Config) *Builder {
	s, err := terminal.New(cfg, os.Stdout)
	if err != nil {
		b.buildErrs = append(b.buildErrs, fmt.Errorf("logger: terminal sink: %w", err))
		return b
	}
	b.specs = append(b.specs, sinkSpec{name: s.Name(), impl: s, batch: b.byteCountedBatch()})
	return b
}

// AddFile adds a rotating, optionally-compressing file sink.
func (b *Builder) AddFile(cfg file.Config) *Builder {
	s, err := file.New(cfg, nil)
	if err != nil {
		b.buildErrs = append(b.buildErrs, fmt.Errorf("logger: file sink: %w", err))
		return b
	}
	b.specs = append(b.specs, sinkSpec{name: s.Name(), impl: s, batch: b.byteCountedBatch()})
	return b
}

// AddUDP adds a UDP forwarding sink. Its batch is record-counted: AuthToken
// overhead and datagram count, not payload size, dominate its cost.
func (b *Builder) AddUDP(cfg udp.Config) *Builder {
	s, err := udp.New(cfg)
	if err != nil {
		b.buildErrs = append(b.buildErrs, fmt.Errorf("logger: udp sink: %w", err))
		return b
	}
	cfg2 := b.batch
	cfg2.Unit = policy.UnitRecords
	b.specs = append(b.specs, sinkSpec{name: s.Name(), impl: s, batch: cfg2})
	return b
}

// Build assembles the Logger: it starts one worker per added sink and, in
// synchronous mode (the default), blocks until the init handshake confirms
// every worker is live. A Builder with no sinks at all is a programmer
// error — there is nothing such a Logger could ever do — and Build panics
// rather than returning a Logger that silently drops every record, the same
// fail-fast stance original_source's LoggerBuilder::build takes.
func (b *Builder) Build(ctx context.Context) (*Logger, error) {
	if len(b.buildErrs) > 0 {
		return nil, fmt.Errorf("logger: %d sink(s) failed to construct: %w", len(b.buildErrs), b.buildErrs[0])
	}
	if len(b.specs) == 0 {
		panic("logger: Build called with no sinks configured")
	}

	mgr := dispatch.NewManager(b.log, metrics.NewDispatchMetrics(b.recorder))
	for _, s := range b.specs {
		mgr.AddSink(s.impl, s.batch)
	}

	if !b.async {
		deadline := 5 * time.Second
		if dl, ok := ctx.Deadline(); ok {
			deadline = time.Until(dl)
		}
		if err := mgr.WaitReady(deadline); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
	}

	return newLogger(mgr, b.level, b.devMode), nil
}

// Install builds the Logger and installs it as the process-wide default
// (see global.go).
func (b *Builder) Install(ctx context.Context) error {
	l, err := b.Build(ctx)
	if err != nil {
		return err
	}
	replace(l)
	return nil
}
