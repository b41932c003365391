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

// Package dispatch fans encoded records out to sink workers: one dedicated
// goroutine per sink, each batching writes on its own schedule and
// processing rotate/compress/flush/shutdown/health-check commands in order.
package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dirpx.dev/pulselog/command"
	"dirpx.dev/pulselog/sink"
	"dirpx.dev/pulselog/sink/policy"
)

// Metrics is the subset of observability hooks a worker reports through.
// Implementations must tolerate a nil Metrics (see noopMetrics).
type Metrics interface {
	BatchFlushed(sinkName string, entries int)
	RotationHandled(sinkName string)
	CompressionHandled(sinkName string)
}

// Worker owns exactly one sink's goroutine: it receives commands, batches
// Write payloads, and applies Rotate/Compress/Flush/Shutdown/HealthCheck in
// the order they arrive. This mirrors the broadcast-style producer/consumer
// loop where every sink decides independently whether and how to act on a
// given command.
type Worker struct {
	name    string
	impl    sink.Sink
	cfg     policy.Batch
	cmds    chan command.Command
	hs      *handshake
	metrics Metrics
	log     *zap.Logger

	done chan struct{}
}

func newWorker(name string, impl sink.Sink, cfg policy.Batch, hs *handshake, metrics Metrics, log *zap.Logger) *Worker {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Worker{
		name:    name,
		impl:    impl,
		cfg:     cfg,
		cmds:    make(chan command.Command, cfg.BufferCapacity),
		hs:      hs,
		metrics: metrics,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Send enqueues cmd. It blocks if the worker's buffer is full; pulselog has
// no drop policy at this layer because the emergency path (WriteForce) is
// the caller's designated escape hatch for backpressure.
func (w *Worker) Send(cmd command.Command) {
	w.cmds <- cmd
}

// Start launches the worker's event loop goroutine and signals hs once it
// is actually running.
func (w *Worker) Start() {
	go w.run()
}

// Wait blocks until the worker's goroutine has returned (after processing a
// Shutdown command).
func (w *Worker) Wait() {
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)

	w.hs.incrementReady()
	w.log.Debug("sink worker started",
		zap.String("sink", w.name),
		zap.Int("batch_size", w.cfg.BatchSize),
		zap.Duration("batch_interval", w.cfg.Interval))

	var batch [][]byte
	var batchUnits int
	lastFlush := time.Now()

	timer := time.NewTimer(w.cfg.Interval)
	defer timer.Stop()

	ctx := context.Background()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.impl.ProcessBatch(ctx, batch); err != nil {
			w.log.Error("sink batch write failed", zap.String("sink", w.name), zap.Error(err))
		}
		w.metrics.BatchFlushed(w.name, len(batch))
		batch = batch[:0]
		batchUnits = 0
		lastFlush = time.Now()
		resetTimer(timer, w.cfg.Interval)
	}

	for {
		select {
		case cmd, ok := <-w.cmds:
			if !ok {
				flush()
				return
			}
			switch cmd.Kind {
			case command.Write:
				batch = append(batch, cmd.Payload)
				if w.cfg.Unit == policy.UnitBytes {
					batchUnits += len(cmd.Payload)
				} else {
					batchUnits = len(batch)
				}
				if batchUnits >= w.cfg.BatchSize || time.Since(lastFlush) >= w.cfg.Interval {
					flush()
				}

			case command.WriteForce:
				flush()
				if err := w.impl.Process(ctx, cmd.Payload); err != nil {
					w.log.Error("sink forced write failed", zap.String("sink", w.name), zap.Error(err))
				}
				if err := w.impl.Flush(ctx); err != nil {
					w.log.Error("sink flush after forced write failed", zap.String("sink", w.name), zap.Error(err))
				}

			case command.Rotate:
				flush()
				if err := w.impl.HandleRotate(ctx); err != nil {
					w.log.Error("sink rotate failed", zap.String("sink", w.name), zap.Error(err))
				} else {
					w.metrics.RotationHandled(w.name)
				}

			case command.Compress:
				flush()
				if err := w.impl.HandleCompress(ctx, cmd.Path); err != nil {
					w.log.Error("sink compress failed", zap.String("sink", w.name), zap.String("path", cmd.Path), zap.Error(err))
				} else {
					w.metrics.CompressionHandled(w.name)
				}

			case command.Flush:
				flush()
				if err := w.impl.Flush(ctx); err != nil {
					w.log.Error("sink flush failed", zap.String("sink", w.name), zap.Error(err))
				}

			case command.HealthCheck:
				if cmd.Reply != nil {
					cmd.Reply <- true
				}

			case command.Shutdown:
				flush()
				if err := w.impl.Flush(ctx); err != nil {
					w.log.Error("sink flush on shutdown failed", zap.String("sink", w.name), zap.Error(err))
				}
				if err := w.impl.Cleanup(ctx); err != nil {
					w.log.Error("sink cleanup on shutdown failed", zap.String("sink", w.name), zap.Error(err))
				}
				w.log.Debug("sink worker stopped", zap.String("sink", w.name), zap.String("tag", cmd.Tag))
				return
			}

		case <-timer.C:
			// Idle wake-up: flush whatever has accumulated even though no
			// new command arrived to trigger the size/interval check above.
			// flush() rearms the timer; when the batch is already empty it
			// doesn't, so rearm here too.
			if len(batch) == 0 {
				timer.Reset(w.cfg.Interval)
				continue
			}
			flush()
		}
	}
}

// resetTimer drains and rearms an idle-flush timer, following the standard
// library's documented pattern for reusing a Timer from Stop.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

type noopMetrics struct{}

func (noopMetrics) BatchFlushed(string, int)  {}
func (noopMetrics) RotationHandled(string)    {}
func (noopMetrics) CompressionHandled(string) {}
