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

// Package metrics wraps the Prometheus counters pulselog exposes about its
// own pipeline. Wiring a Recorder is optional: the dispatcher accepts a nil
// Recorder and falls back to a no-op. Only the dispatcher reports, through
// NewDispatchMetrics; the sinks take no Recorder, so no pipeline code calls
// CompressionFailuresTotal or UDPSendRetriesTotal.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is the instrumentation surface the dispatcher reports into.
// Implementations must tolerate concurrent calls from many worker
// goroutines.
type Recorder interface {
	RecordsDispatched(sink string, n int)
	RotationsTotal(sink string)
	CompressionsTotal(sink string)
	CompressionFailuresTotal(sink string)
	UDPSendRetriesTotal(sink string)
}

// Prometheus is the default Recorder, backed by client_golang counters
// registered against a caller-supplied registry.
type Prometheus struct {
	dispatched        *prometheus.CounterVec
	rotations         *prometheus.CounterVec
	compressions      *prometheus.CounterVec
	compressionErrors *prometheus.CounterVec
	udpRetries        *prometheus.CounterVec
}

// NewPrometheus builds and registers pulselog's metric family against reg.
// Pass prometheus.DefaultRegisterer for the global registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulselog",
			Name:      "records_dispatched_total",
			Help:      "Records handed to a sink worker, per sink.",
		}, []string{"sink"}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulselog",
			Name:      "rotations_total",
			Help:      "Rotate commands a sink handled without error, per sink.",
		}, []string{"sink"}),
		compressions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulselog",
			Name:      "compressions_total",
			Help:      "Compress commands a sink handled without error, per sink.",
		}, []string{"sink"}),
		compressionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulselog",
			Name:      "compression_failures_total",
			Help:      "Failed rotation-artifact compressions, per sink.",
		}, []string{"sink"}),
		udpRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulselog",
			Name:      "udp_send_retries_total",
			Help:      "UDP send retry attempts, per sink.",
		}, []string{"sink"}),
	}

	reg.MustRegister(p.dispatched, p.rotations, p.compressions, p.compressionErrors, p.udpRetries)
	return p
}

func (p *Prometheus) RecordsDispatched(sink string, n int) {
	p.dispatched.WithLabelValues(sink).Add(float64(n))
}

func (p *Prometheus) RotationsTotal(sink string) {
	p.rotations.WithLabelValues(sink).Inc()
}

func (p *Prometheus) CompressionsTotal(sink string) {
	p.compressions.WithLabelValues(sink).Inc()
}

func (p *Prometheus) CompressionFailuresTotal(sink string) {
	p.compressionErrors.WithLabelValues(sink).Inc()
}

func (p *Prometheus) UDPSendRetriesTotal(sink string) {
	p.udpRetries.WithLabelValues(sink).Inc()
}

// noop is the Recorder used when a caller does not configure metrics.
type noop struct{}

func (noop) RecordsDispatched(string, int)   {}
func (noop) RotationsTotal(string)           {}
func (noop) CompressionsTotal(string)        {}
func (noop) CompressionFailuresTotal(string) {}
func (noop) UDPSendRetriesTotal(string)      {}

// NoOp returns a Recorder that discards everything.
func NoOp() Recorder { return noop{} }

// dispatchAdapter adapts a metrics.Recorder to dispatch.Metrics, so the
// dispatch package does not need to import metrics directly (it only needs
// the narrow subset it actually calls).
type dispatchAdapter struct{ r Recorder }

// NewDispatchMetrics wraps r (nil-safe) as the dispatch package's narrower
// Metrics interface.
func NewDispatchMetrics(r Recorder) dispatchMetrics {
	if r == nil {
		r = NoOp()
	}
	return dispatchAdapter{r: r}
}

type dispatchMetrics interface {
	BatchFlushed(sinkName string, entries int)
	RotationHandled(sinkName string)
	CompressionHandled(sinkName string)
}

func (d dispatchAdapter) BatchFlushed(sinkName string, entries int) {
	d.r.RecordsDispatched(sinkName, entries)
}

func (d dispatchAdapter) RotationHandled(sinkName string) {
	d.r.RotationsTotal(sinkName)
}

func (d dispatchAdapter) CompressionHandled(sinkName string) {
	d.r.CompressionsTotal(sinkName)
}
