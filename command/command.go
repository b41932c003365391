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

// Package command defines the message shape a dispatcher sends to a sink
// worker's dedicated goroutine. It is the Go analogue of the sum type the
// original implementation sent across a crossbeam channel; Go has no enum
// with payload, so Kind discriminates and only the field matching Kind is
// meaningful on a given Command.
package command

// Kind discriminates the variants of Command.
type Kind int8

const (
	// Write enqueues a single encoded record into the worker's batch buffer.
	// It is subject to batching: the worker only flushes when the batch
	// fills or the interval elapses.
	Write Kind = iota
	// WriteForce bypasses batching entirely: the worker writes Payload
	// synchronously and flushes before returning. Used for the emergency
	// path (Error-level records, and direct Logger.EmergencyLog callers).
	WriteForce
	// Flush asks the worker to write out whatever is currently buffered,
	// without adding a new record.
	Flush
	// Rotate asks a file-backed worker to close its active file and open a
	// fresh one. No-op for sinks that have no file underneath them.
	Rotate
	// Compress asks the worker to hand Path off to the compression pool.
	Compress
	// Shutdown asks the worker to flush, release resources, and return.
	// Tag carries an arbitrary caller-supplied marker surfaced in logs.
	Shutdown
	// HealthCheck asks the worker to answer liveness on Reply.
	HealthCheck
)

func (k Kind) String() string {
	switch k {
	case Write:
		return "write"
	case WriteForce:
		return "write_force"
	case Flush:
		return "flush"
	case Rotate:
		return "rotate"
	case Compress:
		return "compress"
	case Shutdown:
		return "shutdown"
	case HealthCheck:
		return "health_check"
	default:
		return "unknown"
	}
}

// Command is the unit of work sent down a sink worker's command channel.
type Command struct {
	Kind Kind

	// Payload holds the encoded record for Write and WriteForce.
	Payload []byte

	// Path holds the file path to compress, for Compress.
	Path string

	// Tag holds an arbitrary caller marker, for Shutdown.
	Tag string

	// Reply is sent exactly one bool on, for HealthCheck. true means the
	// worker processed the check and is alive.
	Reply chan<- bool
}

// NewWrite builds a Write command carrying payload.
func NewWrite(payload []byte) Command {
	return Command{Kind: Write, Payload: payload}
}

// NewWriteForce builds a WriteForce command carrying payload.
func NewWriteForce(payload []byte) Command {
	return Command{Kind: WriteForce, Payload: payload}
}

// NewFlush builds a Flush command.
func NewFlush() Command { return Command{Kind: Flush} }

// NewRotate builds a Rotate command.
func NewRotate() Command { return Command{Kind: Rotate} }

// NewCompress builds a Compress command for path.
func NewCompress(path string) Command {
	return Command{Kind: Compress, Path: path}
}

// NewShutdown builds a Shutdown command carrying tag.
func NewShutdown(tag string) Command {
	return Command{Kind: Shutdown, Tag: tag}
}

// NewHealthCheck builds a HealthCheck command whose answer is delivered on
// reply. reply must have capacity for at least one send, or the worker must
// be guaranteed to receive promptly; dispatch.Manager uses a buffered
// channel of size 1.
func NewHealthCheck(reply chan<- bool) Command {
	return Command{Kind: HealthCheck, Reply: reply}
}
