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

// Package terminal implements a sink that writes formatted records to
// stdout through a colorable, buffered writer.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"

	"dirpx.dev/pulselog/record"
)

// ErrColorWithoutEnable is returned when a Config requests a Color palette
// without turning coloring on; the two are a configuration conflict, not a
// silently-ignored combination.
var ErrColorWithoutEnable = errors.New("sinks/terminal: color palette given but EnableColor is false")

// Config configures the terminal sink.
type Config struct {
	// EnableColor turns ANSI coloring on. Color must be nil when false.
	EnableColor bool

	// Format describes the output template. Nil selects DefaultFormat.
	Format *FormatConfig

	// Color describes the per-placeholder ANSI palette. Nil (with
	// EnableColor true) selects DefaultColor.
	Color *ColorConfig
}

// Validate enforces the EnableColor/Color conflict.
func (c Config) Validate() error {
	if !c.EnableColor && c.Color != nil {
		return ErrColorWithoutEnable
	}
	return nil
}

// Sink writes formatted, optionally colorized records to stdout.
type Sink struct {
	mu     sync.Mutex
	out    *bufio.Writer
	format FormatConfig
	color  ColorConfig
	useCol bool
}

// New constructs a terminal sink writing to a colorable wrapper over w (pass
// os.Stdout in production; a plain buffer in tests). w is wrapped with
// go-colorable so ANSI sequences degrade gracefully off a real TTY (notably
// on Windows consoles that don't natively interpret them).
func New(cfg Config, w io.Writer) (*Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format := DefaultFormat()
	if cfg.Format != nil {
		format = *cfg.Format
	}
	color := DefaultColor()
	if cfg.Color != nil {
		color = *cfg.Color
	}

	dest := wrapColorable(w, cfg.EnableColor)

	return &Sink{
		out:    bufio.NewWriter(dest),
		format: format,
		color:  color,
		useCol: cfg.EnableColor,
	}, nil
}

func (s *Sink) Name() string { return "terminal" }

// Process formats and writes a single record.
func (s *Sink) Process(ctx context.Context, entry []byte) error {
	r, err := record.Decode(entry)
	if err != nil {
		return fmt.Errorf("sinks/terminal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, werr := s.out.WriteString(s.formatLine(r))
	return werr
}

// ProcessBatch formats every record and issues a single concatenated write,
// amortizing syscall cost the way spec'd batched terminal output requires.
func (s *Sink) ProcessBatch(ctx context.Context, entries [][]byte) error {
	var b []byte
	for _, e := range entries {
		r, err := record.Decode(e)
		if err != nil {
			return fmt.Errorf("sinks/terminal: %w", err)
		}
		b = append(b, s.formatLine(r)...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.out.Write(b)
	return err
}

func (s *Sink) HandleRotate(ctx context.Context) error   { return nil }
func (s *Sink) HandleCompress(ctx context.Context, _ string) error { return nil }

// Flush flushes the buffered writer (the OS flush the spec calls for).
func (s *Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Flush()
}

// Cleanup flushes any remaining buffered output.
func (s *Sink) Cleanup(ctx context.Context) error {
	return s.Flush(ctx)
}

// wrapColorable wraps w so ANSI escape sequences degrade gracefully on a
// non-TTY or a native Windows console. *os.File gets go-colorable's real
// terminal-aware wrapper (NewColorable when enableColor, NewNonColorable to
// strip sequences outright when color is off); any other io.Writer is
// passed through as-is, since go-colorable only special-cases *os.File.
func wrapColorable(w io.Writer, enableColor bool) io.Writer {
	f, ok := w.(*os.File)
	if !ok {
		return w
	}
	if enableColor {
		return colorable.NewColorable(f)
	}
	return colorable.NewNonColorable(f)
}
