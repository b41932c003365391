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

// Package file implements a rotating, optionally-compressing file sink.
// Active files are named app_YYYYMMDD_HHMMSS.log; once rotated they are
// handed to a compression pool that produces a .log.lz4 archive and prunes
// old artifacts.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"dirpx.dev/pulselog/compress"
	"dirpx.dev/pulselog/record"
)

// ErrRawWithFormat is returned when Config requests both IsRaw and a
// Format: the two are mutually exclusive output modes.
var ErrRawWithFormat = errors.New("sinks/file: IsRaw and Format are mutually exclusive")

// ErrInvalidMaxFileSize is returned when MaxFileSize is not positive.
var ErrInvalidMaxFileSize = errors.New("sinks/file: MaxFileSize must be > 0")

// Config configures the file sink.
type Config struct {
	// LogDir is the directory active and rotated files live in.
	LogDir string

	// MaxFileSize is the byte threshold that triggers rotation. Must be > 0.
	MaxFileSize int64

	// MaxCompressedFiles bounds the total number of kept files — compressed
	// archives plus the one active file; 0 means unbounded. The active file
	// always occupies one slot of the cap and is never itself deleted, so
	// at most MaxCompressedFiles-1 archives are retained alongside it.
	MaxCompressedFiles int

	// CompressionLevel is bounded to [0, 22] (LZ4-style) by Validate but is
	// not passed to the compression pool: pulselog's LZ4 writer uses the
	// library's default block behavior regardless of the numeric value.
	CompressionLevel int

	// MinCompressThreads is accepted for configuration-surface parity but
	// does not bound the shared compress.Pool, which is already sized to
	// host parallelism; see DESIGN.md.
	MinCompressThreads int

	// SkipServerLogs drops records whose AppID is empty at the sink
	// boundary — "don't log my own infra chatter."
	SkipServerLogs bool

	// IsRaw, when true, writes only "message\n" with no timestamp, level,
	// or target. Mutually exclusive with Format.
	IsRaw bool

	// Format sets the timestamp layout of non-raw lines; the rest of the
	// line layout is fixed. Nil selects DefaultFormat. Mutually exclusive
	// with IsRaw.
	Format *FormatConfig

	// CompressOnDrop rotates and compresses the active file during
	// Cleanup, instead of leaving a partial file behind.
	CompressOnDrop bool

	// ForceSync fsyncs after every write. Otherwise the sink relies on the
	// OS's own write-back.
	ForceSync bool
}

// FormatConfig describes the file sink's non-raw output template.
type FormatConfig struct {
	TimeFormat string
}

// DefaultFormat is used when Config.Format is nil and IsRaw is false.
func DefaultFormat() FormatConfig {
	return FormatConfig{TimeFormat: "2006-01-02 15:04:05.000"}
}

// Validate enforces Config's invariants.
func (c Config) Validate() error {
	if c.IsRaw && c.Format != nil {
		return ErrRawWithFormat
	}
	if c.MaxFileSize <= 0 {
		return ErrInvalidMaxFileSize
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 22 {
		return fmt.Errorf("sinks/file: CompressionLevel must be in [0, 22], got %d", c.CompressionLevel)
	}
	return nil
}

// Sink is a rotating, compressing file destination.
type Sink struct {
	mu   sync.Mutex
	cfg  Config
	pool *compress.Pool

	f           *os.File
	currentPath string
	currentSize int64
	closed      bool
}

// New constructs a file sink, creating LogDir and opening the first active
// file. pool is the compression pool rotation hands off to; pass
// compress.Shared() unless the caller wants an isolated pool (e.g. tests).
func New(cfg Config, pool *compress.Pool) (*Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pool == nil {
		pool = compress.Shared()
	}
	if cfg.Format == nil && !cfg.IsRaw {
		f := DefaultFormat()
		cfg.Format = &f
	}

	s := &Sink{cfg: cfg, pool: pool}
	if err := s.openNew(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) Name() string { return "file" }

// Process formats and appends a single record, rotating first if the
// pending write would exceed MaxFileSize.
func (s *Sink) Process(ctx context.Context, entry []byte) error {
	return s.ProcessBatch(ctx, [][]byte{entry})
}

// ProcessBatch appends every record in order, rotating between entries as
// needed, with a single fsync at the end when ForceSync is set.
func (s *Sink) ProcessBatch(ctx context.Context, entries [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("sinks/file: sink closed")
	}

	wroteAny := false
	for _, entry := range entries {
		r, err := record.Decode(entry)
		if err != nil {
			return fmt.Errorf("sinks/file: %w", err)
		}
		if s.cfg.SkipServerLogs && r.AppID == "" {
			continue
		}

		line := s.formatLine(r)
		if s.currentSize+int64(len(line)) >= s.cfg.MaxFileSize {
			if err := s.rotateLocked(); err != nil {
				return err
			}
		}

		n, err := s.f.WriteString(line)
		s.currentSize += int64(n)
		if err != nil {
			return err
		}
		wroteAny = true
	}

	if wroteAny && s.cfg.ForceSync {
		if err := s.f.Sync(); err != nil {
			return fmt.Errorf("sinks/file: fsync: %w", err)
		}
	}
	return nil
}

func (s *Sink) formatLine(r record.Record) string {
	if s.cfg.IsRaw {
		return r.Message + "\n"
	}
	ts := time.Now().Format(s.cfg.Format.TimeFormat)
	return ts + " [" + strings.ToUpper(r.Level.String()) + "] " + r.Target + " " + r.File + ":" + strconv.FormatUint(uint64(r.Line), 10) + " - " + r.Message + "\n"
}

// HandleRotate closes the active file and opens a fresh one, handing the
// just-closed file off to the compression pool. Compression follows every
// rotation regardless of Config.MaxCompressedFiles, which only bounds
// pruning.
func (s *Sink) HandleRotate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.rotateLocked()
}

// rotateLocked implements Active -> Closing -> Renamed -> Opened: the
// active file's name already embeds its creation timestamp, so "rename"
// is a no-op on the filesystem; rotation closes it, submits it for
// compression, and opens a new active file under a fresh timestamp name.
func (s *Sink) rotateLocked() error {
	closedPath := s.currentPath
	if s.f != nil {
		if err := s.f.Close(); err != nil {
			return fmt.Errorf("sinks/file: close before rotate: %w", err)
		}
		s.f = nil
	}

	if err := s.openNewLocked(); err != nil {
		return err
	}

	if closedPath != "" {
		s.pool.Submit(context.Background(), closedPath, s.currentPath, s.cfg.MaxCompressedFiles)
	}
	return nil
}

// HandleCompress submits path directly to the compression pool, for
// callers that want to compress an out-of-band file (e.g. a file left over
// from a previous process).
func (s *Sink) HandleCompress(ctx context.Context, path string) error {
	s.mu.Lock()
	active := s.currentPath
	maxFiles := s.cfg.MaxCompressedFiles
	s.mu.Unlock()
	s.pool.Submit(ctx, path, active, maxFiles)
	return nil
}

// Flush fsyncs the active file.
func (s *Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	return s.f.Sync()
}

// Cleanup closes the active file. When CompressOnDrop is set, the final
// file is rotated (and thus compressed) rather than left as a bare ".log".
func (s *Sink) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.cfg.CompressOnDrop {
		return s.rotateAndCloseLocked()
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}

func (s *Sink) rotateAndCloseLocked() error {
	closedPath := s.currentPath
	if s.f != nil {
		if err := s.f.Close(); err != nil {
			return err
		}
		s.f = nil
	}
	if closedPath != "" {
		s.pool.Submit(context.Background(), closedPath, "", s.cfg.MaxCompressedFiles)
	}
	return nil
}

func (s *Sink) openNew() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openNewLocked()
}

func (s *Sink) openNewLocked() error {
	if err := os.MkdirAll(s.cfg.LogDir, 0o755); err != nil {
		return fmt.Errorf("sinks/file: mkdir: %w", err)
	}

	name := activeFilename(time.Now())
	if prev := filepath.Base(s.currentPath); s.currentPath != "" && name <= prev {
		// Rotating again within the same second: step one second past the
		// previous name so the new file never reuses the rotated-out one.
		stamp := strings.TrimSuffix(strings.TrimPrefix(prev, "app_"), ".log")
		if t, err := time.Parse("20060102_150405", stamp); err == nil {
			name = activeFilename(t.Add(time.Second))
		}
	}
	path := filepath.Join(s.cfg.LogDir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("sinks/file: open: %w", err)
	}

	s.f = f
	s.currentPath = path
	s.currentSize = 0
	return nil
}
