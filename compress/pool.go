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

// Package compress runs file-sink rotation artifacts through LZ4 on a
// process-wide, bounded-concurrency pool: compress the rotated file, delete
// the original on success, then prune the directory down to a retention
// count. Task ordering across files is not guaranteed; operations on a
// single file run strictly in that order.
package compress

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/pierrec/lz4/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent compression work to the host's available
// parallelism, with a floor of 1 so a single-core container still makes
// progress.
type Pool struct {
	sem *semaphore.Weighted
	log *zap.Logger
}

var shared *Pool

// Shared returns the process-wide compression pool, creating it on first
// use sized to runtime.GOMAXPROCS(0).
func Shared() *Pool {
	if shared == nil {
		shared = New(nil)
	}
	return shared
}

func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// New builds a pool sized to the host's parallelism.
func New(logger *zap.Logger) *Pool {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(n)), log: orNop(logger)}
}

// deleteRetries bounds how many times Submit retries deleting a
// successfully-compressed source file before giving up.
const deleteRetries = 5

// maxCompressedFiles is the total number of files to retain in activePath's
// directory, counting the active file itself; 0 means unbounded. Submit
// prunes app_*.log and app_*.log.lz4 siblings, never the active file.
func (p *Pool) Submit(ctx context.Context, sourcePath, activePath string, maxCompressedFiles int) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		p.log.Error("compress: failed to acquire pool slot", zap.String("path", sourcePath), zap.Error(err))
		return
	}
	go func() {
		defer p.sem.Release(1)
		p.run(sourcePath, activePath, maxCompressedFiles)
	}()
}

func (p *Pool) run(sourcePath, activePath string, maxCompressedFiles int) {
	dstPath, err := compressToLZ4(sourcePath)
	if err != nil {
		// A compression failure leaves the original artifact on disk; it
		// is never deleted when compression did not succeed.
		p.log.Error("compress: failed, leaving source in place", zap.String("path", sourcePath), zap.Error(err))
		return
	}

	if err := deleteWithRetry(sourcePath); err != nil {
		p.log.Error("compress: could not remove source after compression", zap.String("path", sourcePath), zap.String("compressed", dstPath), zap.Error(err))
		return
	}

	if err := prune(filepath.Dir(dstPath), activePath, maxCompressedFiles); err != nil {
		p.log.Error("compress: pruning failed", zap.String("dir", filepath.Dir(dstPath)), zap.Error(err))
	}
}

// compressToLZ4 compresses srcPath into srcPath with ".log" replaced by
// ".log.lz4" (or srcPath+".lz4" if it has no ".log" suffix).
func compressToLZ4(srcPath string) (string, error) {
	dstPath := lz4Path(srcPath)

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dst.Close()

	zw := lz4.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		_ = zw.Close()
		return "", fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	return dstPath, nil
}

// lz4Path derives the archive path for a rotated log file: "<stem>.log"
// becomes "<stem>.log.lz4".
func lz4Path(path string) string {
	return path + ".lz4"
}

// deleteWithRetry removes path, retrying up to deleteRetries times with a
// short backoff on a permission error — the Windows-typical case where an
// antivirus or a lingering reader still holds the file open briefly after
// it was closed.
func deleteWithRetry(path string) error {
	var lastErr error
	for attempt := 0; attempt < deleteRetries; attempt++ {
		err := os.Remove(path)
		if err == nil {
			return nil
		}
		lastErr = err
		if !os.IsPermission(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 20 * time.Millisecond)
	}
	return lastErr
}

// prune lists rotated/compressed siblings in dir and deletes the oldest
// until at most maxCompressedFiles files remain in total, counting the
// active file (which is never itself a candidate for deletion) toward that
// cap. An activePath that does not exist on disk does not occupy a slot.
func prune(dir, activePath string, maxCompressedFiles int) error {
	if maxCompressedFiles <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type artifact struct {
		path    string
		modTime time.Time
	}
	var artifacts []artifact
	activeBase := filepath.Base(activePath)
	activePresent := false

	for _, e := range entries {
		name := e.Name()
		if name == activeBase {
			activePresent = true
			continue
		}
		if !isRotatedArtifact(name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, artifact{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}

	maxArchives := maxCompressedFiles
	if activePresent {
		maxArchives--
	}
	if maxArchives < 0 {
		maxArchives = 0
	}

	if len(artifacts) <= maxArchives {
		return nil
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].modTime.Before(artifacts[j].modTime) })

	for _, a := range artifacts[:len(artifacts)-maxArchives] {
		_ = os.Remove(a.path)
	}
	return nil
}

func isRotatedArtifact(name string) bool {
	return strings.HasPrefix(name, "app_") && (strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.lz4"))
}
