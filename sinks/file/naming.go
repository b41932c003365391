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

package file

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// activeFilename builds the active log file name: app_YYYYMMDD_HHMMSS.log.
func activeFilename(t time.Time) string {
	return "app_" + t.UTC().Format("20060102_150405") + ".log"
}

// isLogArtifact reports whether name looks like one of this sink's
// rotated/compressed artifacts, for discovery. compress.Pool applies the
// same app_ prefix and suffix test when pruning.
func isLogArtifact(name string) bool {
	return strings.HasPrefix(name, "app_") && (strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.lz4"))
}

// Artifacts lists this sink's active, rotated, and compressed files in dir,
// oldest first. Useful for operators inspecting what a given LogDir holds.
func Artifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type artifact struct {
		path    string
		modTime time.Time
	}
	var found []artifact
	for _, e := range entries {
		if !isLogArtifact(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, artifact{path: filepath.Join(dir, e.Name()), modTime: info.ModTime()})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].modTime.Before(found[j].modTime) })

	out := make([]string, len(found))
	for i, a := range found {
		out[i] = a.path
	}
	return out, nil
}
