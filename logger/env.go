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
	"strings"

	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/sinks/terminal"
)

// EnvVar is the environment variable InstallFromEnv reads, the RUST_LOG
// equivalent for this library.
const EnvVar = "PULSELOG_LOG"

// ParseLevelEnv accepts only the five canonical level names (error, warn,
// info, debug, trace), case-insensitive; the aliases level.ParseLevel also
// takes ("err", "warning") are rejected. Its error message names the
// variable, not just the raw value.
func ParseLevelEnv(s string) (level.Level, error) {
	lvl, err := level.ParseLevel(s)
	if err == nil && strings.ToLower(strings.TrimSpace(s)) != lvl.String() {
		err = fmt.Errorf("%w: %q", level.ErrLevelInvalid, s)
	}
	if err != nil {
		return 0, fmt.Errorf("logger: %s=%q: %w", EnvVar, s, err)
	}
	return lvl, nil
}

// InstallFromEnv installs a default terminal-only Logger at the level named
// by PULSELOG_LOG, or Info if the variable is unset. It returns an error
// for a set-but-unparseable value rather than silently falling back.
func InstallFromEnv(ctx context.Context) error {
	lvl := level.Info
	if raw, ok := os.LookupEnv(EnvVar); ok {
		parsed, err := ParseLevelEnv(raw)
		if err != nil {
			return err
		}
		lvl = parsed
	}
	return NewBuilder().WithLevel(lvl).AddTerminal(terminal.Config{}).Install(ctx)
}

// QuickInit builds and returns a standalone terminal-only Logger at lvl,
// without touching the process-wide global slot. It is the fastest path to
// a working Logger for a short-lived program or a test.
func QuickInit(lvl level.Level) (*Logger, error) {
	return NewBuilder().WithLevel(lvl).AddTerminal(terminal.Config{}).Build(context.Background())
}
