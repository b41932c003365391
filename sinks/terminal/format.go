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

package terminal

import (
	"strconv"
	"strings"
	"time"

	"dirpx.dev/pulselog/level"
	"dirpx.dev/pulselog/record"
)

// reset is the ANSI sequence that clears any preceding color/style.
const reset = "\x1b[0m"

// FormatConfig describes the terminal line template.
type FormatConfig struct {
	// Template may reference the placeholders {timestamp} {level} {target}
	// {file} {line} {message}.
	Template string

	// TimeFormat is a time.Layout string used to render {timestamp}.
	TimeFormat string
}

// DefaultFormat returns the template pulselog uses absent explicit config.
func DefaultFormat() FormatConfig {
	return FormatConfig{
		Template:   "{timestamp} [{level}] {target} {file}:{line} - {message}\n",
		TimeFormat: "2006-01-02 15:04:05.000",
	}
}

// ColorConfig is the per-placeholder ANSI palette.
type ColorConfig struct {
	Timestamp string
	Target    string
	File      string
	Message   string
	// Levels maps a level to its ANSI code. Levels absent from the map are
	// rendered uncolored.
	Levels map[level.Level]string
}

// DefaultColor returns a conventional severity palette: red/yellow/green/
// blue/gray for error/warn/info/debug/trace.
func DefaultColor() ColorConfig {
	return ColorConfig{
		Timestamp: "\x1b[90m",
		Target:    "\x1b[36m",
		File:      "\x1b[90m",
		Message:   "",
		Levels: map[level.Level]string{
			level.Error: "\x1b[31m",
			level.Warn:  "\x1b[33m",
			level.Info:  "\x1b[32m",
			level.Debug: "\x1b[34m",
			level.Trace: "\x1b[90m",
		},
	}
}

// formatLine renders r through s's template, applying the color palette
// when the sink was built with EnableColor.
func (s *Sink) formatLine(r record.Record) string {
	line := s.format.Template
	if s.useCol {
		// Preserve visual cohesion: a literal "}:" in the template (as in
		// the default "{file}:{line}" run) would otherwise carry a
		// dangling color code across the colon into plain text.
		line = strings.ReplaceAll(line, "}:", "}"+reset+":")
	}
	line = s.substitute(line, "{timestamp}", time.Now().Format(s.format.TimeFormat), s.color.Timestamp)
	line = s.substitute(line, "{level}", strings.ToUpper(r.Level.String()), s.levelColor(r.Level))
	line = s.substitute(line, "{target}", r.Target, s.color.Target)
	line = s.substitute(line, "{file}", r.File, s.color.File)
	line = s.substitute(line, "{line}", strconv.FormatUint(uint64(r.Line), 10), s.color.File)
	line = s.substitute(line, "{message}", r.Message, s.color.Message)
	return line
}

func (s *Sink) levelColor(l level.Level) string {
	if s.color.Levels == nil {
		return ""
	}
	return s.color.Levels[l]
}

func (s *Sink) substitute(line, placeholder, value, color string) string {
	if !strings.Contains(line, placeholder) {
		return line
	}
	rendered := value
	if s.useCol && color != "" {
		rendered = color + value + reset
	}
	return strings.ReplaceAll(line, placeholder, rendered)
}
