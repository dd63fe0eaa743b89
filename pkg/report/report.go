// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report renders batch outcomes for humans: one aligned line per
// file with a colored symbol, plus session summaries. Diagnostics go to
// zerolog separately; this package is only the console surface.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/renamepro/pkg/rename"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 40 // Base width for filename
)

// 🎯 Reporter writes human-readable batch results to a console writer.
type Reporter struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new reporter
func New(console io.Writer, zlog zerolog.Logger) *Reporter {
	return &Reporter{
		zlog:    zlog,
		console: console,
	}
}

// 📝 Header prints the tool banner with a context message
func (r *Reporter) Header(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("renamepro")
	fmt.Fprintf(r.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	r.zlog.Info().Msg(msg)
}

// 📝 Session prints one line per record followed by a summary line.
func (r *Reporter) Session(session *rename.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range session.Records {
		fmt.Fprintln(r.console, formatRecord(record))

		r.zlog.Info().
			Str("source", record.OriginalPath).
			Str("dest", record.NewPath).
			Bool("success", record.Success).
			Str("error", record.Error).
			Msg("file operation")
	}

	summary := fmt.Sprintf("%d renamed, %d failed", session.SuccessCount(), session.ErrorCount())
	if session.ErrorCount() > 0 {
		fmt.Fprintf(r.console, "\n⚠️  %s\n", color.New(color.FgYellow).Sprint(summary))
	} else {
		fmt.Fprintf(r.console, "\n✅ %s\n", color.New(color.FgGreen).Sprint(summary))
	}
}

// 📝 Success logs a success message
func (r *Reporter) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	r.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (r *Reporter) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	r.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (r *Reporter) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	r.zlog.Error().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (r *Reporter) Infof(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(r.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	r.zlog.Info().Msg(msg)
}

// 📝 formatRecord formats one record for display
func formatRecord(record rename.Record) string {
	var symbol rune
	var symbolColor color.Attribute
	var detail string

	switch {
	case record.Success:
		symbol = '✓'
		symbolColor = color.FgGreen
		detail = filepath.Base(record.NewPath)
	case record.ErrorKind == rename.ErrTargetExists:
		symbol = '-'
		symbolColor = color.FgYellow
		detail = record.Error
	default:
		symbol = '✗'
		symbolColor = color.FgRed
		detail = record.Error
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(record.OriginalPath)),
		detail)
}
