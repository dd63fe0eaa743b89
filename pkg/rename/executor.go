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

// Package rename moves batches of files into a destination directory under a
// duplicate policy, producing an undoable session record per batch. Each file
// is an independent unit of work: one failure never aborts the rest.
package rename

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// maxUniqueProbes bounds the increment policy's search for a free filename.
const maxUniqueProbes = 9999

// 🏃 Executor performs batch rename operations and registers the resulting
// sessions with an injected recorder.
type Executor struct {
	recorder SessionRecorder
}

// 🏭 NewExecutor creates an executor. recorder may be nil, in which case
// completed sessions are not registered anywhere (useful for tests and
// dry-run hosts).
func NewExecutor(recorder SessionRecorder) *Executor {
	return &Executor{recorder: recorder}
}

// 🏃 Execute moves each mapped file into destDir, in input order, applying
// the duplicate policy per file. All per-file errors are captured on the
// session's records; the returned session reports both successes and
// failures. Sessions with at least one success are handed to the recorder.
//
// The returned error is always nil today; the signature leaves room for
// batch-level failures that cannot be attributed to a single file.
func (e *Executor) Execute(ctx context.Context, files []FileMapping, destDir, jobNumber string, mode DuplicateMode, onProgress ProgressFunc) (*Session, error) {
	logger := zerolog.Ctx(ctx)

	now := time.Now()
	session := &Session{
		ID:        newSessionID(now),
		Timestamp: now,
		JobNumber: jobNumber,
	}

	destErr := os.MkdirAll(destDir, 0755)
	if destErr != nil {
		logger.Error().Err(destErr).Str("dir", destDir).Msg("creating destination directory")
	}

	total := len(files)
	for i, file := range files {
		if onProgress != nil {
			onProgress(i+1, total, file.DestName)
		}

		record := Record{
			OriginalPath: file.SourcePath,
			NewPath:      filepath.Join(destDir, file.DestName),
			Operation:    OpMove,
			Timestamp:    time.Now(),
		}

		if destErr != nil {
			record.Error = "Destination folder could not be created"
			record.ErrorKind = ErrDestinationUnreachable
			session.Records = append(session.Records, record)
			continue
		}

		e.processFile(ctx, &record, mode)
		session.Records = append(session.Records, record)
	}

	if session.SuccessCount() > 0 && e.recorder != nil {
		e.recorder.Record(ctx, session)
	}

	logger.Info().
		Str("session_id", session.ID).
		Str("job_number", jobNumber).
		Int("succeeded", session.SuccessCount()).
		Int("failed", session.ErrorCount()).
		Msg("rename batch finished")

	return session, nil
}

// 📄 processFile applies the duplicate policy and performs the move for one
// record, writing the outcome back onto it.
func (e *Executor) processFile(ctx context.Context, record *Record, mode DuplicateMode) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(record.NewPath); err == nil {
		switch mode {
		case DuplicateSkip:
			record.Error = "File already exists"
			record.ErrorKind = ErrTargetExists
			return

		case DuplicateIncrement:
			unique, err := uniquePath(record.NewPath)
			if err != nil {
				record.Error = err.Error()
				record.ErrorKind = ErrUniquePathExhausted
				return
			}
			record.NewPath = unique

		case DuplicateOverwrite:
			if err := os.Remove(record.NewPath); err != nil {
				e.categorize(record, err)
				return
			}
		}
	}

	if err := MoveFile(record.OriginalPath, record.NewPath); err != nil {
		e.categorize(record, err)
		logger.Error().Err(err).Str("source", record.OriginalPath).Msg("moving file")
		return
	}

	record.Success = true
	logger.Debug().Str("source", record.OriginalPath).Str("dest", record.NewPath).Msg("renamed file")
}

// ⚠️ categorize maps an OS error onto the record's error kind and message.
func (e *Executor) categorize(record *Record, err error) {
	switch {
	case errors.Is(err, os.ErrPermission):
		record.Error = "Permission denied"
		record.ErrorKind = ErrPermissionDenied
	case errors.Is(err, os.ErrNotExist):
		record.Error = "Source file not found"
		record.ErrorKind = ErrSourceNotFound
	default:
		record.Error = err.Error()
		record.ErrorKind = ErrGeneric
	}
}

// 🔢 uniquePath probes "stem_1.ext", "stem_2.ext", ... until a free path is
// found, bounded at maxUniqueProbes attempts.
func uniquePath(path string) (string, error) {
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]

	for n := 1; n <= maxUniqueProbes; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	return "", errors.Errorf("could not find unique path for %s after %d attempts", path, maxUniqueProbes)
}

// 🚚 MoveFile renames src to dst, falling back to copy+delete when the
// rename fails across filesystem boundaries. The fallback is invisible to
// callers: either the file ends up at dst and is gone from src, or an error
// is returned.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}

	// Rename gave a link error: the paths may live on different devices.
	// Only attempt the fallback when the source is actually readable.
	if _, statErr := os.Stat(src); statErr != nil {
		return err
	}

	if copyErr := copyFile(src, dst); copyErr != nil {
		return copyErr
	}

	return os.Remove(src)
}

// 📋 copyFile copies src to dst preserving the source file mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Errorf("statting source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return errors.Errorf("copying content: %w", err)
	}

	return out.Close()
}

// ✅ SourceCheck is the result of pre-flight validation for one source path.
type SourceCheck struct {
	Path  string
	OK    bool
	Error string
}

// 🔍 ValidateSources checks that each source path exists and is a regular
// file before a batch is attempted.
func ValidateSources(ctx context.Context, paths []string) []SourceCheck {
	results := make([]SourceCheck, 0, len(paths))

	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			results = append(results, SourceCheck{Path: path, Error: "File not found"})
		case info.IsDir():
			results = append(results, SourceCheck{Path: path, Error: "Not a file"})
		default:
			results = append(results, SourceCheck{Path: path, OK: true})
		}
	}

	return results
}
