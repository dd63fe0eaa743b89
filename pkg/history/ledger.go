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

// Package history keeps completed rename sessions in bounded undo/redo
// stacks and replays them backward or forward. History lives for the process
// lifetime only; sessions evicted from the bound are permanently
// unrecoverable.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/renamepro/pkg/rename"
)

// defaultMaxHistory bounds the undo stack when no limit is configured.
const defaultMaxHistory = 50

// 📊 Result is the outcome of an undo or redo replay. OK is false when any
// individual record failed to restore; the replay itself still completes and
// the session still transitions between stacks.
type Result struct {
	OK            bool
	Message       string
	FilesRestored int
}

// 📚 Ledger holds the undo and redo stacks. All entry points are guarded by
// a single mutex: the stacks must never be read mid-mutation by a concurrent
// undo/redo call.
type Ledger struct {
	mu         sync.Mutex
	undoStack  []*rename.Session
	redoStack  []*rename.Session
	maxHistory int
}

// 🏭 New creates a ledger bounded at maxHistory sessions. Zero or negative
// values fall back to the default bound.
func New(maxHistory int) *Ledger {
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	return &Ledger{maxHistory: maxHistory}
}

// 📼 Record pushes a session onto the undo stack. Any redo history is
// invalidated: redoing past a new forward action makes no sense. The oldest
// session is evicted once the bound is exceeded.
//
// Record implements rename.SessionRecorder.
func (l *Ledger) Record(ctx context.Context, session *rename.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.undoStack = append(l.undoStack, session)
	l.redoStack = nil

	for len(l.undoStack) > l.maxHistory {
		evicted := l.undoStack[0]
		l.undoStack = l.undoStack[1:]
		zerolog.Ctx(ctx).Debug().Str("session_id", evicted.ID).Msg("evicted session from history")
	}

	zerolog.Ctx(ctx).Info().
		Str("session_id", session.ID).
		Int("records", len(session.Records)).
		Msg("recorded session")
}

// ✅ CanUndo reports whether a session is available to undo.
func (l *Ledger) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack) > 0
}

// ✅ CanRedo reports whether an undone session is available to redo.
func (l *Ledger) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack) > 0
}

// ↩️ Undo reverses the most recent session: records are replayed in reverse
// order (last applied, first undone), moves go back to their original paths
// and copies are deleted. Failed records are skipped, and a restore error on
// one record never blocks the rest. The session lands on the redo stack even
// when some restores failed; the session itself is never mutated.
func (l *Ledger) Undo(ctx context.Context) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	if len(l.undoStack) == 0 {
		return Result{Message: "Nothing to undo"}
	}

	session := l.undoStack[len(l.undoStack)-1]
	l.undoStack = l.undoStack[:len(l.undoStack)-1]

	restored := 0
	var errs []string

	for i := len(session.Records) - 1; i >= 0; i-- {
		record := session.Records[i]
		if !record.Success {
			continue
		}

		if _, err := os.Stat(record.NewPath); err != nil {
			errs = append(errs, fmt.Sprintf("File not found: %s", record.NewPath))
			continue
		}

		var err error
		switch record.Operation {
		case rename.OpMove:
			if err = os.MkdirAll(filepath.Dir(record.OriginalPath), 0755); err == nil {
				err = rename.MoveFile(record.NewPath, record.OriginalPath)
			}
		case rename.OpCopy:
			err = os.Remove(record.NewPath)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", filepath.Base(record.NewPath), err))
			logger.Error().Err(err).Str("path", record.NewPath).Msg("undo failed for record")
			continue
		}
		restored++
	}

	l.redoStack = append(l.redoStack, session)

	if len(errs) > 0 {
		return Result{
			Message:       fmt.Sprintf("Restored %d files with %d errors", restored, len(errs)),
			FilesRestored: restored,
		}
	}

	return Result{
		OK:            true,
		Message:       fmt.Sprintf("Restored %d files", restored),
		FilesRestored: restored,
	}
}

// ↪️ Redo re-applies the most recently undone session, replaying records in
// their original forward order with the same continue-on-error discipline as
// Undo. The session moves back onto the undo stack unconditionally.
func (l *Ledger) Redo(ctx context.Context) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	if len(l.redoStack) == 0 {
		return Result{Message: "Nothing to redo"}
	}

	session := l.redoStack[len(l.redoStack)-1]
	l.redoStack = l.redoStack[:len(l.redoStack)-1]

	renamed := 0
	var errs []string

	for _, record := range session.Records {
		if !record.Success {
			continue
		}

		if _, err := os.Stat(record.OriginalPath); err != nil {
			errs = append(errs, fmt.Sprintf("File not found: %s", record.OriginalPath))
			continue
		}

		var err error
		if err = os.MkdirAll(filepath.Dir(record.NewPath), 0755); err == nil {
			switch record.Operation {
			case rename.OpMove:
				err = rename.MoveFile(record.OriginalPath, record.NewPath)
			case rename.OpCopy:
				err = copyForRedo(record.OriginalPath, record.NewPath)
			}
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", filepath.Base(record.OriginalPath), err))
			logger.Error().Err(err).Str("path", record.OriginalPath).Msg("redo failed for record")
			continue
		}
		renamed++
	}

	l.undoStack = append(l.undoStack, session)

	if len(errs) > 0 {
		return Result{
			Message:       fmt.Sprintf("Renamed %d files with %d errors", renamed, len(errs)),
			FilesRestored: renamed,
		}
	}

	return Result{
		OK:            true,
		Message:       fmt.Sprintf("Renamed %d files", renamed),
		FilesRestored: renamed,
	}
}

// 📝 UndoDescription describes what the next Undo would revert, for display.
func (l *Ledger) UndoDescription() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undoStack) == 0 {
		return ""
	}
	session := l.undoStack[len(l.undoStack)-1]
	return fmt.Sprintf("Undo %d file(s) from Job #%s", session.SuccessCount(), session.JobNumber)
}

// 📝 RedoDescription describes what the next Redo would re-apply.
func (l *Ledger) RedoDescription() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return ""
	}
	session := l.redoStack[len(l.redoStack)-1]
	return fmt.Sprintf("Redo %d file(s) for Job #%s", session.SuccessCount(), session.JobNumber)
}

// 🧹 Clear drops all undo and redo history.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undoStack = nil
	l.redoStack = nil
}

// copyForRedo re-creates a copy record's destination from its surviving
// source.
func copyForRedo(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
