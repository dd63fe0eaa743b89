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

package history_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/renamepro/pkg/history"
	"github.com/walteh/renamepro/pkg/rename"
)

// 🧪 testContext returns a context with a test-scoped logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 writeFile creates a file with content and returns its path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// 🧪 runBatch executes a two-file batch recorded into the given ledger and
// returns the source paths and destination dir
func runBatch(t *testing.T, ctx context.Context, ledger *history.Ledger) (srcA, srcB, destDir string) {
	t.Helper()

	srcDir := t.TempDir()
	destDir = t.TempDir()
	srcA = writeFile(t, srcDir, "a.psd", "content-a")
	srcB = writeFile(t, srcDir, "b.psd", "content-b")

	exec := rename.NewExecutor(ledger)
	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: srcA, DestName: "a_out.psd"},
		{SourcePath: srcB, DestName: "b_out.psd"},
	}, destDir, "12345", rename.DuplicateSkip, nil)
	require.NoError(t, err)
	require.Equal(t, 2, session.SuccessCount())

	return srcA, srcB, destDir
}

// 🧪 TestUndoRestoresFiles tests that undo restores moved files and arms redo
func TestUndoRestoresFiles(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(10)

	srcA, srcB, destDir := runBatch(t, ctx, ledger)
	require.True(t, ledger.CanUndo())
	require.False(t, ledger.CanRedo())

	result := ledger.Undo(ctx)

	assert.True(t, result.OK)
	assert.Equal(t, 2, result.FilesRestored)
	assert.Contains(t, result.Message, "Restored 2 files")

	// Files are back at their original paths and gone from the destination
	assert.FileExists(t, srcA)
	assert.FileExists(t, srcB)
	assert.NoFileExists(t, filepath.Join(destDir, "a_out.psd"))
	assert.NoFileExists(t, filepath.Join(destDir, "b_out.psd"))

	assert.False(t, ledger.CanUndo())
	assert.True(t, ledger.CanRedo())
}

// 🧪 TestRedoReappliesFiles tests the undo→redo round trip with content
// intact
func TestRedoReappliesFiles(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(10)

	srcA, srcB, destDir := runBatch(t, ctx, ledger)
	require.True(t, ledger.Undo(ctx).OK)

	result := ledger.Redo(ctx)

	assert.True(t, result.OK)
	assert.Equal(t, 2, result.FilesRestored)

	assert.NoFileExists(t, srcA)
	assert.NoFileExists(t, srcB)

	dataA, err := os.ReadFile(filepath.Join(destDir, "a_out.psd"))
	require.NoError(t, err)
	assert.Equal(t, "content-a", string(dataA))
	dataB, err := os.ReadFile(filepath.Join(destDir, "b_out.psd"))
	require.NoError(t, err)
	assert.Equal(t, "content-b", string(dataB))

	// Session oscillated back to the undo stack
	assert.True(t, ledger.CanUndo())
	assert.False(t, ledger.CanRedo())
}

// 🧪 TestUndoRecreatesOriginalDirectory tests that a removed source parent
// directory is recreated during undo
func TestUndoRecreatesOriginalDirectory(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(10)

	srcDir := filepath.Join(t.TempDir(), "job_folder")
	require.NoError(t, os.MkdirAll(srcDir, 0755))
	src := writeFile(t, srcDir, "a.psd", "a")
	destDir := t.TempDir()

	exec := rename.NewExecutor(ledger)
	_, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: src, DestName: "out.psd"},
	}, destDir, "1", rename.DuplicateSkip, nil)
	require.NoError(t, err)

	// Source directory vanishes between execute and undo
	require.NoError(t, os.Remove(srcDir))

	result := ledger.Undo(ctx)
	assert.True(t, result.OK)
	assert.FileExists(t, src)
}

// 🧪 TestUndoSkipsFailedRecords tests that failed records are not replayed
func TestUndoSkipsFailedRecords(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(10)

	srcDir := t.TempDir()
	destDir := t.TempDir()
	good := writeFile(t, srcDir, "good.psd", "g")
	writeFile(t, destDir, "taken.psd", "old")
	blocked := writeFile(t, srcDir, "blocked.psd", "b")

	exec := rename.NewExecutor(ledger)
	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: good, DestName: "good_out.psd"},
		{SourcePath: blocked, DestName: "taken.psd"}, // fails under skip policy
	}, destDir, "1", rename.DuplicateSkip, nil)
	require.NoError(t, err)
	require.Equal(t, 1, session.SuccessCount())

	result := ledger.Undo(ctx)

	assert.True(t, result.OK)
	assert.Equal(t, 1, result.FilesRestored)
	assert.FileExists(t, good)
	// The skipped file was never moved, so undo leaves it alone
	assert.FileExists(t, blocked)
	data, _ := os.ReadFile(filepath.Join(destDir, "taken.psd"))
	assert.Equal(t, "old", string(data))
}

// 🧪 TestUndoContinuesPastMissingFile tests continue-on-error during replay:
// a vanished destination file is reported but does not block the rest
func TestUndoContinuesPastMissingFile(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(10)

	srcA, _, destDir := runBatch(t, ctx, ledger)
	require.NoError(t, os.Remove(filepath.Join(destDir, "b_out.psd")))

	result := ledger.Undo(ctx)

	assert.False(t, result.OK)
	assert.Equal(t, 1, result.FilesRestored)
	assert.Contains(t, result.Message, "1 errors")
	assert.FileExists(t, srcA)

	// Session still transitioned to the redo stack despite the partial failure
	assert.True(t, ledger.CanRedo())
}

// 🧪 TestRecordClearsRedo tests that a new forward action invalidates redo
// history
func TestRecordClearsRedo(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(10)

	runBatch(t, ctx, ledger)
	require.True(t, ledger.Undo(ctx).OK)
	require.True(t, ledger.CanRedo())

	runBatch(t, ctx, ledger)

	assert.False(t, ledger.CanRedo())
}

// 🧪 TestMaxHistoryEviction tests FIFO eviction: the oldest session becomes
// permanently unrecoverable once the bound is exceeded
func TestMaxHistoryEviction(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(2)

	oldestA, oldestB, _ := runBatch(t, ctx, ledger)
	runBatch(t, ctx, ledger)
	runBatch(t, ctx, ledger)

	undos := 0
	for ledger.CanUndo() {
		require.True(t, ledger.Undo(ctx).OK)
		undos++
	}

	// Only maxHistory sessions could be undone; the evicted batch's files
	// stay at their renamed destinations
	assert.Equal(t, 2, undos)
	assert.NoFileExists(t, oldestA)
	assert.NoFileExists(t, oldestB)
}

// 🧪 TestUndoEmptyLedger tests the nothing-to-undo result
func TestUndoEmptyLedger(t *testing.T) {
	ledger := history.New(5)

	result := ledger.Undo(testContext(t))

	assert.False(t, result.OK)
	assert.Equal(t, "Nothing to undo", result.Message)
	assert.Zero(t, result.FilesRestored)
}

// 🧪 TestDescriptions tests the display strings for the next undo/redo
func TestDescriptions(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(5)

	assert.Empty(t, ledger.UndoDescription())
	assert.Empty(t, ledger.RedoDescription())

	runBatch(t, ctx, ledger)
	assert.Equal(t, "Undo 2 file(s) from Job #12345", ledger.UndoDescription())

	ledger.Undo(ctx)
	assert.Equal(t, "Redo 2 file(s) for Job #12345", ledger.RedoDescription())
}

// 🧪 TestClear tests dropping all history
func TestClear(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(5)

	runBatch(t, ctx, ledger)
	ledger.Undo(ctx)
	runBatch(t, ctx, ledger)

	ledger.Clear()

	assert.False(t, ledger.CanUndo())
	assert.False(t, ledger.CanRedo())
}

// 🧪 TestUndoRedoCopyRecords tests replay of copy operations: undo deletes
// the copy, redo re-creates it
func TestUndoRedoCopyRecords(t *testing.T) {
	ctx := testContext(t)
	ledger := history.New(5)

	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := writeFile(t, srcDir, "a.psd", "a")
	dest := filepath.Join(destDir, "a_copy.psd")
	require.NoError(t, os.WriteFile(dest, []byte("a"), 0644))

	session := &rename.Session{
		ID:        "test_copy_session",
		JobNumber: "9",
		Records: []rename.Record{
			{OriginalPath: src, NewPath: dest, Operation: rename.OpCopy, Success: true},
		},
	}
	ledger.Record(ctx, session)

	result := ledger.Undo(ctx)
	require.True(t, result.OK)
	assert.NoFileExists(t, dest)
	assert.FileExists(t, src)

	result = ledger.Redo(ctx)
	require.True(t, result.OK)
	assert.FileExists(t, dest)
	assert.FileExists(t, src)
}
