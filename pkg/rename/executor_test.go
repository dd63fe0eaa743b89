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

package rename_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// 🧪 stubRecorder captures recorded sessions
type stubRecorder struct {
	sessions []*rename.Session
}

func (r *stubRecorder) Record(ctx context.Context, session *rename.Session) {
	r.sessions = append(r.sessions, session)
}

// 🧪 TestExecuteMovesFiles tests the basic batch move
func TestExecuteMovesFiles(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "jobs", "12345")

	a := writeFile(t, srcDir, "a.psd", "aaa")
	b := writeFile(t, srcDir, "b.psd", "bbb")

	recorder := &stubRecorder{}
	exec := rename.NewExecutor(recorder)

	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: a, DestName: "12345_SOURCE_1.psd"},
		{SourcePath: b, DestName: "12345_SOURCE_2.psd"},
	}, destDir, "12345", rename.DuplicateSkip, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, session.SuccessCount())
	assert.Equal(t, 0, session.ErrorCount())
	assert.Equal(t, "12345", session.JobNumber)

	// Sources gone, destinations present with content intact
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)
	data, err := os.ReadFile(filepath.Join(destDir, "12345_SOURCE_1.psd"))
	require.NoError(t, err)
	assert.Equal(t, "aaa", string(data))

	// Session with successes was handed to the recorder
	require.Len(t, recorder.sessions, 1)
	assert.Same(t, session, recorder.sessions[0])
}

// 🧪 TestExecuteSkipPolicy tests that an existing target fails the record and
// leaves the source untouched
func TestExecuteSkipPolicy(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	src := writeFile(t, srcDir, "a.psd", "new")
	writeFile(t, destDir, "taken.psd", "old")

	exec := rename.NewExecutor(nil)
	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: src, DestName: "taken.psd"},
	}, destDir, "1", rename.DuplicateSkip, nil)

	require.NoError(t, err)
	require.Len(t, session.Records, 1)

	record := session.Records[0]
	assert.False(t, record.Success)
	assert.Contains(t, record.Error, "already exists")
	assert.Equal(t, rename.ErrTargetExists, record.ErrorKind)

	// Nothing touched on disk
	assert.FileExists(t, src)
	data, _ := os.ReadFile(filepath.Join(destDir, "taken.psd"))
	assert.Equal(t, "old", string(data))
}

// 🧪 TestExecuteIncrementPolicy tests the numeric suffix probe
func TestExecuteIncrementPolicy(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	src := writeFile(t, srcDir, "a.psd", "new")
	writeFile(t, destDir, "name.psd", "old")
	writeFile(t, destDir, "name_1.psd", "old1")

	exec := rename.NewExecutor(nil)
	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: src, DestName: "name.psd"},
	}, destDir, "1", rename.DuplicateIncrement, nil)

	require.NoError(t, err)
	record := session.Records[0]
	assert.True(t, record.Success)
	assert.Equal(t, filepath.Join(destDir, "name_2.psd"), record.NewPath)
	assert.NoFileExists(t, src)
	assert.FileExists(t, filepath.Join(destDir, "name_2.psd"))
}

// 🧪 TestExecuteOverwritePolicy tests that the existing target is replaced
func TestExecuteOverwritePolicy(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	src := writeFile(t, srcDir, "a.psd", "new")
	writeFile(t, destDir, "taken.psd", "old")

	exec := rename.NewExecutor(nil)
	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: src, DestName: "taken.psd"},
	}, destDir, "1", rename.DuplicateOverwrite, nil)

	require.NoError(t, err)
	assert.True(t, session.Records[0].Success)

	data, err := os.ReadFile(filepath.Join(destDir, "taken.psd"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

// 🧪 TestExecuteContinuesAfterFailure tests per-file failure isolation: a
// missing source fails its own record but never aborts the batch
func TestExecuteContinuesAfterFailure(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	good := writeFile(t, srcDir, "good.psd", "g")
	missing := filepath.Join(srcDir, "missing.psd")

	exec := rename.NewExecutor(nil)
	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: missing, DestName: "missing_out.psd"},
		{SourcePath: good, DestName: "good_out.psd"},
	}, destDir, "1", rename.DuplicateSkip, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, session.SuccessCount())
	assert.Equal(t, 1, session.ErrorCount())

	assert.False(t, session.Records[0].Success)
	assert.Equal(t, rename.ErrSourceNotFound, session.Records[0].ErrorKind)
	assert.Equal(t, "Source file not found", session.Records[0].Error)

	assert.True(t, session.Records[1].Success)
	assert.FileExists(t, filepath.Join(destDir, "good_out.psd"))
}

// 🧪 TestExecuteZeroSuccessNotRecorded tests that sessions with nothing to
// undo are not handed to the recorder
func TestExecuteZeroSuccessNotRecorded(t *testing.T) {
	ctx := testContext(t)
	destDir := t.TempDir()

	recorder := &stubRecorder{}
	exec := rename.NewExecutor(recorder)

	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: filepath.Join(t.TempDir(), "gone.psd"), DestName: "out.psd"},
	}, destDir, "1", rename.DuplicateSkip, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, session.SuccessCount())
	assert.Empty(t, recorder.sessions)
}

// 🧪 TestExecuteProgressCallback tests the 1-based progress notifications
func TestExecuteProgressCallback(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	a := writeFile(t, srcDir, "a.psd", "a")
	b := writeFile(t, srcDir, "b.psd", "b")

	type call struct {
		current, total int
		name           string
	}
	var calls []call

	exec := rename.NewExecutor(nil)
	_, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: a, DestName: "a_out.psd"},
		{SourcePath: b, DestName: "b_out.psd"},
	}, destDir, "1", rename.DuplicateSkip, func(current, total int, destName string) {
		calls = append(calls, call{current, total, destName})
	})

	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, call{1, 2, "a_out.psd"}, calls[0])
	assert.Equal(t, call{2, 2, "b_out.psd"}, calls[1])
}

// 🧪 TestExecuteCreatesDestDir tests recursive destination creation
func TestExecuteCreatesDestDir(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "deep", "nested", "dest")

	src := writeFile(t, srcDir, "a.psd", "a")

	exec := rename.NewExecutor(nil)
	session, err := exec.Execute(ctx, []rename.FileMapping{
		{SourcePath: src, DestName: "out.psd"},
	}, destDir, "1", rename.DuplicateSkip, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, session.SuccessCount())
	assert.DirExists(t, destDir)
}

// 🧪 TestExecuteAsync tests that the async variant delivers the session via
// the completion callback exactly once
func TestExecuteAsync(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	destDir := t.TempDir()

	src := writeFile(t, srcDir, "a.psd", "a")

	completions := make(chan *rename.Session, 2)
	exec := rename.NewExecutor(nil)

	wait := exec.ExecuteAsync(ctx, []rename.FileMapping{
		{SourcePath: src, DestName: "out.psd"},
	}, destDir, "1", rename.DuplicateSkip, nil, func(session *rename.Session) {
		completions <- session
	})

	session, err := wait()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 1, session.SuccessCount())

	delivered := <-completions
	assert.Same(t, session, delivered)
	assert.Empty(t, completions)
}

// 🧪 TestParseDuplicateMode tests the configuration-facing mode strings
func TestParseDuplicateMode(t *testing.T) {
	for _, valid := range []string{"ask", "skip", "increment", "overwrite"} {
		mode, err := rename.ParseDuplicateMode(valid)
		require.NoError(t, err)
		assert.Equal(t, rename.DuplicateMode(valid), mode)
	}

	_, err := rename.ParseDuplicateMode("rename")
	assert.Error(t, err)
}

// 🧪 TestValidateSources tests pre-flight source checks
func TestValidateSources(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	file := writeFile(t, dir, "ok.psd", "x")

	checks := rename.ValidateSources(ctx, []string{
		file,
		filepath.Join(dir, "missing.psd"),
		dir,
	})

	require.Len(t, checks, 3)
	assert.True(t, checks[0].OK)
	assert.False(t, checks[1].OK)
	assert.Equal(t, "File not found", checks[1].Error)
	assert.False(t, checks[2].OK)
	assert.Equal(t, "Not a file", checks[2].Error)
}

// 🧪 TestCollectSources tests glob expansion with ignore filtering
func TestCollectSources(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.psd", "a")
	writeFile(t, dir, "b.psd", "b")
	writeFile(t, dir, "c.tmp", "c")

	got, err := rename.CollectSources(ctx, []string{
		filepath.Join(dir, "*.psd"),
		filepath.Join(dir, "*.tmp"),
		filepath.Join(dir, "a.psd"), // duplicate of the first pattern
	}, []string{"*.tmp"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.psd"),
		filepath.Join(dir, "b.psd"),
	}, got)
}
