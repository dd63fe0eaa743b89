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

package report

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/renamepro/pkg/rename"
)

func TestSessionOutput(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	r := New(&buf, zerolog.New(zerolog.NewTestWriter(t)))

	session := &rename.Session{
		ID:        "20250101_120000_0001",
		JobNumber: "12345",
		Records: []rename.Record{
			{
				OriginalPath: "/in/a.psd",
				NewPath:      "/out/12345_SOURCE_1.psd",
				Success:      true,
			},
			{
				OriginalPath: "/in/b.psd",
				NewPath:      "/out/taken.psd",
				Error:        "File already exists",
				ErrorKind:    rename.ErrTargetExists,
			},
			{
				OriginalPath: "/in/c.psd",
				NewPath:      "/out/c_out.psd",
				Error:        "Permission denied",
				ErrorKind:    rename.ErrPermissionDenied,
			},
		},
	}

	r.Session(session)
	out := buf.String()

	assert.Contains(t, out, "✓ a.psd")
	assert.Contains(t, out, "12345_SOURCE_1.psd")
	assert.Contains(t, out, "- b.psd")
	assert.Contains(t, out, "File already exists")
	assert.Contains(t, out, "✗ c.psd")
	assert.Contains(t, out, "Permission denied")
	assert.Contains(t, out, "1 renamed, 2 failed")
}

func TestMessages(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	r := New(&buf, zerolog.New(zerolog.NewTestWriter(t)))

	r.Header("batch rename")
	r.Success("Restored 2 files")
	r.Warning("1 file skipped")
	r.Error("nothing to undo")
	r.Infof("next revision: %s", "3")

	out := buf.String()
	assert.Contains(t, out, "renamepro")
	assert.Contains(t, out, "Restored 2 files")
	assert.Contains(t, out, "1 file skipped")
	assert.Contains(t, out, "nothing to undo")
	assert.Contains(t, out, "next revision: 3")
}
