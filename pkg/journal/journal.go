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

// Package journal persists completed sessions as JSON documents for audit.
// The journal is write-only history: it is never read back to drive undo,
// which stays process-lifetime only.
package journal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/renamepro/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

// 📂 Writer appends session documents to a log directory.
type Writer struct {
	dir string
}

// 🏭 NewWriter creates a journal writer rooted at dir. The directory is
// created on first append, not here.
func NewWriter(dir string) *Writer {
	return &Writer{dir: filepath.Clean(dir)}
}

// 📝 Append writes one session as a pretty-printed JSON file named after the
// session id. The write is atomic: content lands in a temp file that is
// renamed into place.
func (w *Writer) Append(ctx context.Context, session *rename.Session) error {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return errors.Errorf("creating journal directory: %w", err)
	}

	content, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return errors.Errorf("encoding session: %w", err)
	}

	path := filepath.Join(w.dir, "session_"+session.ID+".json")
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	logger.Debug().Str("path", path).Str("session_id", session.ID).Msg("journaled session")
	return nil
}
