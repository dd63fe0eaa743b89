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

package rename

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 🔀 Operation is the kind of filesystem action recorded for a file.
type Operation int

const (
	OpMove Operation = iota
	OpCopy
)

// String returns a string representation of Operation
func (o Operation) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// ⚠️ ErrorKind categorizes why a single file operation failed.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrTargetExists
	ErrPermissionDenied
	ErrSourceNotFound
	ErrDestinationUnreachable
	ErrUniquePathExhausted
	ErrGeneric
)

// String returns a string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrTargetExists:
		return "target_exists"
	case ErrPermissionDenied:
		return "permission_denied"
	case ErrSourceNotFound:
		return "source_not_found"
	case ErrDestinationUnreachable:
		return "destination_unreachable"
	case ErrUniquePathExhausted:
		return "unique_path_exhausted"
	default:
		return "generic"
	}
}

// 🔁 DuplicateMode is the policy applied when a destination filename already
// exists.
type DuplicateMode string

const (
	// DuplicateAsk is a caller-side decision point: it must be resolved to
	// one of the other modes before the executor runs.
	DuplicateAsk       DuplicateMode = "ask"
	DuplicateSkip      DuplicateMode = "skip"
	DuplicateIncrement DuplicateMode = "increment"
	DuplicateOverwrite DuplicateMode = "overwrite"
)

// 🔍 ParseDuplicateMode parses a configuration-facing mode string.
func ParseDuplicateMode(s string) (DuplicateMode, error) {
	switch DuplicateMode(s) {
	case DuplicateAsk, DuplicateSkip, DuplicateIncrement, DuplicateOverwrite:
		return DuplicateMode(s), nil
	default:
		return "", errors.Errorf("unknown duplicate mode: %q", s)
	}
}

// 📄 Record is the outcome of moving one file within a session. Records are
// never mutated after creation: undo and redo create new filesystem actions
// but leave the recorded history intact for audit.
type Record struct {
	OriginalPath string    `json:"original_path"`
	NewPath      string    `json:"new_path"`
	Operation    Operation `json:"operation"`
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
}

// 📦 Session is one batch of rename operations treated as a single undoable
// unit. Records appear in processing order.
type Session struct {
	ID        string    `json:"id"`
	Records   []Record  `json:"records"`
	Timestamp time.Time `json:"timestamp"`
	JobNumber string    `json:"job_number"`
}

// ✅ SuccessCount returns the number of records that succeeded.
func (s *Session) SuccessCount() int {
	count := 0
	for _, r := range s.Records {
		if r.Success {
			count++
		}
	}
	return count
}

// ❌ ErrorCount returns the number of records that failed.
func (s *Session) ErrorCount() int {
	return len(s.Records) - s.SuccessCount()
}

// 🗂️ FileMapping pairs a source path with its computed destination filename.
type FileMapping struct {
	SourcePath string
	DestName   string
}

// 📣 ProgressFunc is notified before each file is processed. current is
// 1-based. The callback fires on whichever goroutine performs the move;
// UI callers must marshal back to their own loop.
type ProgressFunc func(current, total int, destName string)

// 📼 SessionRecorder receives completed sessions that have at least one
// successful record. The undo ledger implements this; tests can substitute a
// stub, and alternate recorders (e.g. persistent ones) can be injected.
type SessionRecorder interface {
	Record(ctx context.Context, session *Session)
}

// sessionSeq disambiguates sessions created within the same clock second.
var sessionSeq atomic.Uint32

// 🆔 newSessionID derives a run-unique session id from the current time.
func newSessionID(now time.Time) string {
	return fmt.Sprintf("%s_%04d", now.Format("20060102_150405"), sessionSeq.Add(1))
}
