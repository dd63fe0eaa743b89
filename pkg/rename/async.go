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

	"golang.org/x/sync/errgroup"
)

// 📣 CompleteFunc receives the finished session exactly once, after every
// file in the batch has been processed.
type CompleteFunc func(session *Session)

// ⚡ ExecuteAsync runs Execute on a worker goroutine so the caller's loop is
// not blocked. Progress callbacks fire on the worker. The returned Wait
// function blocks until the batch finishes and returns its session; the
// onComplete callback (if any) has already been invoked by then.
//
// There is no cancellation: once the batch starts it runs every file to
// completion.
func (e *Executor) ExecuteAsync(ctx context.Context, files []FileMapping, destDir, jobNumber string, mode DuplicateMode, onProgress ProgressFunc, onComplete CompleteFunc) (wait func() (*Session, error)) {
	g, ctx := errgroup.WithContext(ctx)

	var session *Session
	g.Go(func() error {
		var err error
		session, err = e.Execute(ctx, files, destDir, jobNumber, mode, onProgress)
		if err != nil {
			return err
		}
		if onComplete != nil {
			onComplete(session)
		}
		return nil
	})

	return func() (*Session, error) {
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return session, nil
	}
}
