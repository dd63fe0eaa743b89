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
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📥 CollectSources expands glob patterns into a de-duplicated list of
// candidate source files, dropping any whose basename matches an ignore
// pattern. Plain paths (no glob metacharacters) pass through doublestar
// unchanged, so callers can mix literal paths and patterns.
func CollectSources(ctx context.Context, patterns []string, ignoreGlobs []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	seen := map[string]bool{}
	var sources []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Errorf("expanding pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			logger.Warn().Str("pattern", pattern).Msg("pattern matched no files")
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			if isIgnored(ctx, filepath.Base(match), ignoreGlobs) {
				continue
			}
			sources = append(sources, match)
		}
	}

	return sources, nil
}

// 🔍 isIgnored checks a basename against the configured ignore globs.
func isIgnored(ctx context.Context, name string, ignoreGlobs []string) bool {
	logger := zerolog.Ctx(ctx)

	for _, pattern := range ignoreGlobs {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			logger.Debug().Str("pattern", pattern).Str("name", name).Err(err).Msg("error matching ignore pattern")
			continue
		}
		if matched {
			logger.Debug().Str("file", name).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}

	return false
}
