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

// Package revision infers version tokens from files already on disk. A
// revision token is a numeric string or "FINAL", appended to a filename as
// "_<token>" just before the extension.
package revision

import (
	"context"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// 🎨 DesignExtensions is the default extension set scanned when no explicit
// extension is given.
var DesignExtensions = []string{
	".psd", ".ai", ".pdf", ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".eps", ".svg",
}

// 🔎 trailingRevision matches the "_<N|FINAL>.<ext>" suffix of any filename,
// independent of its base pattern.
var trailingRevision = regexp.MustCompile(`(?i)_(\d+|FINAL)\.[^.]+$`)

// finalClampThreshold is the numeric revision count past which Next proposes
// FINAL instead of an out-of-vocabulary number. The value is independent of
// the vocabulary length; see TestNextClampsToFinal.
const finalClampThreshold = 5

// 📦 Detector infers next revisions from an ordered revision vocabulary.
type Detector struct {
	vocabulary []string
}

// 🏭 NewDetector creates a detector from an ordered vocabulary. An empty
// vocabulary falls back to the default "1".."5","FINAL".
func NewDetector(vocabulary []string) *Detector {
	if len(vocabulary) == 0 {
		vocabulary = []string{"1", "2", "3", "4", "5", "FINAL"}
	}
	return &Detector{vocabulary: vocabulary}
}

// 🔍 Scan lists dir (non-recursively) for filenames of the exact shape
// "<basePattern>_<N|FINAL><ext>" and returns the revision tokens found, in
// listing order. The base pattern matches literally; the revision and
// extension match case-insensitively. Unreadable directories yield an empty
// result, logged rather than raised.
func (d *Detector) Scan(ctx context.Context, dir, basePattern, ext string) []string {
	logger := zerolog.Ctx(ctx)

	pattern, err := regexp.Compile(
		`(?i)^` + regexp.QuoteMeta(basePattern) + `_(\d+|FINAL)` + regexp.QuoteMeta(ext) + `$`,
	)
	if err != nil {
		logger.Error().Err(err).Str("base_pattern", basePattern).Msg("compiling revision pattern")
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("scanning directory for revisions")
		return nil
	}

	var found []string
	for _, entry := range entries {
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		found = append(found, normalizeToken(m[1]))
		logger.Debug().Str("file", entry.Name()).Str("revision", normalizeToken(m[1])).Msg("found existing revision")
	}

	return found
}

// scanAll scans for one extension, or unions the design-extension set when
// ext is empty. Both Existing and Next see the same files either way.
func (d *Detector) scanAll(ctx context.Context, dir, basePattern, ext string) []string {
	if ext != "" {
		return d.Scan(ctx, dir, basePattern, ext)
	}

	var found []string
	for _, e := range DesignExtensions {
		found = append(found, d.Scan(ctx, dir, basePattern, e)...)
	}
	return found
}

// 📋 Existing returns the de-duplicated, sorted revisions present for a base
// pattern. When ext is empty, every design extension is scanned and the
// results are unioned. Sort order is numeric ascending with FINAL last;
// non-numeric tokens sort as 999.
func (d *Detector) Existing(ctx context.Context, dir, basePattern, ext string) []string {
	if dir == "" || basePattern == "" {
		return nil
	}

	seen := map[string]bool{}
	for _, rev := range d.scanAll(ctx, dir, basePattern, ext) {
		seen[rev] = true
	}

	all := make([]string, 0, len(seen))
	for rev := range seen {
		all = append(all, rev)
	}

	sort.Slice(all, func(i, j int) bool {
		return sortKey(all[i]) < sortKey(all[j])
	})

	return all
}

// ⏭️ Next infers the revision to propose for the next file:
//
//   - no existing revisions: the first vocabulary entry
//   - FINAL present: FINAL, unconditionally (once finalized, always final)
//   - otherwise max numeric + 1, clamped to FINAL when the candidate falls
//     outside the vocabulary and the max numeric has reached the threshold
//
// An out-of-vocabulary candidate below the threshold is returned as-is; the
// caller is responsible for surfacing it. An empty ext unions the design
// extensions, so Next and Existing always agree on what is on disk.
func (d *Detector) Next(ctx context.Context, dir, basePattern, ext string) string {
	logger := zerolog.Ctx(ctx)

	if dir == "" || basePattern == "" {
		return d.first()
	}

	found := d.scanAll(ctx, dir, basePattern, ext)
	if len(found) == 0 {
		return d.first()
	}

	maxNumeric := 0
	hasFinal := false
	for _, rev := range found {
		if rev == "FINAL" {
			hasFinal = true
			continue
		}
		if n, err := strconv.Atoi(rev); err == nil && n > maxNumeric {
			maxNumeric = n
		}
	}

	if hasFinal {
		logger.Info().Str("base_pattern", basePattern).Msg("FINAL revision exists, suggesting FINAL")
		return "FINAL"
	}

	candidate := strconv.Itoa(maxNumeric + 1)

	if d.contains(candidate) {
		return candidate
	}

	if d.contains("FINAL") && maxNumeric >= finalClampThreshold {
		return "FINAL"
	}

	return candidate
}

// ✅ IsValid reports whether a token is usable as a revision: either a
// vocabulary entry or any numeric string.
func (d *Detector) IsValid(rev string) bool {
	if d.contains(rev) {
		return true
	}
	_, err := strconv.Atoi(rev)
	return err == nil && rev != ""
}

// 🔎 ParseFromFilename extracts the trailing revision token from a filename,
// regardless of base pattern. The second return is false when the filename
// carries no revision suffix.
func ParseFromFilename(name string) (string, bool) {
	m := trailingRevision.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return normalizeToken(m[1]), true
}

func (d *Detector) first() string {
	if len(d.vocabulary) == 0 {
		return "1"
	}
	return d.vocabulary[0]
}

func (d *Detector) contains(rev string) bool {
	for _, v := range d.vocabulary {
		if v == rev {
			return true
		}
	}
	return false
}

// normalizeToken uppercases "final" variants, leaving numerics untouched.
func normalizeToken(tok string) string {
	if strings.EqualFold(tok, "FINAL") {
		return "FINAL"
	}
	return tok
}

// sortKey orders numeric tokens ascending with FINAL after every numeric
// value and unparseable tokens at 999.
func sortKey(tok string) int {
	if tok == "FINAL" {
		return 1 << 20
	}
	if n, err := strconv.Atoi(tok); err == nil {
		return n
	}
	return 999
}
