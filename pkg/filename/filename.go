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

// Package filename builds and sanitizes platform-safe filenames. The rules
// are the union of Windows, macOS and Linux restrictions, so output is valid
// everywhere.
package filename

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// 🚫 invalidChars matches characters not allowed in filenames on at least one
// supported platform, plus control characters.
var invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// 🪟 windowsReserved are device names that cannot be used as a filename stem
// on Windows, regardless of extension.
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// 📏 Length limits. maxLength leaves room for the containing path; maxValid
// is the common per-component filesystem limit used by Validate.
const (
	maxLength = 200
	maxValid  = 255
)

// 🧼 Sanitize replaces invalid characters with replacement and normalizes the
// name so it is safe on all platforms. The result is never empty.
func Sanitize(name string, replacement string) string {
	if name == "" {
		return ""
	}

	sanitized := invalidChars.ReplaceAllString(name, replacement)

	// Windows rejects trailing dots and spaces
	sanitized = strings.Trim(sanitized, " .")

	if windowsReserved[strings.ToUpper(stem(sanitized))] {
		sanitized = replacement + sanitized
	}

	if sanitized == "" {
		sanitized = "unnamed"
	}

	if utf8.RuneCountInString(sanitized) > maxLength {
		sanitized = clampLength(sanitized, maxLength)
	}

	return sanitized
}

// 🔍 Validate checks a filename without modifying it. It returns false and a
// reason when the name would be rejected by Sanitize's rules.
func Validate(name string) (bool, string) {
	if name == "" {
		return false, "filename is empty"
	}

	if invalidChars.MatchString(name) {
		return false, "filename contains invalid characters"
	}

	if upper := strings.ToUpper(stem(name)); windowsReserved[upper] {
		return false, fmt.Sprintf("%q is a reserved name on Windows", upper)
	}

	if utf8.RuneCountInString(name) > maxValid {
		return false, "filename is too long"
	}

	return true, ""
}

// 🏗️ Compose builds the canonical output filename:
//
//	JobNumber_SKU_(ArtworkReference)_Purpose_Revision.ext
//
// Empty components are omitted. The extension is taken from sourcePath and
// lowercased. If every component is empty, the original basename is returned
// so the result is never an empty name.
func Compose(sourcePath, jobNumber, sku, artworkRef, purpose, revision string) string {
	ext := strings.ToLower(filepath.Ext(sourcePath))

	var parts []string
	if jobNumber != "" {
		parts = append(parts, Sanitize(jobNumber, "_"))
	}
	if sku != "" {
		parts = append(parts, Sanitize(sku, "_"))
	}
	if artworkRef != "" {
		parts = append(parts, "("+Sanitize(artworkRef, "_")+")")
	}
	if purpose != "" {
		parts = append(parts, Sanitize(purpose, "_"))
	}
	if revision != "" {
		parts = append(parts, Sanitize(revision, "_"))
	}

	if len(parts) == 0 {
		return filepath.Base(sourcePath)
	}

	return strings.Join(parts, "_") + ext
}

// ✂️ clampLength shortens a name to max characters, dropping characters from
// the stem so the extension survives. Limits count runes, not bytes, so a
// multibyte name is never cut mid-character.
func clampLength(name string, max int) string {
	ext := lastExt(name)
	extLen := utf8.RuneCountInString(ext)

	if ext == "" || extLen >= max {
		return string([]rune(name)[:max])
	}

	stem := []rune(name[:len(name)-len(ext)])
	return string(stem[:max-extLen]) + ext
}

// stem returns the name with its final extension removed.
func stem(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}

// lastExt returns the final ".ext" segment, or "" when the name has none.
func lastExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[idx:]
	}
	return ""
}
