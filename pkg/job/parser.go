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

// Package job parses job folder names into structured job metadata.
//
// The expected folder format is:
//
//	Job#_CustomerName_Company_SKU x Qty_(PO#)
//
// with every component after the job number optional. Parsing is lenient:
// malformed names degrade to partially filled results rather than errors, and
// callers decide acceptability via JobInfo.IsValid.
package job

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// 📦 poSuffix matches a trailing parenthetical or bracketed group, e.g.
	// "(PO-98765)" or "[PO-98765]" anchored at the end of the folder name.
	poSuffix = regexp.MustCompile(`[(\[]([^)\]]+)[)\]]$`)

	// 🔢 leadingDigits captures the job number at the start of token 0.
	leadingDigits = regexp.MustCompile(`^(\d+)`)

	// ✖️ skuQty matches "SKU x Qty" with a case-insensitive separator.
	skuQty = regexp.MustCompile(`^(.+?)\s*[xX]\s*(\d+)`)

	// allDigits is used by ValidateFolderName only.
	allDigits = regexp.MustCompile(`^\d+$`)
)

// 📋 JobInfo holds the structured metadata extracted from a job folder name.
// All fields are plain strings; empty means absent. Values are immutable once
// parsed — callers hold their own copy.
type JobInfo struct {
	JobNumber string
	Customer  string
	Company   string
	SKU       string
	Quantity  string
	PONumber  string

	// Raw is the original folder name as given to Parse.
	Raw string
}

// ✅ IsValid reports whether the minimum required metadata is present.
func (j JobInfo) IsValid() bool {
	return j.JobNumber != ""
}

// 🔍 Parse extracts job metadata from a folder name.
//
// Tokens are taken positionally: token 0 holds the job number, token 1 the
// customer, token 2 the company, and everything after that the SKU/quantity.
// There is no backtracking — a two-segment name still assigns token 2 to
// company even when it "looks like" a SKU. That ambiguity is inherent to the
// underscore format and is preserved deliberately.
func Parse(ctx context.Context, folderName string) JobInfo {
	logger := zerolog.Ctx(ctx)

	if folderName == "" {
		logger.Debug().Msg("empty folder name provided")
		return JobInfo{}
	}

	result := JobInfo{Raw: folderName}
	working := strings.TrimSpace(folderName)

	// PO number rides at the end in parentheses or brackets
	if m := poSuffix.FindStringSubmatchIndex(working); m != nil {
		result.PONumber = strings.TrimSpace(working[m[2]:m[3]])
		working = strings.Trim(working[:m[0]], "_- ")
	}

	parts := strings.Split(working, "_")

	if len(parts) >= 1 {
		if m := leadingDigits.FindStringSubmatch(parts[0]); m != nil {
			result.JobNumber = m[1]
		} else {
			logger.Warn().Str("token", parts[0]).Msg("could not extract job number")
		}
	}

	if len(parts) >= 2 {
		result.Customer = cleanName(parts[1])
	}

	if len(parts) >= 3 {
		result.Company = cleanName(parts[2])
	}

	if len(parts) >= 4 {
		// Remaining tokens form "SKU x Qty" (or a bare SKU)
		skuPart := strings.Join(parts[3:], "_")
		if m := skuQty.FindStringSubmatch(skuPart); m != nil {
			result.SKU = strings.TrimSpace(m[1])
			result.Quantity = m[2]
		} else {
			result.SKU = strings.TrimSpace(skuPart)
		}
	}

	logger.Debug().
		Str("raw", result.Raw).
		Str("job_number", result.JobNumber).
		Str("customer", result.Customer).
		Str("sku", result.SKU).
		Msg("parsed job folder name")

	return result
}

// 🔍 ValidateFolderName checks that a folder name parses to a usable job. It
// is stricter than Parse: the job number must be fully numeric.
func ValidateFolderName(ctx context.Context, folderName string) (bool, string) {
	if folderName == "" {
		return false, "folder name is empty"
	}

	info := Parse(ctx, folderName)

	if info.JobNumber == "" {
		return false, "could not extract job number"
	}

	if !allDigits.MatchString(info.JobNumber) {
		return false, "job number must be numeric"
	}

	return true, ""
}

// 🏗️ SuggestFolderName is the inverse constructor: it builds a folder name in
// the canonical format from individual components. Spaces are stripped from
// customer and company so they stay single underscore tokens.
func SuggestFolderName(jobNumber, customer, company, sku, quantity, poNumber string) string {
	parts := []string{jobNumber}

	if customer != "" {
		parts = append(parts, strings.ReplaceAll(customer, " ", ""))
	}

	if company != "" {
		parts = append(parts, strings.ReplaceAll(company, " ", ""))
	}

	if sku != "" {
		if quantity != "" {
			parts = append(parts, fmt.Sprintf("%s x %s", sku, quantity))
		} else {
			parts = append(parts, sku)
		}
	}

	result := strings.Join(parts, "_")

	if poNumber != "" {
		result += fmt.Sprintf("_(%s)", poNumber)
	}

	return result
}

// 🧹 cleanName trims boundary separators from a name component.
func cleanName(name string) string {
	return strings.Trim(name, "_- ")
}
