// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package licenses identifies license files. An SPDX scan runs first; when
// it cannot identify the text confidently, a fuzzy pass compares against a
// bundled corpus of reference license texts.
package licenses

import (
	"strings"

	"github.com/google/licensecheck"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	// closeEnough is the similarity above which a fuzzy match counts as
	// unmodified text.
	closeEnough = 0.95
	// probablyNot is the similarity below which a fuzzy match is rejected.
	probablyNot = 0.9
	// spdxCoverage is the minimum licensecheck coverage for an SPDX hit.
	spdxCoverage = 98.0
)

// Detect identifies the license in text, read from path within a
// repository.
func Detect(path, text string) model.License {
	lic := model.License{Path: path, MD5: ContentMD5(text)}
	if cov := licensecheck.Scan([]byte(text)); len(cov.Match) > 0 && cov.Percent >= spdxCoverage {
		m := cov.Match[0]
		lic.SPDXID = m.ID
		lic.License = m.ID
		lic.Kind = CommonKind(m.ID)
		lic.Similarity = 1.0
		if meta, ok := spdxMeta[m.ID]; ok {
			approved := meta.OSIApproved
			lic.IsOSIApproved = &approved
			lic.Restrictions = meta.Restrictions
		}
		lic.AdditionalText = unmatchedText(text, cov.Match)
		return lic
	}
	return fuzzyMatch(lic, text)
}

// unmatchedText collects the text outside the matched spans.
func unmatchedText(text string, matches []licensecheck.Match) string {
	var parts []string
	pos := 0
	for _, m := range matches {
		if m.Start > pos {
			parts = append(parts, text[pos:m.Start])
		}
		if m.End > pos {
			pos = m.End
		}
	}
	if pos < len(text) {
		parts = append(parts, text[pos:])
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

func fuzzyMatch(lic model.License, text string) model.License {
	normalized := normalizeForMatch(text)
	var best reference
	bestSim := -1.0
	for _, ref := range loadCorpus() {
		if sim := diceSimilarity(normalized, ref.normalized); sim > bestSim {
			best, bestSim = ref, sim
		}
	}
	lic.BestMatch = best.name
	lic.Similarity = bestSim
	if bestSim < probablyNot {
		lic.License = "Unknown"
		lic.Kind = "Unknown"
		return lic
	}
	lic.License = best.name
	lic.Kind = CommonKind(best.name)
	if meta, ok := spdxMeta[best.name]; ok {
		lic.SPDXID = best.name
		approved := meta.OSIApproved
		lic.IsOSIApproved = &approved
		lic.Restrictions = meta.Restrictions
	}
	if bestSim < closeEnough {
		lic.Modified = true
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(best.text),
			B:        difflib.SplitLines(text),
			FromFile: "Open Source License",
			ToFile:   "Project License",
			Context:  3,
		})
		if err == nil {
			lic.Diff = diff
		}
	}
	return lic
}
