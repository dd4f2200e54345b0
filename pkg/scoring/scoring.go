// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package scoring derives notes from the pipeline results and assembles
// them into a categorized score. All rules are pure: once the fetchers have
// returned, no rule performs I/O or fails.
package scoring

import (
	"sort"
	"time"

	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/notes"
)

// Build assembles the score document for one package. pkg and source may be
// nil when the corresponding fetch found nothing.
func Build(ecosystem string, pkg *model.Package, source *model.Source, vulns model.Vulnerabilities, now time.Time) model.Score {
	var emitted []notes.Code
	if source == nil {
		if pkg != nil && pkg.Status == model.StatusNotFound {
			emitted = []notes.Code{notes.NOT_OPEN_SOURCE}
		} else {
			emitted = append([]notes.Code{notes.NO_SOURCE_REPO_NOT_FOUND}, securityNotes(vulns, now)...)
		}
	} else {
		emitted = append(emitted, maturityNotes(source, now)...)
		emitted = append(emitted, healthNotes(source)...)
		emitted = append(emitted, legalNotes(source)...)
		emitted = append(emitted, packageNotes(ecosystem, pkg, source)...)
		emitted = append(emitted, securityNotes(vulns, now)...)
	}
	return model.Score{
		Notes:      sortedUnion(emitted),
		Legal:      subScore(notes.Healthy, notes.GroupLegal, emitted),
		HealthRisk: subScore(notes.Healthy, notes.GroupHealth, emitted),
		Maturity:   subScore(notes.Mature, notes.GroupMaturity, emitted),
		Security:   subScore(notes.Healthy, notes.GroupSecurity, emitted),
	}
}

// subScore filters the emitted notes down to those addressed to group, in
// emission order without duplicates, and takes the severity maximum of
// their categories over the seed baseline.
func subScore(seed notes.Category, group notes.Group, emitted []notes.Code) model.CategorizedScore {
	score := model.CategorizedScore{Value: seed, Notes: []notes.Code{}}
	seen := make(map[notes.Code]bool)
	for _, code := range emitted {
		d := notes.MustDescribe(code)
		if d.Group != notes.GroupAny && d.Group != group {
			continue
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		score.Notes = append(score.Notes, code)
		score.Value = notes.Max(score.Value, d.Category)
	}
	return score
}

func sortedUnion(emitted []notes.Code) []notes.Code {
	seen := make(map[notes.Code]bool)
	out := []notes.Code{}
	for _, code := range emitted {
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
