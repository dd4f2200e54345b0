// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package scoring

import (
	"sort"
	"time"

	"github.com/opensourcescore/score/pkg/licenses"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/notes"
	"github.com/opensourcescore/score/pkg/registry/pypi"
)

const (
	yearDays = 365
	// longTimeToFixDays bounds both the acceptable median fix time and the
	// recency window for vulnerability counting.
	longTimeToFixDays = 600
	// maxDeclaredIDLength separates a license identifier from pasted
	// license text in registry metadata.
	maxDeclaredIDLength = 100
)

func maturityNotes(source *model.Source, now time.Time) []notes.Code {
	if source.Error != "" {
		return []notes.Code{source.Error}
	}
	if source.FirstCommit == nil || source.LatestCommit == nil {
		return []notes.Code{notes.NO_COMMITS}
	}
	yearAgo := now.AddDate(0, 0, -yearDays)
	fiveYearsAgo := now.AddDate(0, 0, -5*yearDays)
	if source.LatestCommit.Before(yearAgo) {
		if source.LatestCommit.Before(fiveYearsAgo) {
			return []notes.Code{notes.LAST_COMMIT_OVER_5_YEARS}
		}
		return []notes.Code{notes.LAST_COMMIT_OVER_A_YEAR}
	}
	if source.FirstCommit.After(yearAgo) {
		return []notes.Code{notes.FIRST_COMMIT_THIS_YEAR}
	}
	return nil
}

func healthNotes(source *model.Source) []notes.Code {
	if source.Error != "" {
		return []notes.Code{source.Error}
	}
	var out []notes.Code
	if source.MaxMonthlyAuthorsCount != nil && *source.MaxMonthlyAuthorsCount < 3 {
		out = append(out, notes.FEW_MAX_MONTHLY_AUTHORS)
	}
	if source.RecentAuthorsCount != nil && *source.RecentAuthorsCount < 2 {
		out = append(out, notes.ONE_AUTHOR_THIS_YEAR)
	}
	return out
}

// restrictionNotes maps each restriction tag on an identified license to its
// note.
var restrictionNotes = map[string]notes.Code{
	licenses.RestrictionDerivativeWorkCopyleft: notes.LICENSE_RESTRICTION_DERIVATIVE_WORK_COPYLEFT,
	licenses.RestrictionNetworkCopyleft:        notes.LICENSE_RESTRICTION_NETWORK_COPYLEFT,
	licenses.RestrictionPatentGrant:            notes.LICENSE_RESTRICTION_PATENT_GRANT,
	licenses.RestrictionCommercial:             notes.LICENSE_RESTRICTION_COMMERCIAL,
	licenses.RestrictionUserDataAccess:         notes.LICENSE_RESTRICTION_USER_DATA_ACCESS,
	licenses.RestrictionCryptographicAutonomy:  notes.LICENSE_RESTRICTION_CRYPTOGRAPHIC_AUTONOMY,
	licenses.RestrictionWeakCopyleft:           notes.LICENSE_RESTRICTION_WEAK_COPYLEFT,
}

func legalNotes(source *model.Source) []notes.Code {
	if source.Error != "" {
		return []notes.Code{source.Error}
	}
	if len(source.Licenses) == 0 {
		return []notes.Code{notes.NO_LICENSE}
	}
	var out []notes.Code
	for _, lic := range source.Licenses {
		if lic.Error != "" {
			return append(out, lic.Error)
		}
		if lic.License == "Unknown" {
			return append(out, notes.LICENSE_UNKNOWN)
		}
		if lic.AdditionalText != "" {
			out = append(out, notes.LICENSE_ADDITIONAL_TEXT)
		}
		if lic.SPDXID == "" {
			out = append(out, notes.LICENSE_NOT_IN_SPDX)
		} else if lic.IsOSIApproved == nil || !*lic.IsOSIApproved {
			out = append(out, notes.LICENSE_NOT_OSI_APPROVED)
		}
		for _, r := range lic.Restrictions {
			if note, ok := restrictionNotes[r]; ok {
				out = append(out, note)
			}
		}
		if lic.Modified {
			out = append(out, notes.LICENSE_MODIFIED)
		}
	}
	return out
}

// normalizedName applies the ecosystem's canonical name form before
// comparing against manifest-declared names.
func normalizedName(ecosystem, name string) string {
	if ecosystem == "pypi" {
		return pypi.NormalizeName(name)
	}
	return name
}

func packageNotes(ecosystem string, pkg *model.Package, source *model.Source) []notes.Code {
	if pkg == nil || source.Error != "" {
		return nil
	}
	destinations := make(map[string]bool)
	prefix := ecosystem + "/"
	for _, d := range source.PackageDestinations {
		if len(d.Name) > len(prefix) && d.Name[:len(prefix)] == prefix {
			destinations[d.Name[len(prefix):]] = true
		}
	}
	if len(destinations) == 0 {
		return []notes.Code{notes.NO_PROJECT_NAME}
	}
	var out []notes.Code
	if !destinations[normalizedName(ecosystem, pkg.Name)] {
		out = append(out, notes.PACKAGE_NAME_MISMATCH)
	}
	if source.LatestCommit != nil && pkg.ReleaseDate != nil {
		skew := source.LatestCommit.Sub(*pkg.ReleaseDate)
		year := yearDays * 24 * time.Hour
		if skew > year {
			out = append(out, notes.PACKAGE_SKEW_NOT_UPDATED)
		}
		if skew < -year {
			out = append(out, notes.PACKAGE_SKEW_NOT_RELEASED)
		}
	}
	out = append(out, packageLicenseNotes(pkg, source)...)
	return out
}

// packageLicenseNotes cross-checks the registry's declared license against
// the licenses found in the repository. A declaration is accepted when it
// matches any repository license by family or by content digest.
func packageLicenseNotes(pkg *model.Package, source *model.Source) []notes.Code {
	if pkg.License == "" {
		return []notes.Code{notes.PACKAGE_NO_LICENSE}
	}
	declaredMD5 := licenses.ContentMD5(pkg.License)
	for _, lic := range source.Licenses {
		if lic.Kind != "" && lic.Kind == licenses.CommonKind(pkg.License) {
			return nil
		}
		if lic.MD5 != "" && lic.MD5 == declaredMD5 {
			return nil
		}
	}
	if len(pkg.License) > maxDeclaredIDLength {
		return []notes.Code{notes.PACKAGE_LICENSE_NOT_SPDX_ID}
	}
	return []notes.Code{notes.PACKAGE_LICENSE_MISMATCH}
}

func securityNotes(vulns model.Vulnerabilities, now time.Time) []notes.Code {
	var out []notes.Code
	if vulns.Error != "" {
		out = append(out, vulns.Error)
	}
	var fixDays []int
	for _, v := range vulns.Vulns {
		if v.DaysToFix != nil {
			fixDays = append(fixDays, *v.DaysToFix)
		}
	}
	if m, ok := median(fixDays); ok && m > longTimeToFixDays {
		out = append(out, notes.VULNERABILITIES_LONG_TIME_TO_FIX)
	}
	cutoff := now.AddDate(0, 0, -longTimeToFixDays)
	var recent []model.Vulnerability
	for _, v := range vulns.Vulns {
		if v.PublishedOn.After(cutoff) {
			recent = append(recent, v)
		}
	}
	if len(recent) > 2 {
		out = append(out, notes.VULNERABILITIES_RECENT)
	}
	for _, v := range recent {
		if v.SeverityNum != nil && *v.SeverityNum >= 7 {
			out = append(out, notes.VULNERABILITIES_SEVERE)
			break
		}
	}
	return out
}

// median returns the integer median: the middle element for odd lengths,
// the floored mean of the two middles for even lengths.
func median(values []int) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}
