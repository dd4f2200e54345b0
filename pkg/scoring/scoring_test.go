// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package scoring

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/notes"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(i int) *int              { return &i }
func boolPtr(b bool) *bool           { return &b }
func floatPtr(f float64) *float64    { return &f }

// healthySource is a repository with nothing to flag.
func healthySource() *model.Source {
	return &model.Source{
		SourceURL: "https://github.com/pallets/flask",
		Licenses: []model.License{{
			Path: "LICENSE", SPDXID: "MIT", Kind: "MIT", License: "MIT",
			Similarity: 1.0, IsOSIApproved: boolPtr(true), MD5: "abc",
		}},
		PackageDestinations: []model.PackageDestination{
			{Name: "pypi/flask", Path: "/pyproject.toml"},
		},
		RecentAuthorsCount:     intPtr(4),
		MaxMonthlyAuthorsCount: intPtr(9),
		FirstCommit:            timePtr(now.AddDate(-10, 0, 0)),
		LatestCommit:           timePtr(now.AddDate(0, 0, -7)),
	}
}

func healthyPackage() *model.Package {
	return &model.Package{
		Name: "Flask", Ecosystem: "pypi", Version: "3.0.0", License: "MIT",
		ReleaseDate: timePtr(now.AddDate(0, 0, -30)), Status: model.StatusOK,
	}
}

func TestBuildHealthy(t *testing.T) {
	score := Build("pypi", healthyPackage(), healthySource(), model.Vulnerabilities{Vulns: []model.Vulnerability{}}, now)
	if diff := cmp.Diff([]notes.Code{}, score.Notes); diff != "" {
		t.Errorf("notes diff (-want +got):\n%s", diff)
	}
	for _, tc := range []struct {
		name string
		got  model.CategorizedScore
		want notes.Category
	}{
		{"legal", score.Legal, notes.Healthy},
		{"health_risk", score.HealthRisk, notes.Healthy},
		{"maturity", score.Maturity, notes.Mature},
		{"security", score.Security, notes.Healthy},
	} {
		if tc.got.Value != tc.want {
			t.Errorf("%s.value = %q, want %q", tc.name, tc.got.Value, tc.want)
		}
		if len(tc.got.Notes) != 0 {
			t.Errorf("%s.notes = %v, want none", tc.name, tc.got.Notes)
		}
	}
}

func TestBuildNotOpenSource(t *testing.T) {
	pkg := &model.Package{Name: "nonesuch", Ecosystem: "pypi", Status: model.StatusNotFound}
	score := Build("pypi", pkg, nil, model.Vulnerabilities{}, now)
	want := []notes.Code{notes.NOT_OPEN_SOURCE}
	if diff := cmp.Diff(want, score.Notes); diff != "" {
		t.Errorf("notes diff (-want +got):\n%s", diff)
	}
	for _, sub := range []model.CategorizedScore{score.Legal, score.HealthRisk, score.Maturity, score.Security} {
		if diff := cmp.Diff(want, sub.Notes); diff != "" {
			t.Errorf("sub-score notes diff (-want +got):\n%s", diff)
		}
		if sub.Value != notes.Unknown {
			t.Errorf("sub-score value = %q, want %q", sub.Value, notes.Unknown)
		}
	}
}

func TestBuildNoSourceStillScoresSecurity(t *testing.T) {
	vulns := model.Vulnerabilities{Vulns: []model.Vulnerability{
		{ID: "V-1", PublishedOn: now.AddDate(0, 0, -10), SeverityNum: floatPtr(8.1)},
		{ID: "V-2", PublishedOn: now.AddDate(0, 0, -20)},
		{ID: "V-3", PublishedOn: now.AddDate(0, 0, -30)},
	}}
	score := Build("pypi", healthyPackage(), nil, vulns, now)
	want := []notes.Code{
		notes.NO_SOURCE_REPO_NOT_FOUND,
		notes.VULNERABILITIES_RECENT,
		notes.VULNERABILITIES_SEVERE,
	}
	if diff := cmp.Diff(want, score.Notes); diff != "" {
		t.Errorf("notes diff (-want +got):\n%s", diff)
	}
	if score.Security.Value != notes.Unknown {
		t.Errorf("security.value = %q, want %q (NO_SOURCE outranks High Risk)", score.Security.Value, notes.Unknown)
	}
}

func TestBuildSourceError(t *testing.T) {
	source := &model.Source{SourceURL: "http://example.com/x/y", Error: notes.NO_SOURCE_INSECURE_CONNECTION}
	score := Build("pypi", healthyPackage(), source, model.Vulnerabilities{}, now)
	want := []notes.Code{notes.NO_SOURCE_INSECURE_CONNECTION}
	if diff := cmp.Diff(want, score.Notes); diff != "" {
		t.Errorf("notes diff (-want +got):\n%s", diff)
	}
	// The error note has group Any: every sub-score carries it exactly once.
	for _, sub := range []model.CategorizedScore{score.Legal, score.HealthRisk, score.Maturity, score.Security} {
		if diff := cmp.Diff(want, sub.Notes); diff != "" {
			t.Errorf("sub-score notes diff (-want +got):\n%s", diff)
		}
	}
}

func TestMaturityNotes(t *testing.T) {
	for _, tc := range []struct {
		name   string
		source *model.Source
		want   []notes.Code
	}{
		{
			name:   "no commits",
			source: &model.Source{},
			want:   []notes.Code{notes.NO_COMMITS},
		},
		{
			name: "over five years",
			source: &model.Source{
				FirstCommit:  timePtr(now.AddDate(-8, 0, 0)),
				LatestCommit: timePtr(now.AddDate(-6, 0, 0)),
			},
			want: []notes.Code{notes.LAST_COMMIT_OVER_5_YEARS},
		},
		{
			name: "over a year",
			source: &model.Source{
				FirstCommit:  timePtr(now.AddDate(-8, 0, 0)),
				LatestCommit: timePtr(now.AddDate(-2, 0, 0)),
			},
			want: []notes.Code{notes.LAST_COMMIT_OVER_A_YEAR},
		},
		{
			name: "young project",
			source: &model.Source{
				FirstCommit:  timePtr(now.AddDate(0, -6, 0)),
				LatestCommit: timePtr(now.AddDate(0, 0, -1)),
			},
			want: []notes.Code{notes.FIRST_COMMIT_THIS_YEAR},
		},
		{
			name: "established and active",
			source: &model.Source{
				FirstCommit:  timePtr(now.AddDate(-8, 0, 0)),
				LatestCommit: timePtr(now.AddDate(0, 0, -1)),
			},
			want: nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, maturityNotes(tc.source, now)); diff != "" {
				t.Errorf("maturityNotes diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHealthNotes(t *testing.T) {
	source := &model.Source{
		MaxMonthlyAuthorsCount: intPtr(2),
		RecentAuthorsCount:     intPtr(1),
	}
	want := []notes.Code{notes.FEW_MAX_MONTHLY_AUTHORS, notes.ONE_AUTHOR_THIS_YEAR}
	if diff := cmp.Diff(want, healthNotes(source)); diff != "" {
		t.Errorf("healthNotes diff (-want +got):\n%s", diff)
	}
}

func TestLegalNotes(t *testing.T) {
	for _, tc := range []struct {
		name   string
		source *model.Source
		want   []notes.Code
	}{
		{
			name:   "no license files",
			source: &model.Source{},
			want:   []notes.Code{notes.NO_LICENSE},
		},
		{
			name: "unknown stops iteration",
			source: &model.Source{Licenses: []model.License{
				{Path: "LICENSE", License: "Unknown", Kind: "Unknown"},
				{Path: "sub/LICENSE", Modified: true},
			}},
			want: []notes.Code{notes.LICENSE_UNKNOWN},
		},
		{
			name: "check failed stops iteration",
			source: &model.Source{Licenses: []model.License{
				{Path: "LICENSE", Error: notes.LICENSE_CHECK_FAILED},
			}},
			want: []notes.Code{notes.LICENSE_CHECK_FAILED},
		},
		{
			name: "copyleft with extras",
			source: &model.Source{Licenses: []model.License{{
				Path: "COPYING", SPDXID: "GPL-3.0-only", Kind: "GPL",
				License: "GPL-3.0-only", IsOSIApproved: boolPtr(true),
				Restrictions:   []string{"derivative-work-copyleft", "patent-grant"},
				AdditionalText: "see also NOTICE",
				Modified:       true,
			}}},
			want: []notes.Code{
				notes.LICENSE_ADDITIONAL_TEXT,
				notes.LICENSE_RESTRICTION_DERIVATIVE_WORK_COPYLEFT,
				notes.LICENSE_RESTRICTION_PATENT_GRANT,
				notes.LICENSE_MODIFIED,
			},
		},
		{
			name: "not in spdx",
			source: &model.Source{Licenses: []model.License{{
				Path: "LICENSE", License: "BSD-3-Clause", Kind: "BSD", Similarity: 0.97,
			}}},
			want: []notes.Code{notes.LICENSE_NOT_IN_SPDX},
		},
		{
			name: "not osi approved",
			source: &model.Source{Licenses: []model.License{{
				Path: "LICENSE", SPDXID: "SSPL-1.0", Kind: "SSPL", License: "SSPL-1.0",
				IsOSIApproved: boolPtr(false),
			}}},
			want: []notes.Code{notes.LICENSE_NOT_OSI_APPROVED},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, legalNotes(tc.source)); diff != "" {
				t.Errorf("legalNotes diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPackageNotes(t *testing.T) {
	longText := make([]byte, 150)
	for i := range longText {
		longText[i] = 'x'
	}
	base := func() *model.Source { return healthySource() }
	for _, tc := range []struct {
		name   string
		pkg    *model.Package
		mutate func(*model.Source)
		want   []notes.Code
	}{
		{
			name: "accepted by kind",
			pkg:  healthyPackage(),
			want: nil,
		},
		{
			name: "no destinations",
			pkg:  healthyPackage(),
			mutate: func(s *model.Source) {
				s.PackageDestinations = nil
			},
			want: []notes.Code{notes.NO_PROJECT_NAME},
		},
		{
			name: "name mismatch",
			pkg: &model.Package{Name: "other", Ecosystem: "pypi", License: "MIT",
				ReleaseDate: timePtr(now.AddDate(0, 0, -30)), Status: model.StatusOK},
			want: []notes.Code{notes.PACKAGE_NAME_MISMATCH},
		},
		{
			name: "release far behind commits",
			pkg: &model.Package{Name: "Flask", Ecosystem: "pypi", License: "MIT",
				ReleaseDate: timePtr(now.AddDate(-3, 0, 0)), Status: model.StatusOK},
			want: []notes.Code{notes.PACKAGE_SKEW_NOT_UPDATED},
		},
		{
			name: "release far ahead of commits",
			pkg: &model.Package{Name: "Flask", Ecosystem: "pypi", License: "MIT",
				ReleaseDate: timePtr(now.AddDate(2, 0, 0)), Status: model.StatusOK},
			want: []notes.Code{notes.PACKAGE_SKEW_NOT_RELEASED},
		},
		{
			name: "no declared license",
			pkg: &model.Package{Name: "Flask", Ecosystem: "pypi",
				ReleaseDate: timePtr(now.AddDate(0, 0, -30)), Status: model.StatusOK},
			want: []notes.Code{notes.PACKAGE_NO_LICENSE},
		},
		{
			name: "license text instead of identifier",
			pkg: &model.Package{Name: "Flask", Ecosystem: "pypi", License: string(longText),
				ReleaseDate: timePtr(now.AddDate(0, 0, -30)), Status: model.StatusOK},
			want: []notes.Code{notes.PACKAGE_LICENSE_NOT_SPDX_ID},
		},
		{
			name: "license mismatch",
			pkg: &model.Package{Name: "Flask", Ecosystem: "pypi", License: "Apache",
				ReleaseDate: timePtr(now.AddDate(0, 0, -30)), Status: model.StatusOK},
			want: []notes.Code{notes.PACKAGE_LICENSE_MISMATCH},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			source := base()
			if tc.mutate != nil {
				tc.mutate(source)
			}
			if diff := cmp.Diff(tc.want, packageNotes("pypi", tc.pkg, source)); diff != "" {
				t.Errorf("packageNotes diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSecurityNotes(t *testing.T) {
	vulns := model.Vulnerabilities{Vulns: []model.Vulnerability{
		{ID: "V-1", PublishedOn: now.AddDate(0, 0, -10), SeverityNum: floatPtr(8.1), DaysToFix: intPtr(700)},
		{ID: "V-2", PublishedOn: now.AddDate(0, 0, -20), DaysToFix: intPtr(650)},
		{ID: "V-3", PublishedOn: now.AddDate(0, 0, -30), DaysToFix: intPtr(610)},
		{ID: "V-4", PublishedOn: now.AddDate(-4, 0, 0), SeverityNum: floatPtr(9.8)},
	}}
	want := []notes.Code{
		notes.VULNERABILITIES_LONG_TIME_TO_FIX,
		notes.VULNERABILITIES_RECENT,
		notes.VULNERABILITIES_SEVERE,
	}
	if diff := cmp.Diff(want, securityNotes(vulns, now)); diff != "" {
		t.Errorf("securityNotes diff (-want +got):\n%s", diff)
	}
	score := Build("pypi", healthyPackage(), healthySource(), vulns, now)
	if score.Security.Value != notes.HighRisk {
		t.Errorf("security.value = %q, want %q", score.Security.Value, notes.HighRisk)
	}
}

func TestSecurityNotesCheckFailed(t *testing.T) {
	vulns := model.Vulnerabilities{Error: notes.VULNERABILITIES_CHECK_FAILED, Vulns: []model.Vulnerability{}}
	want := []notes.Code{notes.VULNERABILITIES_CHECK_FAILED}
	if diff := cmp.Diff(want, securityNotes(vulns, now)); diff != "" {
		t.Errorf("securityNotes diff (-want +got):\n%s", diff)
	}
}

func TestMedian(t *testing.T) {
	for _, tc := range []struct {
		values []int
		want   int
		ok     bool
	}{
		{nil, 0, false},
		{[]int{5}, 5, true},
		{[]int{3, 1, 2}, 2, true},
		{[]int{4, 1, 3, 2}, 2, true},
		{[]int{1, 2}, 1, true},
	} {
		got, ok := median(tc.values)
		if got != tc.want || ok != tc.ok {
			t.Errorf("median(%v) = (%d, %v), want (%d, %v)", tc.values, got, ok, tc.want, tc.ok)
		}
	}
}
