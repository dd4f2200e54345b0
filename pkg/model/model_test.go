// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opensourcescore/score/pkg/notes"
)

func ptr[T any](v T) *T { return &v }

func TestSourceRoundTrip(t *testing.T) {
	first := time.Date(2015, 3, 1, 10, 0, 0, 0, time.UTC)
	latest := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	src := Source{
		SourceURL: "https://github.com/pallets/flask",
		Licenses: []License{{
			Path:       "LICENSE.txt",
			SPDXID:     "BSD-3-Clause",
			Kind:       "BSD",
			License:    "BSD-3-Clause",
			Similarity: 1.0,
			MD5:        "d41d8cd98f00b204e9800998ecf8427e",
		}},
		PackageDestinations:    []PackageDestination{{Name: "pypi/flask", Path: "pyproject.toml"}},
		RecentAuthorsCount:     ptr(12),
		MaxMonthlyAuthorsCount: ptr(31),
		FirstCommit:            &first,
		LatestCommit:           &latest,
	}
	b, err := json.Marshal(src)
	if err != nil {
		t.Fatal(err)
	}
	var got Source
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceErrorSerializesAsCode(t *testing.T) {
	src := Source{SourceURL: "http://example.com/x/y", Error: notes.NO_SOURCE_INSECURE_CONNECTION}
	b, err := json.Marshal(src)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	if got, want := raw["error"], "NO_SOURCE_INSECURE_CONNECTION"; got != want {
		t.Errorf("error field = %v, want %v", got, want)
	}
}

func TestPackageDestinationWireFormat(t *testing.T) {
	b, err := json.Marshal(PackageDestination{Name: "npm/react", Path: "package.json"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `["npm/react","package.json"]`; got != want {
		t.Errorf("marshal = %s, want %s", got, want)
	}
	var d PackageDestination
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatal(err)
	}
	if d.Name != "npm/react" || d.Path != "package.json" {
		t.Errorf("unmarshal = %+v", d)
	}
}

func TestPackageRoundTrip(t *testing.T) {
	release := time.Date(2024, 11, 13, 17, 0, 0, 0, time.UTC)
	pkg := Package{
		Name:         "flask",
		Ecosystem:    "pypi",
		Version:      "3.1.0",
		License:      "BSD-3-Clause",
		SourceURL:    "https://github.com/pallets/flask",
		SourceURLKey: "source",
		ReleaseDate:  &release,
		Status:       StatusOK,
		Dependencies: []Dependency{
			{Name: "click", Specifiers: []string{">=8.1.3"}},
			{Name: "python-dotenv", Specifiers: []string{}, EnvironmentMarker: `extra == "dotenv"`, ExtraMarker: "dotenv"},
		},
	}
	b, err := json.Marshal(pkg)
	if err != nil {
		t.Fatal(err)
	}
	var got Package
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pkg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestVulnerabilitiesRoundTrip(t *testing.T) {
	published := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	fixed := published.Add(42 * 24 * time.Hour)
	vulns := Vulnerabilities{
		Vulns: []Vulnerability{{
			ID:          "GHSA-m2qf-hxjv-5gpq",
			PublishedOn: published,
			FixedOn:     &fixed,
			Severity:    SeverityHigh,
			SeverityNum: ptr(7.5),
			DaysToFix:   ptr(42),
		}},
	}
	b, err := json.Marshal(vulns)
	if err != nil {
		t.Fatal(err)
	}
	var got Vulnerabilities
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(vulns, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
