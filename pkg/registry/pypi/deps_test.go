// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opensourcescore/score/pkg/model"
)

func TestParseRequirement(t *testing.T) {
	testCases := []struct {
		name string
		line string
		want model.Dependency
	}{
		{
			name: "multiple specifiers",
			line: "click>=8.1.3,>2.0",
			want: model.Dependency{Name: "click", Specifiers: []string{">=8.1.3", ">2.0"}},
		},
		{
			name: "environment marker",
			line: `importlib-metadata>=3.6.0; python_version < "3.10"`,
			want: model.Dependency{
				Name:              "importlib-metadata",
				Specifiers:        []string{">=3.6.0"},
				EnvironmentMarker: `python_version < "3.10"`,
			},
		},
		{
			name: "extra marker",
			line: `python-dotenv; extra == "dotenv"`,
			want: model.Dependency{
				Name:              "python-dotenv",
				Specifiers:        []string{},
				EnvironmentMarker: `extra == "dotenv"`,
				ExtraMarker:       "dotenv",
			},
		},
		{
			name: "extra marker single quoted",
			line: "watchdog; extra == 'dev'",
			want: model.Dependency{
				Name:              "watchdog",
				Specifiers:        []string{},
				EnvironmentMarker: "extra == 'dev'",
				ExtraMarker:       "dev",
			},
		},
		{
			name: "extras list",
			line: "requests[security,socks]>=2.0",
			want: model.Dependency{
				Name:       "requests",
				Extras:     []string{"security", "socks"},
				Specifiers: []string{">=2.0"},
			},
		},
		{
			name: "url requirement has no specifiers",
			line: "pip @ https://github.com/pypa/pip/archive/22.0.2.zip",
			want: model.Dependency{Name: "pip", Specifiers: []string{}},
		},
		{
			name: "bare name",
			line: "blinker",
			want: model.Dependency{Name: "blinker", Specifiers: []string{}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRequirement(tc.line)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseRequirement mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRequirementsSkipsMalformed(t *testing.T) {
	deps := ParseRequirements([]string{
		"click>=8.1.3,>2.0",
		"[not-a-name]",
		`python-dotenv; extra == "dotenv"`,
	})
	if len(deps) != 2 {
		t.Fatalf("deps = %d, want 2 (malformed line skipped)", len(deps))
	}
	if deps[0].Name != "click" || deps[1].Name != "python-dotenv" {
		t.Errorf("unexpected names: %q, %q", deps[0].Name, deps[1].Name)
	}
}
