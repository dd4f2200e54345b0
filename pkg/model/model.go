// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package model defines the entities that flow through the scoring pipeline
// and their JSON wire format. Timestamps marshal as RFC 3339 in UTC; note
// fields marshal as their code strings.
package model

import (
	"encoding/json"
	"time"

	"github.com/opensourcescore/score/pkg/notes"
	"github.com/pkg/errors"
)

// Package statuses.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
)

// Dependency is a single declared dependency of a package.
type Dependency struct {
	Name              string   `json:"name"`
	Specifiers        []string `json:"specifiers"`
	Extras            []string `json:"extras,omitempty"`
	EnvironmentMarker string   `json:"environment_marker,omitempty"`
	// ExtraMarker is the extracted name when the environment marker has the
	// form `extra == "X"`.
	ExtraMarker string `json:"extra_marker,omitempty"`
}

// Package is the normalized registry view of a package. It is immutable
// after creation by a registry fetcher.
type Package struct {
	Name         string       `json:"name"`
	Ecosystem    string       `json:"ecosystem"`
	Version      string       `json:"version,omitempty"`
	License      string       `json:"license,omitempty"`
	SourceURL    string       `json:"source_url,omitempty"`
	SourceURLKey string       `json:"source_url_key,omitempty"`
	ReleaseDate  *time.Time   `json:"release_date,omitempty"`
	Status       string       `json:"status"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// License describes one license file found in a repository.
type License struct {
	Path           string     `json:"path,omitempty"`
	SPDXID         string     `json:"spdx_id,omitempty"`
	Kind           string     `json:"kind,omitempty"`
	License        string     `json:"license,omitempty"`
	BestMatch      string     `json:"best_match,omitempty"`
	Similarity     float64    `json:"similarity,omitempty"`
	Modified       bool       `json:"modified"`
	Diff           string     `json:"diff,omitempty"`
	MD5            string     `json:"md5,omitempty"`
	AdditionalText string     `json:"additional_text,omitempty"`
	Restrictions   []string   `json:"restrictions,omitempty"`
	IsOSIApproved  *bool      `json:"is_osi_approved,omitempty"`
	Error          notes.Code `json:"error,omitempty"`
}

// PackageDestination is an (ecosystem/name, manifest path) pair discovered
// in a repository. It marshals as a two-element array to match the cache
// wire format.
type PackageDestination struct {
	Name string
	Path string
}

func (d PackageDestination) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{d.Name, d.Path})
}

func (d *PackageDestination) UnmarshalJSON(b []byte) error {
	var pair [2]string
	if err := json.Unmarshal(b, &pair); err != nil {
		return errors.Wrap(err, "package destination")
	}
	d.Name, d.Path = pair[0], pair[1]
	return nil
}

// Source is the analysis result for one source repository. When Error is
// set all other fields are advisory only.
type Source struct {
	SourceURL              string               `json:"source_url"`
	Error                  notes.Code           `json:"error,omitempty"`
	Licenses               []License            `json:"licenses,omitempty"`
	PackageDestinations    []PackageDestination `json:"package_destinations,omitempty"`
	RecentAuthorsCount     *int                 `json:"recent_authors_count,omitempty"`
	MaxMonthlyAuthorsCount *int                 `json:"max_monthly_authors_count,omitempty"`
	FirstCommit            *time.Time           `json:"first_commit,omitempty"`
	LatestCommit           *time.Time           `json:"latest_commit,omitempty"`
}

// Vulnerability severity labels.
const (
	SeverityLow      = "LOW"
	SeverityModerate = "MODERATE"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
	SeverityUnknown  = "UNKNOWN"
)

// Vulnerability is one known vulnerability affecting a package.
type Vulnerability struct {
	ID          string     `json:"id"`
	PublishedOn time.Time  `json:"published_on"`
	FixedOn     *time.Time `json:"fixed_on,omitempty"`
	Severity    string     `json:"severity"`
	SeverityNum *float64   `json:"severity_num,omitempty"`
	DaysToFix   *int       `json:"days_to_fix,omitempty"`
}

// Vulnerabilities wraps the vulnerability list for a package.
type Vulnerabilities struct {
	Error notes.Code      `json:"error,omitempty"`
	Vulns []Vulnerability `json:"vulns"`
}

// CategorizedScore is one of the four sub-scores.
type CategorizedScore struct {
	Value notes.Category `json:"value"`
	Notes []notes.Code   `json:"notes"`
}

// Score is the assembled score document for one package.
type Score struct {
	Notes      []notes.Code     `json:"notes"`
	Legal      CategorizedScore `json:"legal"`
	HealthRisk CategorizedScore `json:"health_risk"`
	Maturity   CategorizedScore `json:"maturity"`
	Security   CategorizedScore `json:"security"`
}

// ScoreResponse is the document served for a score request.
type ScoreResponse struct {
	Ecosystem       string          `json:"ecosystem"`
	PackageName     string          `json:"package_name"`
	Package         *Package        `json:"package,omitempty"`
	Source          *Source         `json:"source,omitempty"`
	Score           Score           `json:"score"`
	Status          string          `json:"status"`
	Vulnerabilities Vulnerabilities `json:"vulnerabilities"`
}
