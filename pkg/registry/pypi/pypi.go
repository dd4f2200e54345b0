// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package pypi fetches project metadata from the PyPI JSON API and
// normalizes it to the Package model.
package pypi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/opensourcescore/score/internal/httpx"
	"github.com/opensourcescore/score/internal/uri"
	"github.com/opensourcescore/score/internal/urlx"
	"github.com/opensourcescore/score/pkg/licenses"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/pkg/errors"
)

var registryURL = urlx.MustParse("https://pypi.org")

// ErrNotFound indicates the project does not exist on PyPI.
var ErrNotFound = errors.New("project not found")

// Project describes a single PyPI project with multiple releases.
type Project struct {
	Info     `json:"info"`
	Releases map[string][]Artifact `json:"releases"`
}

// Info about a project.
type Info struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	License      string            `json:"license"`
	Classifiers  []string          `json:"classifiers"`
	ProjectURLs  map[string]string `json:"project_urls"`
	RequiresDist []string          `json:"requires_dist"`
}

// An Artifact is one of the files included in a release.
type Artifact struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	UploadTime time.Time `json:"upload_time_iso_8601"`
}

// Registry is a PyPI package registry.
type Registry interface {
	Project(context.Context, string) (*Project, error)
	Fetch(context.Context, string) (*model.Package, error)
}

// HTTPRegistry is a Registry implementation that uses the pypi.org HTTP API.
type HTTPRegistry struct {
	Client httpx.BasicClient
}

// Project provides all API information related to the given package.
func (r HTTPRegistry) Project(ctx context.Context, pkg string) (*Project, error) {
	pathURL, err := url.Parse(path.Join("/pypi", pkg, "json"))
	if err != nil {
		return nil, err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, registryURL.ResolveReference(pathURL).String(), nil)
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == 404 {
		return nil, ErrNotFound
	}
	if resp.StatusCode != 200 {
		return nil, errors.Wrap(errors.New(resp.Status), "fetching project")
	}
	var p Project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Fetch normalizes the project's current release into a Package. A missing
// project yields status not_found rather than an error.
func (r HTTPRegistry) Fetch(ctx context.Context, pkg string) (*model.Package, error) {
	p, err := r.Project(ctx, pkg)
	if errors.Is(err, ErrNotFound) {
		return &model.Package{Name: pkg, Ecosystem: "pypi", Status: model.StatusNotFound}, nil
	}
	if err != nil {
		return nil, err
	}
	out := &model.Package{
		Name:         pkg,
		Ecosystem:    "pypi",
		Version:      p.Version,
		License:      declaredLicense(p.Info),
		Status:       model.StatusOK,
		Dependencies: ParseRequirements(p.RequiresDist),
	}
	if key, raw := sourceURL(p.ProjectURLs); raw != "" {
		out.SourceURL = uri.NormalizeSourceURL(raw)
		out.SourceURLKey = key
	}
	if d := releaseDate(p.Releases[p.Version]); !d.IsZero() {
		t := d
		out.ReleaseDate = &t
	}
	return out, nil
}

// sourceURLKeys is the preference order among project_urls entries. Keys are
// compared case-insensitively.
var sourceURLKeys = []string{"code", "repository", "source", "source code", "github", "homepage"}

func sourceURL(projectURLs map[string]string) (key, raw string) {
	lowered := make(map[string]string, len(projectURLs))
	for k, v := range projectURLs {
		lowered[strings.ToLower(k)] = v
	}
	for _, k := range sourceURLKeys {
		if v := lowered[k]; v != "" {
			return k, v
		}
	}
	return "", ""
}

// declaredLicense prefers the explicit license field and falls back to the
// trove classifiers, stripping the "OSI Approved" grouping segment.
func declaredLicense(info Info) string {
	if info.License != "" {
		return licenses.CommonKind(info.License)
	}
	for _, c := range info.Classifiers {
		rest, ok := strings.CutPrefix(c, "License :: ")
		if !ok {
			continue
		}
		rest = strings.TrimPrefix(rest, "OSI Approved :: ")
		if rest == "" || rest == "OSI Approved" {
			continue
		}
		return licenses.CommonKind(rest)
	}
	return ""
}

func releaseDate(artifacts []Artifact) time.Time {
	var min time.Time
	for _, a := range artifacts {
		if a.UploadTime.IsZero() {
			continue
		}
		if min.IsZero() || a.UploadTime.Before(min) {
			min = a.UploadTime
		}
	}
	return min
}

var nameRunsRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName applies PEP 503 name normalization.
func NormalizeName(name string) string {
	return strings.ToLower(nameRunsRE.ReplaceAllString(name, "-"))
}

var _ Registry = &HTTPRegistry{}
