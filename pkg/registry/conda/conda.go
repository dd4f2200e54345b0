// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package conda fetches package metadata from the anaconda.org API and
// normalizes it to the Package model. Conda package names carry their
// channel, as in "conda-forge/numpy".
package conda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/opensourcescore/score/internal/httpx"
	"github.com/opensourcescore/score/internal/uri"
	"github.com/opensourcescore/score/internal/urlx"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/pkg/errors"
)

var registryURL = urlx.MustParse("https://api.anaconda.org")

// ErrNotFound indicates the package does not exist on the channel.
var ErrNotFound = errors.New("package not found")

// ErrMalformedName indicates a name without a "{channel}/{pkg}" shape.
var ErrMalformedName = errors.New("conda package name must be channel/name")

// CondaPackage is the anaconda.org document for a package.
type CondaPackage struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	LatestVersion string `json:"latest_version"`
	License       string `json:"license"`
	DevURL        string `json:"dev_url"`
	SourceGitURL  string `json:"source_git_url"`
	ModifiedAt    string `json:"modified_at"`
	Files         []File `json:"files"`
}

// File is one artifact published for some version of the package.
type File struct {
	Version string `json:"version"`
	Attrs   Attrs  `json:"attrs"`
}

type Attrs struct {
	Depends []string `json:"depends"`
}

// Registry is a conda package registry.
type Registry interface {
	Package(ctx context.Context, channel, pkg string) (*CondaPackage, error)
	Fetch(context.Context, string) (*model.Package, error)
}

// HTTPRegistry is a Registry implementation that uses the anaconda.org HTTP API.
type HTTPRegistry struct {
	Client httpx.BasicClient
}

// Package returns the registry metadata for the given channel and package.
func (r HTTPRegistry) Package(ctx context.Context, channel, pkg string) (*CondaPackage, error) {
	pathURL, err := url.Parse(path.Join("/package", channel, pkg))
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
		return nil, errors.Errorf("anaconda API error: %v", resp.Status)
	}
	var p CondaPackage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Fetch normalizes the latest version into a Package. The name must be of
// the form "{channel}/{pkg}".
func (r HTTPRegistry) Fetch(ctx context.Context, name string) (*model.Package, error) {
	channel, pkg, ok := strings.Cut(name, "/")
	if !ok || channel == "" || pkg == "" {
		return nil, errors.Wrap(ErrMalformedName, name)
	}
	p, err := r.Package(ctx, channel, pkg)
	if errors.Is(err, ErrNotFound) {
		return &model.Package{Name: name, Ecosystem: "conda", Status: model.StatusNotFound}, nil
	}
	if err != nil {
		return nil, err
	}
	out := &model.Package{
		Name:         name,
		Ecosystem:    "conda",
		Version:      p.LatestVersion,
		License:      p.License,
		Status:       model.StatusOK,
		Dependencies: dependencies(channel, p),
	}
	if raw := p.DevURL; raw != "" {
		out.SourceURL = uri.NormalizeSourceURL(raw)
		out.SourceURLKey = "dev_url"
	} else if raw := p.SourceGitURL; raw != "" {
		out.SourceURL = uri.NormalizeSourceURL(raw)
		out.SourceURLKey = "source_git_url"
	}
	if t, err := time.Parse(time.RFC3339, normalizeTimestamp(p.ModifiedAt)); err == nil {
		out.ReleaseDate = &t
	}
	return out, nil
}

// normalizeTimestamp appends a zone designator to the naive timestamps the
// anaconda API emits.
func normalizeTimestamp(s string) string {
	if s == "" {
		return s
	}
	s = strings.Replace(s, " ", "T", 1)
	if strings.HasSuffix(s, "Z") || strings.Contains(s[strings.IndexByte(s, 'T')+1:], "+") {
		return s
	}
	return s + "Z"
}

// dependencies collects depends entries from files of the latest version.
// Each entry splits on its first whitespace into name and specifier, and
// names are prefixed with the channel.
func dependencies(channel string, p *CondaPackage) []model.Dependency {
	seen := make(map[string]bool)
	var deps []model.Dependency
	for _, f := range p.Files {
		if f.Version != p.LatestVersion {
			continue
		}
		for _, d := range f.Attrs.Depends {
			name, spec, _ := strings.Cut(d, " ")
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			specifiers := []string{}
			if spec = strings.TrimSpace(spec); spec != "" {
				specifiers = append(specifiers, spec)
			}
			deps = append(deps, model.Dependency{Name: channel + "/" + name, Specifiers: specifiers})
		}
	}
	return deps
}

var _ Registry = &HTTPRegistry{}
