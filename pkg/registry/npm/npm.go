// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package npm fetches package metadata from the npm registry and
// normalizes it to the Package model.
package npm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"sort"
	"time"

	"github.com/opensourcescore/score/internal/httpx"
	"github.com/opensourcescore/score/internal/uri"
	"github.com/opensourcescore/score/internal/urlx"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/pkg/errors"
)

var registryURL = urlx.MustParse("https://registry.npmjs.org")

// ErrNotFound indicates the package does not exist on the registry.
var ErrNotFound = errors.New("package not found")

// NPMPackage is the registry document for a package.
type NPMPackage struct {
	Name        string `json:"name"`
	DistTags    `json:"dist-tags"`
	Versions    map[string]Release   `json:"versions"`
	UploadTimes map[string]time.Time `json:"time"`
}

type DistTags struct {
	Latest string `json:"latest"`
}

// Release is one published version of a package.
type Release struct {
	Version       string            `json:"version"`
	Dependencies  map[string]string `json:"dependencies"`
	RawRepository json.RawMessage   `json:"repository"`
	Repository
	RawLicense json.RawMessage `json:"license"`
	License    string          `json:"-"`
}

type Repository struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Registry is an npm package registry.
type Registry interface {
	Package(context.Context, string) (*NPMPackage, error)
	Fetch(context.Context, string) (*model.Package, error)
}

// HTTPRegistry is a Registry implementation that uses the npmjs.org HTTP API.
type HTTPRegistry struct {
	Client httpx.BasicClient
}

// Package returns the registry metadata for the given package.
func (r HTTPRegistry) Package(ctx context.Context, pkg string) (*NPMPackage, error) {
	pathURL, err := url.Parse(path.Join("/", pkg))
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
		return nil, errors.Errorf("npm registry error: %v", resp.Status)
	}
	var p NPMPackage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	for s, v := range p.Versions {
		if len(v.RawRepository) > 0 {
			if err := json.Unmarshal(v.RawRepository, &v.Repository); err != nil {
				// Legacy packages publish the repository as a bare string.
				if err := json.Unmarshal(v.RawRepository, &v.Repository.URL); err != nil {
					return nil, err
				}
			}
		}
		v.RawRepository = nil
		if len(v.RawLicense) > 0 {
			// License is either a string or a {type, url} object.
			if err := json.Unmarshal(v.RawLicense, &v.License); err != nil {
				var obj struct {
					Type string `json:"type"`
				}
				if json.Unmarshal(v.RawLicense, &obj) == nil {
					v.License = obj.Type
				}
			}
		}
		v.RawLicense = nil
		p.Versions[s] = v
	}
	return &p, nil
}

// Fetch normalizes the latest published version into a Package.
func (r HTTPRegistry) Fetch(ctx context.Context, pkg string) (*model.Package, error) {
	p, err := r.Package(ctx, pkg)
	if errors.Is(err, ErrNotFound) {
		return &model.Package{Name: pkg, Ecosystem: "npm", Status: model.StatusNotFound}, nil
	}
	if err != nil {
		return nil, err
	}
	latest := p.DistTags.Latest
	release := p.Versions[latest]
	out := &model.Package{
		Name:         pkg,
		Ecosystem:    "npm",
		Version:      latest,
		License:      release.License,
		Status:       model.StatusOK,
		Dependencies: dependencies(release.Dependencies),
	}
	if release.Repository.URL != "" {
		out.SourceURL = uri.NormalizeSourceURL(release.Repository.URL)
		out.SourceURLKey = "repository"
	}
	if t, ok := p.UploadTimes[latest]; ok {
		out.ReleaseDate = &t
	}
	return out, nil
}

func dependencies(declared map[string]string) []model.Dependency {
	names := make([]string, 0, len(declared))
	for name := range declared {
		names = append(names, name)
	}
	sort.Strings(names)
	var deps []model.Dependency
	for _, name := range names {
		specifiers := []string{}
		if s := declared[name]; s != "" {
			specifiers = append(specifiers, s)
		}
		deps = append(deps, model.Dependency{Name: name, Specifiers: specifiers})
	}
	return deps
}

var _ Registry = &HTTPRegistry{}
