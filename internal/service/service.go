// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package service runs the scoring pipeline for one package: registry
// metadata, source repository analysis, and known vulnerabilities, each
// behind its own cache entry, assembled into a score document.
package service

import (
	"context"
	"log"
	"time"

	"github.com/opensourcescore/score/internal/cache"
	"github.com/opensourcescore/score/internal/httpx"
	"github.com/opensourcescore/score/internal/uri"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/notes"
	"github.com/opensourcescore/score/pkg/registry"
	"github.com/opensourcescore/score/pkg/scoring"
	"golang.org/x/sync/errgroup"
)

// SourceIngestor analyzes a source repository URL.
type SourceIngestor interface {
	Ingest(ctx context.Context, url string) (*model.Source, error)
}

// VulnFetcher retrieves known vulnerabilities for a package.
type VulnFetcher interface {
	Fetch(ctx context.Context, ecosystem, name string) (*model.Vulnerabilities, error)
}

// Scorer executes the pipeline. All fields must be set.
type Scorer struct {
	Client httpx.BasicClient
	Cache  *cache.Store
	Git    SourceIngestor
	Vulns  VulnFetcher
}

// Request identifies one package to score.
type Request struct {
	Ecosystem string
	Name      string
	// SourceURL overrides the repository URL recorded in the registry.
	SourceURL string
	// Invalidate forces cache misses; fresh results are still written back.
	Invalidate bool
}

// Lookups reports the cache outcome of each pipeline stage.
type Lookups struct {
	Package cache.Result
	Source  cache.Result
	Vulns   cache.Result
}

// FetchPackage returns the registry view of a package, consulting the cache
// first.
func (s *Scorer) FetchPackage(ctx context.Context, ecosystem, name string, invalidate bool) (*model.Package, cache.Result, error) {
	fetcher, err := registry.For(ecosystem, s.Client)
	if err != nil {
		return nil, cache.Result{}, err
	}
	key := cache.PackageKey(ecosystem, name)
	var pkg model.Package
	if res := s.Cache.Get(ctx, key, cache.PackageTTL, invalidate, &pkg); res.Hit {
		return &pkg, res, nil
	}
	fresh, err := fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, cache.Result{Key: key}, err
	}
	if err := s.Cache.Put(ctx, key, fresh); err != nil {
		log.Printf("caching package %s/%s: %v", ecosystem, name, err)
	}
	return fresh, cache.Result{Key: key}, nil
}

// FetchSource analyzes the repository at rawURL, consulting the cache
// first. The URL is normalized before keying so spelling variants share an
// entry.
func (s *Scorer) FetchSource(ctx context.Context, rawURL string, invalidate bool) (*model.Source, cache.Result, error) {
	normalized := uri.NormalizeSourceURL(rawURL)
	key := cache.SourceKey(normalized)
	var source model.Source
	if res := s.Cache.Get(ctx, key, cache.SourceTTL, invalidate, &source); res.Hit {
		return &source, res, nil
	}
	fresh, err := s.Git.Ingest(ctx, normalized)
	if err != nil {
		return nil, cache.Result{Key: key}, err
	}
	if err := s.Cache.Put(ctx, key, fresh); err != nil {
		log.Printf("caching source %s: %v", normalized, err)
	}
	return fresh, cache.Result{Key: key}, nil
}

// FetchVulnerabilities returns known vulnerabilities for a package,
// consulting the cache first. Transport failures degrade to a check-failed
// marker that is never written back, so the next lookup queries again.
func (s *Scorer) FetchVulnerabilities(ctx context.Context, ecosystem, name string, invalidate bool) (*model.Vulnerabilities, cache.Result, error) {
	key := cache.VulnerabilitiesKey(ecosystem, name)
	var vulns model.Vulnerabilities
	if res := s.Cache.Get(ctx, key, cache.VulnerabilitiesTTL, invalidate, &vulns); res.Hit {
		return &vulns, res, nil
	}
	fresh, err := s.Vulns.Fetch(ctx, ecosystem, name)
	if err != nil {
		log.Printf("fetching vulnerabilities %s/%s: %v", ecosystem, name, err)
		checkFailed := &model.Vulnerabilities{Error: notes.VULNERABILITIES_CHECK_FAILED, Vulns: []model.Vulnerability{}}
		return checkFailed, cache.Result{Key: key}, nil
	}
	if err := s.Cache.Put(ctx, key, fresh); err != nil {
		log.Printf("caching vulnerabilities %s/%s: %v", ecosystem, name, err)
	}
	return fresh, cache.Result{Key: key}, nil
}

// Score runs the full pipeline for one package. The source analysis and the
// vulnerability fetch run concurrently once the registry metadata is known.
func (s *Scorer) Score(ctx context.Context, req Request) (*model.ScoreResponse, Lookups, error) {
	var lookups Lookups
	pkg, pkgRes, err := s.FetchPackage(ctx, req.Ecosystem, req.Name, req.Invalidate)
	if err != nil {
		return nil, lookups, err
	}
	lookups.Package = pkgRes

	sourceURL := req.SourceURL
	if sourceURL == "" {
		sourceURL = pkg.SourceURL
	}

	var source *model.Source
	var vulns *model.Vulnerabilities
	g, gctx := errgroup.WithContext(ctx)
	if sourceURL != "" {
		g.Go(func() error {
			var err error
			source, lookups.Source, err = s.FetchSource(gctx, sourceURL, req.Invalidate)
			return err
		})
	}
	g.Go(func() error {
		var err error
		vulns, lookups.Vulns, err = s.FetchVulnerabilities(gctx, req.Ecosystem, req.Name, req.Invalidate)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, lookups, err
	}

	score := scoring.Build(req.Ecosystem, pkg, source, *vulns, time.Now())
	return &model.ScoreResponse{
		Ecosystem:       req.Ecosystem,
		PackageName:     req.Name,
		Package:         pkg,
		Source:          source,
		Score:           score,
		Status:          pkg.Status,
		Vulnerabilities: *vulns,
	}, lookups, nil
}
