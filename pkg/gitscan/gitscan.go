// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package gitscan derives a Source analysis from a repository URL: it
// validates the URL, performs a minimal sparse clone, and extracts commit
// activity, license files, and declared package names.
package gitscan

import (
	"context"
	"log"
	"os"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/opensourcescore/score/internal/uri"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/notes"
	"github.com/pkg/errors"
)

// Ingestor analyzes source repositories.
type Ingestor struct {
	// CloneTimeout bounds the clone subprocess. Zero means MaxCloneTime.
	CloneTimeout time.Duration
}

// Ingest resolves url into a Source. Repository-attributable failures are
// reported in Source.Error; only infrastructure failures (notably clone
// timeouts) return a Go error.
func (i Ingestor) Ingest(ctx context.Context, url string) (*model.Source, error) {
	source := &model.Source{SourceURL: url, PackageDestinations: []model.PackageDestination{}}
	if code := uri.CheckCloneSafe(url); code != "" {
		source.Error = code
		return source, nil
	}
	dir, err := os.MkdirTemp("", "score-*.git")
	if err != nil {
		return nil, errors.Wrap(err, "creating clone directory")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("removing clone directory %s: %v", dir, err)
		}
	}()
	timeout := i.CloneTimeout
	if timeout == 0 {
		timeout = MaxCloneTime
	}
	code, err := cloneSparse(ctx, url, dir, timeout)
	if err != nil {
		return nil, err
	}
	if code != "" {
		source.Error = code
		return source, nil
	}
	if repo, err := git.PlainOpen(dir); err != nil {
		log.Printf("%s: opening clone: %v", url, err)
		source.Error = notes.REPO_EMPTY
	} else if entries, err := commitLog(repo); err != nil {
		log.Printf("%s: reading commit log: %v", url, err)
		source.Error = notes.REPO_EMPTY
	} else if len(entries) == 0 {
		source.Error = notes.REPO_EMPTY
	} else if stats, ok := computeStats(entries, time.Now()); ok {
		// A repo whose history is entirely bot commits keeps nil stats;
		// scoring reports it as having no derivable commit history.
		source.RecentAuthorsCount = &stats.recentAuthors
		source.MaxMonthlyAuthorsCount = &stats.maxMonthlyAuthors
		first, latest := stats.firstCommit, stats.latestCommit
		source.FirstCommit = &first
		source.LatestCommit = &latest
	}
	// License and manifest scans still run on an empty-history tree; they
	// simply find nothing.
	source.Licenses = scanLicenses(dir)
	source.PackageDestinations = append(source.PackageDestinations, scanDestinations(dir)...)
	return source, nil
}
