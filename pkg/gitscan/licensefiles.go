// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package gitscan

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/opensourcescore/score/pkg/licenses"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/notes"
)

// maxLicenseFiles bounds pathological repos that vendor thousands of
// license copies.
const maxLicenseFiles = 2500

var licenseNameRE = regexp.MustCompile(`^(licen[cs]e|copying)(\..*)?$`)

// notLicenseExts are extensions that name data or image files despite a
// license-like stem.
var notLicenseExts = map[string]bool{
	".json": true, ".csv": true, ".svg": true, ".jpg": true, ".jpeg": true,
}

// findLicenseFiles returns repo-relative paths of candidate license files,
// sorted by (path length, lexicographic) and capped.
func findLicenseFiles(root string) []string {
	var paths []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		if !licenseNameRE.MatchString(name) {
			return nil
		}
		if notLicenseExts[filepath.Ext(name)] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) < len(paths[j])
		}
		return paths[i] < paths[j]
	})
	if len(paths) > maxLicenseFiles {
		log.Printf("%s: capping %d license files at %d", root, len(paths), maxLicenseFiles)
		paths = paths[:maxLicenseFiles]
	}
	return paths
}

// isDocIncludeShim reports documentation pages that merely include the real
// license file.
func isDocIncludeShim(relPath, content string) bool {
	p := strings.ToLower(relPath)
	if !strings.HasPrefix(p, "docs") {
		return false
	}
	if strings.HasSuffix(p, "license.rst") &&
		(strings.Contains(content, ".. literalinclude::") || strings.Contains(content, ".. include::")) {
		return true
	}
	if strings.HasSuffix(p, "license.md") && strings.Contains(content, "{include} ../LICENSE") {
		return true
	}
	return false
}

// scanLicenses identifies every license file in the working tree.
func scanLicenses(root string) []model.License {
	var found []model.License
	for _, rel := range findLicenseFiles(root) {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			log.Printf("reading license file %s: %v", rel, err)
			found = append(found, model.License{Path: rel, Error: notes.LICENSE_CHECK_FAILED})
			continue
		}
		content := strings.TrimSpace(string(data))
		if isDocIncludeShim(rel, content) {
			continue
		}
		found = append(found, licenses.Detect(rel, content))
	}
	return found
}
