// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package gitscan

import (
	"encoding/json"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/opensourcescore/score/internal/ini"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/registry/pypi"
	"github.com/pelletier/go-toml/v2"
)

// filesNamed returns repo-relative paths (leading slash, slash separated)
// of files with the given base name, shortest path first.
func filesNamed(root, base string) []string {
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
		if d.Name() != base {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, "/"+filepath.ToSlash(rel))
		return nil
	})
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) < len(paths[j])
		}
		return paths[i] < paths[j]
	})
	return paths
}

func readAt(root, rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(rel, "/"))))
}

type pyprojectFile struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func pyprojectName(data []byte) string {
	var p pyprojectFile
	if err := toml.Unmarshal(data, &p); err != nil {
		log.Printf("unparseable pyproject.toml: %v", err)
		return ""
	}
	if p.Project.Name != "" {
		return p.Project.Name
	}
	return p.Tool.Poetry.Name
}

var setupNameRE = regexp.MustCompile(`(?s)setup\(.*?name\s*=\s*['"]([^'"]*)['"]`)

// scanDestinations discovers every package name declared by a manifest in
// the working tree. setup.py is a fallback consulted only when neither
// pyproject.toml nor setup.cfg yielded a name.
func scanDestinations(root string) []model.PackageDestination {
	dests := []model.PackageDestination{}
	foundPy := false
	for _, rel := range filesNamed(root, "pyproject.toml") {
		data, err := readAt(root, rel)
		if err != nil {
			continue
		}
		name := pyprojectName(data)
		if name == "" {
			continue
		}
		foundPy = true
		normalized := pypi.NormalizeName(name)
		dests = append(dests, model.PackageDestination{Name: "pypi/" + normalized, Path: rel})
		if normalized == "typeshed" {
			dests = append(dests, typeshedStubs(root)...)
		}
	}
	for _, rel := range filesNamed(root, "setup.cfg") {
		data, err := readAt(root, rel)
		if err != nil {
			continue
		}
		f, err := ini.Parse(strings.NewReader(string(data)))
		if err != nil {
			log.Printf("unparseable setup.cfg %s: %v", rel, err)
			continue
		}
		name, ok := f.Value("metadata", "name")
		if !ok || name == "" {
			continue
		}
		foundPy = true
		dests = append(dests, model.PackageDestination{Name: "pypi/" + pypi.NormalizeName(name), Path: rel})
	}
	if !foundPy {
		for _, rel := range filesNamed(root, "setup.py") {
			data, err := readAt(root, rel)
			if err != nil {
				continue
			}
			m := setupNameRE.FindSubmatch(data)
			if m == nil || len(m[1]) == 0 {
				continue
			}
			dests = append(dests, model.PackageDestination{Name: "pypi/" + pypi.NormalizeName(string(m[1])), Path: rel})
		}
	}
	for _, rel := range filesNamed(root, "package.json") {
		data, err := readAt(root, rel)
		if err != nil {
			continue
		}
		var pkg struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &pkg); err != nil || pkg.Name == "" {
			continue
		}
		dests = append(dests, model.PackageDestination{Name: "npm/" + pkg.Name, Path: rel})
	}
	return dests
}

// typeshedStubs emits the implied types-* packages of a typeshed checkout,
// one per /stubs/<dir>/METADATA.toml.
func typeshedStubs(root string) []model.PackageDestination {
	var dests []model.PackageDestination
	for _, rel := range filesNamed(root, "METADATA.toml") {
		if !strings.HasPrefix(rel, "/stubs/") || !strings.HasSuffix(rel, "/METADATA.toml") {
			continue
		}
		stub := strings.TrimSuffix(strings.TrimPrefix(rel, "/stubs/"), "/METADATA.toml")
		if stub == "" || strings.Contains(stub, "/") {
			continue
		}
		dests = append(dests, model.PackageDestination{Name: "pypi/types-" + stub, Path: rel})
	}
	return dests
}
