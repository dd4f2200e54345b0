// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"log"
	"regexp"
	"strings"

	"github.com/opensourcescore/score/pkg/model"
	"github.com/pkg/errors"
)

var (
	requirementRE = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9._-]*)\s*(?:\[([^\]]+)\])?\s*(.*)`)
	specifierRE   = regexp.MustCompile(`[><=!~]+[^,;\s]+`)
	extraMarkerRE = regexp.MustCompile(`extra\s*==\s*["']([^"']+)["']`)
)

// ParseRequirement parses one requires_dist line of the form
// `name[extras] specifiers ; environment_marker`.
func ParseRequirement(line string) (model.Dependency, error) {
	main, marker, _ := strings.Cut(line, ";")
	main = strings.TrimSpace(main)
	marker = strings.TrimSpace(marker)
	m := requirementRE.FindStringSubmatch(main)
	if m == nil {
		return model.Dependency{}, errors.Errorf("invalid requirement %q", line)
	}
	dep := model.Dependency{Name: m[1], Specifiers: []string{}, EnvironmentMarker: marker}
	if m[2] != "" {
		for _, extra := range strings.Split(m[2], ",") {
			if extra = strings.TrimSpace(extra); extra != "" {
				dep.Extras = append(dep.Extras, extra)
			}
		}
	}
	// URL requirements carry no version specifiers.
	if spec := strings.TrimSpace(m[3]); spec != "" && !strings.HasPrefix(spec, "@") {
		dep.Specifiers = specifierRE.FindAllString(spec, -1)
		if dep.Specifiers == nil {
			dep.Specifiers = []string{}
		}
	}
	if marker != "" {
		if em := extraMarkerRE.FindStringSubmatch(marker); em != nil {
			dep.ExtraMarker = em[1]
		}
	}
	return dep, nil
}

// ParseRequirements parses all lines, logging and skipping the malformed
// ones so a single bad entry cannot fail the whole package.
func ParseRequirements(requiresDist []string) []model.Dependency {
	var deps []model.Dependency
	for _, line := range requiresDist {
		dep, err := ParseRequirement(line)
		if err != nil {
			log.Printf("skipping dependency %q: %v", line, err)
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}
