// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package licenses

import (
	"embed"
	"sync"

	"github.com/pkg/errors"
)

// corpusFS bundles the reference license texts used by the fuzzy matcher.
// File names are the canonical license identifiers.
//
//go:embed corpus
var corpusFS embed.FS

type reference struct {
	name       string
	text       string
	normalized string
}

var loadCorpus = sync.OnceValue(func() []reference {
	entries, err := corpusFS.ReadDir("corpus")
	if err != nil {
		panic(errors.Wrap(err, "reading license corpus"))
	}
	refs := make([]reference, 0, len(entries))
	for _, e := range entries {
		data, err := corpusFS.ReadFile("corpus/" + e.Name())
		if err != nil {
			panic(errors.Wrapf(err, "reading corpus file %s", e.Name()))
		}
		refs = append(refs, reference{
			name:       e.Name(),
			text:       string(data),
			normalized: normalizeForMatch(string(data)),
		})
	}
	return refs
})
