// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry defines the Fetcher capability implemented by each
// package ecosystem and the dispatch from ecosystem tags to fetchers.
package registry

import (
	"context"

	"github.com/opensourcescore/score/internal/httpx"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/registry/conda"
	"github.com/opensourcescore/score/pkg/registry/npm"
	"github.com/opensourcescore/score/pkg/registry/pypi"
	"github.com/pkg/errors"
)

// Fetcher retrieves registry metadata for one package and normalizes it to
// the Package model.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (*model.Package, error)
}

// ErrUnknownEcosystem is returned by For on unrecognized ecosystem tags.
var ErrUnknownEcosystem = errors.New("unknown ecosystem")

// ErrMalformedName is returned for names that do not fit the ecosystem's
// naming scheme (e.g. a conda name missing its channel).
var ErrMalformedName = conda.ErrMalformedName

// Ecosystems lists the supported ecosystem tags.
func Ecosystems() []string { return []string{"pypi", "npm", "conda"} }

// For returns the Fetcher for an ecosystem tag.
func For(ecosystem string, client httpx.BasicClient) (Fetcher, error) {
	switch ecosystem {
	case "pypi":
		return pypi.HTTPRegistry{Client: client}, nil
	case "npm":
		return npm.HTTPRegistry{Client: client}, nil
	case "conda":
		return conda.HTTPRegistry{Client: client}, nil
	default:
		return nil, errors.Wrap(ErrUnknownEcosystem, ecosystem)
	}
}
