// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package urlx provides small url.URL helpers.
package urlx

import "net/url"

// MustParse parses a URL known at compile time, panicking on error.
func MustParse(rawURL string) *url.URL {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return u
}
