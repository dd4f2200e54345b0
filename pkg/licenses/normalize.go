// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package licenses

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	copyrightLineRE = regexp.MustCompile(`(?i)^[-\s*•]*copyright(\s+\([cC]\)|\s+©)?`)
	bulletRE        = regexp.MustCompile(`(\d+[.):] |\([a-z0-9]+\) |[ivxIVX]+[.)] )`)
	whitespaceRE    = regexp.MustCompile(`\s+`)
)

// normalizeForMatch prepares license text for similarity comparison:
// copyright lines are dropped, enumeration markers unified, whitespace
// collapsed, and the result lowercased.
func normalizeForMatch(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if copyrightLineRE.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	out := strings.Join(kept, "\n")
	out = bulletRE.ReplaceAllString(out, " * ")
	out = whitespaceRE.ReplaceAllString(out, " ")
	return strings.ToLower(strings.TrimSpace(out))
}

// ContentMD5 hashes license text with all whitespace runs collapsed to a
// single space. This is the identity used for cross-checking declared
// licenses against repository license files.
func ContentMD5(text string) string {
	normalized := strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
