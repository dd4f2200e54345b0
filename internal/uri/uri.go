// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package uri normalizes and validates source repository URLs.
package uri

import (
	"net/url"
	re "regexp"
	"strings"

	"github.com/opensourcescore/score/pkg/notes"
)

// Hosts whose URLs are reduced to https://{host}/{org}/{repo}.
var wellKnownHosts = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
}

var scpLikeRE = re.MustCompile(`^git@([\w.-]+):(.+)$`)

// NormalizeSourceURL rewrites the various git remote spellings into a
// canonical https URL. URLs on well-known hosts are reduced to exactly two
// path components; anything else passes through unchanged. Returns the empty
// string when the URL cannot identify a repository. The function is
// idempotent: normalizing a normalized URL is a no-op.
func NormalizeSourceURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "git+")
	if m := scpLikeRE.FindStringSubmatch(s); m != nil {
		s = "https://" + m[1] + "/" + m[2]
	}
	if rest, ok := strings.CutPrefix(s, "git://"); ok {
		s = "https://" + rest
	}
	if rest, ok := strings.CutPrefix(s, "ssh://git@"); ok {
		s = "https://" + rest
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if !wellKnownHosts[host] {
		return s
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	org, repo := parts[0], strings.TrimSuffix(parts[1], ".git")
	return "https://" + host + "/" + org + "/" + repo
}

// hostname validity per the clone gate: present, dotted, no colon (ports
// are already split off, so a colon means an IPv6 literal), sane length.
func validHostname(hostname string) bool {
	if hostname == "" {
		return false
	}
	if len(hostname) < 3 || len(hostname) > 255 {
		return false
	}
	if !strings.Contains(hostname, ".") {
		return false
	}
	if strings.Contains(hostname, ":") {
		return false
	}
	return true
}

// CheckCloneSafe decides whether a URL may be cloned. It returns the empty
// code when the URL is acceptable, otherwise the note explaining the
// rejection. No network access is performed.
func CheckCloneSafe(rawURL string) notes.Code {
	u, err := url.Parse(rawURL)
	if err != nil {
		return notes.NO_SOURCE_INVALID_URL
	}
	switch u.Scheme {
	case "https", "git":
		return ""
	case "http":
		return notes.NO_SOURCE_INSECURE_CONNECTION
	}
	host := strings.ToLower(u.Hostname())
	if host == "localhost" {
		return notes.NO_SOURCE_LOCALHOST_URL
	}
	if !validHostname(host) {
		return notes.NO_SOURCE_INVALID_URL
	}
	if strings.HasPrefix(host, "127.") {
		return notes.NO_SOURCE_LOCALHOST_URL
	}
	return notes.NO_SOURCE_INVALID_URL
}
