// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package vulns queries the OSV API for known vulnerabilities and
// normalizes severities through CVSS base scores.
package vulns

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/opensourcescore/score/internal/httpx"
	"github.com/opensourcescore/score/pkg/model"
	"github.com/opensourcescore/score/pkg/notes"
	"github.com/pkg/errors"
	"github.com/quay/claircore/toolkit/types/cvss"
)

var queryURL = "https://api.osv.dev/v1/query"

// osvEcosystems maps ecosystem tags to OSV ecosystem names. Ecosystems
// absent here have no OSV coverage.
var osvEcosystems = map[string]string{
	"pypi": "PyPI",
	"npm":  "npm",
}

// Fetcher retrieves the known vulnerabilities for one package.
type Fetcher interface {
	Fetch(ctx context.Context, ecosystem, name string) (*model.Vulnerabilities, error)
}

// OSVClient is a Fetcher backed by the osv.dev query API.
type OSVClient struct {
	Client httpx.BasicClient
}

type queryRequest struct {
	Package struct {
		Name      string `json:"name"`
		Ecosystem string `json:"ecosystem"`
	} `json:"package"`
}

type queryResponse struct {
	Vulns []osvVuln `json:"vulns"`
}

type osvVuln struct {
	ID        string        `json:"id"`
	Aliases   []string      `json:"aliases"`
	Published string        `json:"published"`
	Modified  string        `json:"modified"`
	Severity  []osvSeverity `json:"severity"`
}

type osvSeverity struct {
	Type  string `json:"type"`
	Score string `json:"score"`
}

// Fetch returns the deduplicated vulnerability list for a package. Missing
// OSV coverage and structured upstream failures yield a check-failed marker
// instead of an error so scoring can proceed; transport failures return an
// error and must not be recorded as a result.
func (c OSVClient) Fetch(ctx context.Context, ecosystem, name string) (*model.Vulnerabilities, error) {
	checkFailed := &model.Vulnerabilities{Error: notes.VULNERABILITIES_CHECK_FAILED, Vulns: []model.Vulnerability{}}
	osvEco, ok := osvEcosystems[ecosystem]
	if !ok {
		return checkFailed, nil
	}
	var q queryRequest
	q.Package.Name = name
	q.Package.Ecosystem = osvEco
	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, queryURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "querying osv for %s/%s", ecosystem, name)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		log.Printf("osv query for %s/%s: %s", ecosystem, name, resp.Status)
		return checkFailed, nil
	}
	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, errors.Wrap(err, "decoding osv response")
	}
	out := &model.Vulnerabilities{Vulns: []model.Vulnerability{}}
	seen := make(map[string]bool)
	for _, v := range qr.Vulns {
		if seen[v.ID] {
			continue
		}
		duplicate := false
		for _, a := range v.Aliases {
			if seen[a] {
				duplicate = true
				break
			}
		}
		seen[v.ID] = true
		for _, a := range v.Aliases {
			seen[a] = true
		}
		if duplicate {
			continue
		}
		nv, err := normalize(v)
		if err != nil {
			return nil, errors.Wrapf(err, "vulnerability %s", v.ID)
		}
		out.Vulns = append(out.Vulns, nv)
	}
	return out, nil
}

func normalize(v osvVuln) (model.Vulnerability, error) {
	if v.Published == "" {
		return model.Vulnerability{}, errors.New("missing published timestamp")
	}
	published, err := time.Parse(time.RFC3339, v.Published)
	if err != nil {
		return model.Vulnerability{}, errors.Wrap(err, "parsing published")
	}
	nv := model.Vulnerability{ID: v.ID, PublishedOn: published}
	nv.Severity, nv.SeverityNum = severity(v.Severity)
	if v.Modified != "" {
		fixed, err := time.Parse(time.RFC3339, v.Modified)
		if err != nil {
			return model.Vulnerability{}, errors.Wrap(err, "parsing modified")
		}
		nv.FixedOn = &fixed
		days := int(math.Floor(fixed.Sub(published).Seconds() / 86400))
		// Records with modified before published would otherwise report a
		// negative fix window.
		if days < 0 {
			days = 0
		}
		nv.DaysToFix = &days
	}
	return nv, nil
}

// severity picks the highest-preference CVSS vector present and buckets its
// base score. Preference: v4, then v3, then v2.
func severity(entries []osvSeverity) (string, *float64) {
	for _, kind := range []string{"CVSS_V4", "CVSS_V3", "CVSS_V2"} {
		for _, e := range entries {
			if e.Type != kind {
				continue
			}
			score, err := baseScore(kind, e.Score)
			if err != nil {
				log.Printf("unparseable %s vector %q: %v", kind, e.Score, err)
				continue
			}
			return bucket(score), &score
		}
	}
	return model.SeverityUnknown, nil
}

func baseScore(kind, vector string) (float64, error) {
	switch kind {
	case "CVSS_V4":
		v, err := cvss.ParseV4(vector)
		if err != nil {
			return 0, err
		}
		return v.Score(), nil
	case "CVSS_V3":
		v, err := cvss.ParseV3(vector)
		if err != nil {
			return 0, err
		}
		return v.Score(), nil
	default:
		v, err := cvss.ParseV2(vector)
		if err != nil {
			return 0, err
		}
		return v.Score(), nil
	}
}

func bucket(score float64) string {
	switch {
	case score >= 9:
		return model.SeverityCritical
	case score >= 7:
		return model.SeverityHigh
	case score >= 4:
		return model.SeverityModerate
	default:
		return model.SeverityLow
	}
}
