// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opensourcescore/score/internal/cache"
	"github.com/opensourcescore/score/internal/httpx/httpxtest"
	"github.com/opensourcescore/score/internal/service"
	"github.com/opensourcescore/score/pkg/model"
)

type staticIngestor struct{ source model.Source }

func (f staticIngestor) Ingest(ctx context.Context, url string) (*model.Source, error) {
	s := f.source
	s.SourceURL = url
	return &s, nil
}

type staticVulns struct{}

func (staticVulns) Fetch(ctx context.Context, ecosystem, name string) (*model.Vulnerabilities, error) {
	return &model.Vulnerabilities{Vulns: []model.Vulnerability{}}, nil
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := cache.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	released := time.Now().UTC().AddDate(0, 0, -30).Format(time.RFC3339)
	client := &httpxtest.MockClient{
		Calls: []httpxtest.Call{{
			URL: "https://pypi.org/pypi/flask/json",
			Response: &http.Response{StatusCode: 200, Body: httpxtest.Body(`{
				"info": {
					"name": "Flask",
					"version": "3.0.2",
					"license": "BSD License",
					"classifiers": [],
					"project_urls": {"Source": "https://github.com/pallets/flask/"},
					"requires_dist": []
				},
				"releases": {"3.0.2": [{"filename": "f.tar.gz", "upload_time_iso_8601": "` + released + `"}]}
			}`)},
		}},
		URLValidator: httpxtest.NewURLValidator(t),
	}
	recent, monthly := 4, 9
	first := time.Now().AddDate(-5, 0, 0)
	latest := time.Now().AddDate(0, 0, -3)
	osi := true
	srv := &server{scorer: &service.Scorer{
		Client: client,
		Cache:  store,
		Git: staticIngestor{source: model.Source{
			Licenses: []model.License{{
				Path: "LICENSE", SPDXID: "BSD-3-Clause", Kind: "BSD", License: "BSD-3-Clause",
				Similarity: 1.0, IsOSIApproved: &osi,
			}},
			PackageDestinations: []model.PackageDestination{
				{Name: "pypi/flask", Path: "/pyproject.toml"},
			},
			RecentAuthorsCount:     &recent,
			MaxMonthlyAuthorsCount: &monthly,
			FirstCommit:            &first,
			LatestCommit:           &latest,
		}},
		Vulns: staticVulns{},
	}}
	mux := http.NewServeMux()
	srv.routes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestScoreEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/score/pypi/flask")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, h := range []string{"pkg-cache-hit", "git-cache-hit", "vuln-cache-hit"} {
		if got := resp.Header.Get(h); got != "false" {
			t.Errorf("%s = %q, want false on cold cache", h, got)
		}
	}
	if got := resp.Header.Get("pkg-cache-file"); got != "packages/pypi/flask" {
		t.Errorf("pkg-cache-file = %q", got)
	}
	if got := resp.Header.Get("Cache-Control"); got != "max-age=86400, public" {
		t.Errorf("Cache-Control = %q", got)
	}
	var body model.ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != model.StatusOK || body.PackageName != "flask" {
		t.Errorf("body = %+v", body)
	}
	if len(body.Score.Notes) != 0 {
		t.Errorf("notes = %v, want none", body.Score.Notes)
	}
}

func TestUnknownEcosystemIs404(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/score/cargo/serde")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "max-age=86400, public" {
		t.Errorf("Cache-Control = %q, want set on error responses", got)
	}
	for _, h := range []string{"pkg-cache-hit", "git-cache-hit", "vuln-cache-hit"} {
		if got := resp.Header.Get(h); got != "false" {
			t.Errorf("%s = %q, want false on error responses", h, got)
		}
	}
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Detail == "" || body.Error == "" {
		t.Errorf("body = %+v, want detail and error set", body)
	}
}

func TestNoteCategoriesEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/notes/categories")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Notes      map[string]any `json:"notes"`
		Categories []string       `json:"categories"`
		Groups     []string       `json:"groups"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Notes) == 0 || len(body.Categories) != 10 || len(body.Groups) != 5 {
		t.Errorf("got %d notes, %d categories, %d groups", len(body.Notes), len(body.Categories), len(body.Groups))
	}
}
