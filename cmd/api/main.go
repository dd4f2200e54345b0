// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// The api server scores open source packages over HTTP.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/opensourcescore/score/internal/cache"
	"github.com/opensourcescore/score/internal/httpx"
	"github.com/opensourcescore/score/internal/service"
	"github.com/opensourcescore/score/pkg/gitscan"
	"github.com/opensourcescore/score/pkg/notes"
	"github.com/opensourcescore/score/pkg/registry"
	"github.com/opensourcescore/score/pkg/vulns"
	"github.com/pkg/errors"
)

var (
	addr          = flag.String("addr", ":8080", "Address to serve on")
	cacheLocation = flag.String("cache", os.Getenv("CACHE_LOCATION"), "Cache location: file path, gs:// URL, or 0 to disable")
	userAgent     = flag.String("user-agent", "opensourcescore/1.0", "User-Agent header for upstream requests")
	maxCloneTime  = flag.Duration("max-clone-time", envDuration("MAX_CLONE_TIME", gitscan.MaxCloneTime), "Hard limit on git clone subprocesses")
)

const version = "1.0.0"

// envDuration reads a duration from the environment, accepting either a
// Go duration string or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("unparseable %s=%q, using %s", key, v, fallback)
	return fallback
}

type server struct {
	scorer *service.Scorer
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /pkg/{ecosystem}/{name...}", s.handlePackage)
	mux.HandleFunc("GET /score/{ecosystem}/{name...}", s.handleScore)
	mux.HandleFunc("GET /source/git/{url...}", s.handleSource)
	mux.HandleFunc("GET /notes/categories", s.handleNoteCategories)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

// notFound reports a client-attributable lookup failure.
func notFound(w http.ResponseWriter, detail string, err error) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"detail": detail,
		"error":  fmt.Sprintf("%v", err),
	})
}

// internalError logs err under a fresh reference id and reports only the id
// to the client.
func internalError(w http.ResponseWriter, err error) {
	ref := uuid.New().String()
	log.Printf("internal error [%s]: %+v", ref, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"detail":       "internal error",
		"reference_id": ref,
	})
}

func isInputError(err error) bool {
	return errors.Is(err, registry.ErrUnknownEcosystem) || errors.Is(err, registry.ErrMalformedName)
}

func setCacheHeaders(w http.ResponseWriter, ttl time.Duration) {
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d, public", int(ttl.Seconds())))
}

func setLookupHeaders(w http.ResponseWriter, prefix string, res cache.Result) {
	w.Header().Set(prefix+"-cache-file", res.Key)
	w.Header().Set(prefix+"-cache-hit", strconv.FormatBool(res.Hit))
}

func invalidateParam(r *http.Request) bool {
	v := r.URL.Query().Get("invalidate_cache")
	return v == "true" || v == "1"
}

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":       "opensourcescore",
		"version":    version,
		"ecosystems": registry.Ecosystems(),
	})
}

func (s *server) handlePackage(w http.ResponseWriter, r *http.Request) {
	ecosystem, name := r.PathValue("ecosystem"), r.PathValue("name")
	pkg, res, err := s.scorer.FetchPackage(r.Context(), ecosystem, name, invalidateParam(r))
	setCacheHeaders(w, cache.PackageTTL)
	setLookupHeaders(w, "pkg", res)
	if isInputError(err) {
		notFound(w, "unknown package "+ecosystem+"/"+name, err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	ecosystem, name := r.PathValue("ecosystem"), r.PathValue("name")
	resp, lookups, err := s.scorer.Score(r.Context(), service.Request{
		Ecosystem:  ecosystem,
		Name:       name,
		SourceURL:  r.URL.Query().Get("source_url"),
		Invalidate: invalidateParam(r),
	})
	setCacheHeaders(w, cache.PackageTTL)
	setLookupHeaders(w, "pkg", lookups.Package)
	setLookupHeaders(w, "git", lookups.Source)
	setLookupHeaders(w, "vuln", lookups.Vulns)
	if isInputError(err) {
		notFound(w, "unknown package "+ecosystem+"/"+name, err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSource(w http.ResponseWriter, r *http.Request) {
	source, res, err := s.scorer.FetchSource(r.Context(), r.PathValue("url"), invalidateParam(r))
	setCacheHeaders(w, cache.SourceTTL)
	setLookupHeaders(w, "git", res)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, source)
}

func (s *server) handleNoteCategories(w http.ResponseWriter, r *http.Request) {
	setCacheHeaders(w, cache.PackageTTL)
	writeJSON(w, http.StatusOK, map[string]any{
		"notes":      notes.Catalog,
		"categories": notes.Categories,
		"groups":     notes.Groups,
	})
}

func main() {
	flag.Parse()
	store, err := cache.Open(context.Background(), *cacheLocation)
	if err != nil {
		log.Fatalln(err)
	}
	client := &httpx.RetryClient{
		BasicClient: &httpx.WithUserAgent{BasicClient: http.DefaultClient, UserAgent: *userAgent},
	}
	s := &server{scorer: &service.Scorer{
		Client: client,
		Cache:  store,
		Git:    gitscan.Ingestor{CloneTimeout: *maxCloneTime},
		Vulns:  vulns.OSVClient{Client: client},
	}}
	mux := http.NewServeMux()
	s.routes(mux)
	log.Printf("serving on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalln(err)
	}
}
