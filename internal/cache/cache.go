// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache provides a keyed read-through store for serialized
// pipeline entities. Freshness is decided by the modification time of the
// backing object, so entries need no embedded expiry metadata and the TTL
// can differ per caller.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Entity TTLs.
const (
	PackageTTL         = 24 * time.Hour
	SourceTTL          = 24 * time.Hour
	VulnerabilitiesTTL = 7 * 24 * time.Hour
)

// Key constructors. Keys are hierarchical paths within the backend.

func PackageKey(ecosystem, name string) string {
	return "packages/" + ecosystem + "/" + name
}

func SourceKey(sourceURL string) string {
	return "git/" + url.PathEscape(sourceURL)
}

func VulnerabilitiesKey(ecosystem, name string) string {
	return "vuln/" + ecosystem + "/" + name
}

// Backend is the storage for cache objects. Implementations must be safe
// for concurrent use on disjoint keys; per-key writes are last-writer-wins.
type Backend interface {
	// Stat returns the modification time of the object, or the zero time
	// if it does not exist.
	Stat(ctx context.Context, key string) (time.Time, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Result describes a single lookup, for cache observability headers.
type Result struct {
	Key string
	Hit bool
}

// Store is the read-through cache used by the pipeline.
type Store struct {
	backend Backend
}

// Open constructs a Store from a CACHE_LOCATION-style value:
//
//	"0"                  caching disabled (every read misses, writes dropped)
//	gs://bucket[/prefix] GCS object storage
//	file:///path, /path  local filesystem
func Open(ctx context.Context, location string) (*Store, error) {
	switch {
	case location == "" || location == "0":
		return &Store{backend: disabledBackend{}}, nil
	case strings.HasPrefix(location, "gs://"):
		b, err := newGCSBackend(ctx, location)
		if err != nil {
			return nil, err
		}
		return &Store{backend: b}, nil
	case strings.HasPrefix(location, "file://"):
		return &Store{backend: &fsBackend{baseDir: strings.TrimPrefix(location, "file://")}}, nil
	case strings.Contains(location, "://"):
		return nil, errors.Errorf("unsupported cache location %q", location)
	default:
		return &Store{backend: &fsBackend{baseDir: location}}, nil
	}
}

// NewStore wraps an explicit backend; used by tests.
func NewStore(b Backend) *Store { return &Store{backend: b} }

// Get loads the value for key into v if a fresh entry exists. A true
// invalidate forces a miss without consulting the backend. Deserialization
// failures are misses, never errors: a stale schema must not break scoring.
func (s *Store) Get(ctx context.Context, key string, ttl time.Duration, invalidate bool, v any) Result {
	res := Result{Key: key}
	if invalidate {
		return res
	}
	mtime, err := s.backend.Stat(ctx, key)
	if err != nil {
		log.Printf("cache stat %s: %v", key, err)
		return res
	}
	if mtime.IsZero() || time.Since(mtime) > ttl {
		return res
	}
	data, err := s.backend.Read(ctx, key)
	if err != nil {
		log.Printf("cache read %s: %v", key, err)
		return res
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("cache entry %s is not decodable, treating as miss: %v", key, err)
		return res
	}
	res.Hit = true
	return res
}

// Put stores the JSON encoding of v under key.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding cache entry %s", key)
	}
	if err := s.backend.Write(ctx, key, data); err != nil {
		return errors.Wrapf(err, "writing cache entry %s", key)
	}
	return nil
}

// disabledBackend drops writes and never hits.
type disabledBackend struct{}

func (disabledBackend) Stat(context.Context, string) (time.Time, error) { return time.Time{}, nil }
func (disabledBackend) Read(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache disabled")
}
func (disabledBackend) Write(context.Context, string, []byte) error { return nil }
