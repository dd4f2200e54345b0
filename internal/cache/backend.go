// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
)

// fsBackend stores cache objects as files under baseDir.
type fsBackend struct {
	baseDir string
}

func (l *fsBackend) path(key string) string {
	return filepath.Join(l.baseDir, filepath.FromSlash(key))
}

func (l *fsBackend) Stat(ctx context.Context, key string) (time.Time, error) {
	info, err := os.Stat(l.path(key))
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (l *fsBackend) Read(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(l.path(key))
}

// Write is atomic: data lands in a temp file that is renamed into place, so
// concurrent readers never observe a partial entry.
func (l *fsBackend) Write(ctx context.Context, key string, data []byte) error {
	fullPath := l.path(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return errors.Wrap(err, "creating cache directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "renaming temp file into place")
	}
	return nil
}

// gcsBackend stores cache objects in a GCS bucket, optionally under a
// prefix. Object update time provides the freshness clock.
type gcsBackend struct {
	client *storage.Client
	bucket string
	prefix string
}

func newGCSBackend(ctx context.Context, location string) (*gcsBackend, error) {
	rest := strings.TrimPrefix(location, "gs://")
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, errors.Errorf("no bucket in cache location %q", location)
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "creating GCS client")
	}
	return &gcsBackend{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (g *gcsBackend) object(key string) *storage.ObjectHandle {
	name := key
	if g.prefix != "" {
		name = g.prefix + "/" + key
	}
	return g.client.Bucket(g.bucket).Object(name)
}

func (g *gcsBackend) Stat(ctx context.Context, key string) (time.Time, error) {
	attrs, err := g.object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return attrs.Updated, nil
}

func (g *gcsBackend) Read(ctx context.Context, key string) ([]byte, error) {
	r, err := g.object(key).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (g *gcsBackend) Write(ctx context.Context, key string, data []byte) error {
	w := g.object(key).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
