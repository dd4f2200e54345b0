// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package gitscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opensourcescore/score/pkg/model"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestScanDestinations(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pyproject.toml": "[project]\nname = \"My_Package\"\n",
		"sub/setup.cfg":  "[metadata]\nname = other\n",
		// Ignored: a modern manifest already named the package.
		"setup.py":     "setup(\n    name='legacy',\n)\n",
		"package.json": `{"name": "@scope/pkg", "version": "1.0.0"}`,
	})
	got := scanDestinations(root)
	want := []model.PackageDestination{
		{Name: "pypi/my-package", Path: "/pyproject.toml"},
		{Name: "pypi/other", Path: "/sub/setup.cfg"},
		{Name: "npm/@scope/pkg", Path: "/package.json"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scanDestinations diff (-want +got):\n%s", diff)
	}
}

func TestScanDestinationsSetupPyFallback(t *testing.T) {
	root := writeTree(t, map[string]string{
		"setup.py": "from setuptools import setup\n\nsetup(\n    name=\"Legacy.Pkg\",\n    version='1.0',\n)\n",
	})
	got := scanDestinations(root)
	want := []model.PackageDestination{
		{Name: "pypi/legacy-pkg", Path: "/setup.py"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scanDestinations diff (-want +got):\n%s", diff)
	}
}

func TestScanDestinationsPoetry(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pyproject.toml": "[tool.poetry]\nname = \"poet\"\nversion = \"0.1.0\"\n",
	})
	got := scanDestinations(root)
	want := []model.PackageDestination{
		{Name: "pypi/poet", Path: "/pyproject.toml"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scanDestinations diff (-want +got):\n%s", diff)
	}
}

func TestScanDestinationsTypeshed(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pyproject.toml":                 "[project]\nname = \"typeshed\"\n",
		"stubs/requests/METADATA.toml":   "version = \"2.31.*\"\n",
		"stubs/six/METADATA.toml":        "version = \"1.16.*\"\n",
		"stubs/a/nested/METADATA.toml":   "version = \"0.0.*\"\n",
		"stdlib/not-stubs/METADATA.toml": "version = \"0.0.*\"\n",
	})
	got := scanDestinations(root)
	want := []model.PackageDestination{
		{Name: "pypi/typeshed", Path: "/pyproject.toml"},
		{Name: "pypi/types-six", Path: "/stubs/six/METADATA.toml"},
		{Name: "pypi/types-requests", Path: "/stubs/requests/METADATA.toml"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scanDestinations diff (-want +got):\n%s", diff)
	}
}

func TestScanDestinationsEmpty(t *testing.T) {
	root := writeTree(t, map[string]string{
		"README.md": "nothing to declare\n",
	})
	got := scanDestinations(root)
	if diff := cmp.Diff([]model.PackageDestination{}, got); diff != "" {
		t.Errorf("scanDestinations diff (-want +got):\n%s", diff)
	}
}
