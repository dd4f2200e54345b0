// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package gitscan

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/opensourcescore/score/pkg/notes"
	"github.com/pkg/errors"
)

// MaxCloneTime is the default bound on the clone subprocess. Repos that
// cannot deliver their sparse set in this window are treated as transient
// failures.
const MaxCloneTime = 30 * time.Second

// ErrCloneTimeout is returned when the clone exceeds MaxCloneTime. It is
// raised to the caller rather than folded into the Source so retries stay
// possible.
var ErrCloneTimeout = errors.New("clone timed out")

// sparsePatterns limits checkout to manifests and license files. Non-cone
// mode is required for the **/ patterns.
var sparsePatterns = []string{
	"**/package.json",
	"**/pyproject.toml",
	"**/setup.cfg",
	"**/setup.py",
	"**/requirements.txt",
	"**/METADATA.toml",
	"**/LICEN?E*",
	"**/licen?e*",
	"**/COPYING*",
	"**/copying*",
}

// cloneSparse clones url into dir with minimum data transfer: single
// branch, no checkout, tree-less filter, then a non-cone sparse checkout of
// the manifest and license patterns. A non-empty note reports a clone
// failure attributable to the repository.
func cloneSparse(ctx context.Context, url, dir string, timeout time.Duration) (notes.Code, error) {
	cloneCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(cloneCtx, "git", "clone",
		"--single-branch", "--no-checkout", "--sparse", "--filter=tree:0",
		"--", url, dir)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	// A killed subprocess is not a repository failure: the timeout surfaces
	// as ErrCloneTimeout and a cancellation propagates to the caller.
	if ctxErr := cloneCtx.Err(); ctxErr != nil {
		if ctxErr == context.DeadlineExceeded {
			return "", errors.Wrap(ErrCloneTimeout, url)
		}
		return "", errors.Wrap(ctxErr, url)
	}
	if err != nil {
		return classifyCloneError(err, string(output)), nil
	}
	sparse := exec.CommandContext(ctx, "git", "sparse-checkout", "init", "--no-cone")
	sparse.Dir = dir
	if out, err := sparse.CombinedOutput(); err != nil {
		return "", errors.Wrapf(err, "initializing sparse-checkout: %s", out)
	}
	patterns := strings.Join(sparsePatterns, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".git", "info", "sparse-checkout"), []byte(patterns), 0o644); err != nil {
		return "", errors.Wrap(err, "writing sparse-checkout patterns")
	}
	checkout := exec.CommandContext(ctx, "git", "checkout", "HEAD")
	checkout.Dir = dir
	if out, err := checkout.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", errors.Wrap(ctxErr, url)
		}
		// An unborn HEAD means an empty repository; commit iteration will
		// report it.
		if strings.Contains(strings.ToLower(string(out)), "did not match any") ||
			strings.Contains(strings.ToLower(string(out)), "reference is not a tree") {
			return "", nil
		}
		return classifyCloneError(err, string(out)), nil
	}
	return "", nil
}

func classifyCloneError(err error, output string) notes.Code {
	lowered := strings.ToLower(output)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
		switch {
		case strings.Contains(lowered, "not found"):
			return notes.NO_SOURCE_REPO_NOT_FOUND
		case strings.Contains(lowered, "could not read username"):
			return notes.NO_SOURCE_PRIVATE_REPO
		}
	}
	if strings.Contains(lowered, "protocol") && (strings.Contains(lowered, "not allowed") || strings.Contains(lowered, "not supported")) {
		return notes.NO_SOURCE_UNSAFE_GIT_PROTOCOL
	}
	return notes.NO_SOURCE_OTHER_GIT_ERROR
}
