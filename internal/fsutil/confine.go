// SPDX-License-Identifier: MIT

// Package fsutil keeps site-relative paths inside the site directory.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesRoot classifies paths that resolve outside their root.
var ErrEscapesRoot = errors.New("path escapes site directory")

// Confine joins the relative path rel onto root and returns the resolved
// path, following symlinks. It fails with ErrEscapesRoot when the result is
// not physically under root. rel itself need not exist.
func Confine(root, rel string) (string, error) {
	if strings.Contains(rel, "\\") {
		return "", fmt.Errorf("path contains backslash: %s", rel)
	}
	cleanRel := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleanRel) {
		return "", fmt.Errorf("%w: %s is absolute", ErrEscapesRoot, rel)
	}
	if cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrEscapesRoot, rel)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root path: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", err
	}

	realPath, err := resolve(filepath.Join(realRoot, cleanRel))
	if err != nil {
		return "", err
	}

	out, err := filepath.Rel(realRoot, realPath)
	if err != nil {
		return "", fmt.Errorf("rel computation failed: %w", err)
	}
	if out == ".." || strings.HasPrefix(out, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s resolves to %s", ErrEscapesRoot, rel, realPath)
	}
	return realPath, nil
}

// resolve follows symlinks in p. A missing leaf is resolved through its parent
// so callers still get a confined path to report as not found.
func resolve(p string) (string, error) {
	if _, err := os.Lstat(p); err == nil {
		rp, err := filepath.EvalSymlinks(p)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}
		return rp, nil
	}

	dir := filepath.Dir(p)
	rp, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if _, statErr := os.Stat(dir); statErr == nil {
			return "", fmt.Errorf("failed to resolve parent path: %w", err)
		}
		return p, nil
	}
	return filepath.Join(rp, filepath.Base(p)), nil
}
