// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gradle generates Android Studio project files from the
// build_config descriptors of a GN build.
package gradle

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Path rebases paths between the frames used during generation.
// Paths in build_config descriptors are relative to the build output
// directory unless absolute.
type Path struct {
	// OutDir is the absolute path of the build output directory.
	OutDir string
}

// NewPath returns a Path for the build output directory.
func NewPath(outDir string) (*Path, error) {
	if !filepath.IsAbs(outDir) {
		return nil, fmt.Errorf("output directory must be absolute path: %q", outDir)
	}
	return &Path{OutDir: filepath.Clean(outDir)}, nil
}

// Abs converts an output-dir relative path to an absolute path.
// It keeps absolute paths as is.
func (p *Path) Abs(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.OutDir, path)
}

// AbsAll converts output-dir relative paths to absolute paths.
func (p *Path) AbsAll(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	abs := make([]string, 0, len(paths))
	for _, path := range paths {
		abs = append(abs, p.Abs(path))
	}
	return abs
}

// Rel rebases an output-dir relative or absolute path to be relative
// to base. base must be absolute.
func (p *Path) Rel(base, path string) (string, error) {
	if !filepath.IsAbs(base) {
		return "", fmt.Errorf("base must be absolute path: %q", base)
	}
	return filepath.Rel(base, p.Abs(path))
}

// MustRel is Rel, but logs and returns path unmodified on failure.
func (p *Path) MustRel(base, path string) string {
	s, err := p.Rel(base, path)
	if err != nil {
		log.Errorf("failed to get rel %s, %s: %v", base, path, err)
		return path
	}
	return s
}

// MustRelAll rebases paths to be relative to base.
func (p *Path) MustRelAll(base string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	rel := make([]string, 0, len(paths))
	for _, path := range paths {
		rel = append(rel, p.MustRel(base, path))
	}
	return rel
}

// ToOut rebases an absolute or output-dir relative path to be relative
// to the output directory.
func (p *Path) ToOut(path string) string {
	return p.MustRel(p.OutDir, path)
}

// isSubpath reports whether child is below parent. Both paths must be
// in the same frame.
func isSubpath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
