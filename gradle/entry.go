// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Entry is one GN target in the project graph. Entries are interned by
// their normalized label, so two Entry pointers are equal exactly when
// they name the same target. The descriptor is loaded lazily and
// memoized on the interned entry.
type Entry struct {
	target string // normalized label, always "//dir:name"
	graph  *Graph

	config    *BuildConfig
	javaFiles []string
	loadedSrc bool

	// AndroidTest is the instrumentation test entry folded into this
	// entry's androidTest source set, or nil.
	AndroidTest *Entry
}

// GNTarget returns the normalized GN label, e.g. "//base:base_java".
func (e *Entry) GNTarget() string {
	return e.target
}

// NinjaTarget returns the label as a ninja target name.
func (e *Entry) NinjaTarget() string {
	return strings.TrimPrefix(e.target, "//")
}

// NinjaBuildConfigTarget returns the ninja target that writes this
// entry's build_config file.
func (e *Entry) NinjaBuildConfigTarget() string {
	return e.NinjaTarget() + "__build_config"
}

// GradleSubdir returns the entry's directory below the project root,
// slash-separated.
func (e *Entry) GradleSubdir() string {
	return strings.Replace(e.NinjaTarget(), ":", "/", 1)
}

// ProjectName returns the gradle project name. Gradle reserves ':' and
// '/' in project names, so path separators become '>'.
func (e *Entry) ProjectName() string {
	return strings.ReplaceAll(e.GradleSubdir(), "/", ">")
}

// BuildConfig returns the entry's descriptor, loading it on first use.
func (e *Entry) BuildConfig() (*BuildConfig, error) {
	if e.config != nil {
		return e.config, nil
	}
	fname := filepath.Join(e.graph.path.OutDir, "gen", filepath.FromSlash(e.GradleSubdir())+".build_config")
	config, err := loadBuildConfig(e.target, fname)
	if err != nil {
		return nil, err
	}
	e.config = config
	return config, nil
}

// Type returns the target type recorded in the descriptor.
func (e *Entry) Type() (string, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return "", err
	}
	return config.DepsInfo.Type, nil
}

// ResZips returns the resource zips owned by this entry, as written in
// the descriptor (output-dir relative).
func (e *Entry) ResZips() ([]string, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return nil, err
	}
	return config.DepsInfo.OwnedResourcesZips, nil
}

// JavaFiles returns the java files owned by this entry, output-dir
// relative, read from the sources list the descriptor points at.
// Entries without a sources list own no files.
func (e *Entry) JavaFiles() ([]string, error) {
	if e.loadedSrc {
		return e.javaFiles, nil
	}
	config, err := e.BuildConfig()
	if err != nil {
		return nil, err
	}
	if config.Gradle.JavaSourcesFile != "" {
		files, err := readSourcesList(e.graph.path.Abs(config.Gradle.JavaSourcesFile))
		if err != nil {
			return nil, err
		}
		e.javaFiles = files
	}
	e.loadedSrc = true
	return e.javaFiles, nil
}

// readSourcesList reads a newline-separated list of source paths.
func readSourcesList(fname string) ([]string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var files []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	err = s.Err()
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Graph owns the interned entries of one generation run.
type Graph struct {
	path    *Path
	entries map[string]*Entry
}

// NewGraph returns an empty graph over the given build output dir.
func NewGraph(p *Path) *Graph {
	return &Graph{
		path:    p,
		entries: make(map[string]*Entry),
	}
}

// Entry returns the interned entry for a GN label. A label without an
// explicit target name gets ":<basename>" appended, so "//base/foo"
// and "//base/foo:foo" are the same entry.
func (g *Graph) Entry(gnTarget string) (*Entry, error) {
	if !strings.HasPrefix(gnTarget, "//") {
		return nil, MalformedTargetError{Value: gnTarget, Reason: `must start with "//"`}
	}
	if !strings.Contains(gnTarget, ":") {
		gnTarget = gnTarget + ":" + path.Base(gnTarget)
	}
	e, ok := g.entries[gnTarget]
	if !ok {
		e = &Entry{target: gnTarget, graph: g}
		g.entries[gnTarget] = e
	}
	return e, nil
}

// EntryFromConfigPath returns the entry whose descriptor lives at the
// given output-dir relative path "gen/<dir>/<name>.build_config".
func (g *Graph) EntryFromConfigPath(fname string) (*Entry, error) {
	const prefix = "gen/"
	const suffix = ".build_config"
	if !strings.HasPrefix(fname, prefix) || !strings.HasSuffix(fname, suffix) {
		return nil, MalformedTargetError{Value: fname, Reason: "build_config path must match gen/*.build_config"}
	}
	subdir := fname[len(prefix) : len(fname)-len(suffix)]
	dir, name := path.Split(subdir)
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || name == "" {
		return nil, MalformedTargetError{Value: fname, Reason: "build_config path has no directory or name"}
	}
	return g.Entry("//" + dir + ":" + name)
}
