// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// computeJavaSourceDirRoots groups java files by their source root.
// The root of a file is found by walking up its directories: "java"
// and "src" are roots themselves, while "javax", "org" and "com" are
// package directories whose parent is the root.
func computeJavaSourceDirRoots(javaFiles []string) (map[string][]string, error) {
	foundRoots := make(map[string][]string)
	for _, fname := range javaFiles {
		root := fname
		for {
			parent := filepath.Dir(root)
			if parent == root {
				return nil, fmt.Errorf("failed to find source dir for %s", fname)
			}
			root = parent
			switch filepath.Base(root) {
			case "java", "src":
			case "javax", "org", "com":
				root = filepath.Dir(root)
			default:
				continue
			}
			break
		}
		foundRoots[root] = append(foundRoots[root], fname)
	}
	return foundRoots, nil
}

// computeExcludeFilters returns exclude patterns that hide the
// unwanted files under parentDir while keeping every wanted file.
// A whole directory collapses to a "*.java" glob when none of its
// files are wanted. Patterns are relative to parentDir.
func computeExcludeFilters(wantedFiles, unwantedFiles []string, parentDir string) ([]string, error) {
	wanted := make(map[string]bool, len(wantedFiles))
	for _, fname := range wantedFiles {
		wanted[fname] = true
	}
	remaining := make(map[string]bool, len(unwantedFiles))
	for _, fname := range unwantedFiles {
		remaining[fname] = true
	}
	queue := make([]string, len(unwantedFiles))
	copy(queue, unwantedFiles)
	sort.Strings(queue)

	var excludes []string
	for _, unwantedFile := range queue {
		if !remaining[unwantedFile] {
			continue
		}
		delete(remaining, unwantedFile)
		pattern := filepath.Join(filepath.Dir(unwantedFile), "*.java")
		foundFiles, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		keepsWanted := false
		for _, fname := range foundFiles {
			if wanted[fname] {
				keepsWanted = true
				break
			}
		}
		if keepsWanted {
			rel, err := filepath.Rel(parentDir, unwantedFile)
			if err != nil {
				return nil, err
			}
			excludes = append(excludes, rel)
			continue
		}
		rel, err := filepath.Rel(parentDir, pattern)
		if err != nil {
			return nil, err
		}
		excludes = append(excludes, rel)
		for _, fname := range foundFiles {
			delete(remaining, fname)
		}
	}
	return excludes, nil
}

// findJavaFiles returns all *.java files below dir. A dir that does
// not exist yet (generated sources) has no files.
func findJavaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(fname string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && fname == dir {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".java") {
			files = append(files, fname)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// createJavaSourceDirs computes the source directories spanning the
// given output-dir relative java files, plus the exclude patterns that
// restrict each directory to exactly the files the target owns.
func createJavaSourceDirs(p *Path, javaFiles []string) (javaDirs, excludes []string, err error) {
	if len(javaFiles) == 0 {
		return nil, nil, nil
	}
	absFiles := p.AbsAll(javaFiles)
	computedDirs, err := computeJavaSourceDirRoots(absFiles)
	if err != nil {
		return nil, nil, err
	}
	javaDirs = make([]string, 0, len(computedDirs))
	for dir := range computedDirs {
		javaDirs = append(javaDirs, dir)
	}
	sort.Strings(javaDirs)

	allFound := make(map[string]bool)
	for _, dir := range javaDirs {
		files := computedDirs[dir]
		foundFiles, err := findJavaFiles(dir)
		if err != nil {
			return nil, nil, err
		}
		owned := make(map[string]bool, len(files))
		for _, fname := range files {
			owned[fname] = true
		}
		var unwanted []string
		for _, fname := range foundFiles {
			allFound[fname] = true
			if !owned[fname] {
				unwanted = append(unwanted, fname)
			}
		}
		if len(unwanted) == 0 {
			continue
		}
		log.Debugf("directory requires excludes: %s", dir)
		dirExcludes, err := computeExcludeFilters(files, unwanted, dir)
		if err != nil {
			return nil, nil, err
		}
		excludes = append(excludes, dirExcludes...)
	}

	// Warn only about non-generated files that are missing on disk.
	missing := make(map[string]bool)
	for _, fname := range absFiles {
		if !allFound[fname] && !strings.HasPrefix(fname, p.OutDir) {
			missing[fname] = true
		}
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for fname := range missing {
			names = append(names, fname)
		}
		sort.Strings(names)
		log.Warnf("some java files were not found: %v", names)
	}
	return javaDirs, excludes, nil
}
