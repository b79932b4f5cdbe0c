// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"
)

// writeFile writes data to fname, creating parent directories.
func writeFile(fname, data string) error {
	log.Debugf("writing %s", fname)
	err := os.MkdirAll(filepath.Dir(fname), 0o755)
	if err != nil {
		return err
	}
	return os.WriteFile(fname, []byte(data), 0o644)
}

// GenerateSettingsGradle returns the contents of settings.gradle
// declaring the given projects. rootName names the root project.
func GenerateSettingsGradle(rootName string, entries []*Entry) string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "// Generated by gngradle.")
	fmt.Fprintf(&sb, "rootProject.name = %q\n", rootName)
	fmt.Fprintln(&sb, "rootProject.projectDir = settingsDir")
	fmt.Fprintln(&sb)
	for _, e := range entries {
		fmt.Fprintf(&sb, "include \":%s\"\n", e.ProjectName())
		fmt.Fprintf(&sb, "project(\":%s\").projectDir = new File(settingsDir, %q)\n", e.ProjectName(), e.GradleSubdir())
	}
	return sb.String()
}

// GenerateLocalProperties returns the contents of local.properties
// pointing the IDE at the SDK the build uses.
func GenerateLocalProperties(sdkDir string) string {
	return strings.Join([]string{
		"# Generated by gngradle.",
		"sdk.dir=" + sdkDir,
		"",
	}, "\n")
}

// zipEntry pairs an archive with the directory it extracts into.
type zipEntry struct {
	src string // absolute path of the archive
	dst string // absolute extraction directory
}

// extractZips clears each destination directory and extracts the
// archives into them. The staged directories are rebuilt from scratch
// on every run. All destinations are checked against the project dir
// before any is cleared.
func extractZips(projectDir string, entries []zipEntry) error {
	dsts := make(map[string]bool)
	for _, ze := range entries {
		dsts[ze.dst] = true
	}
	sorted := make([]string, 0, len(dsts))
	for dst := range dsts {
		sorted = append(sorted, dst)
	}
	sort.Strings(sorted)
	for _, dst := range sorted {
		if !isSubpath(projectDir, dst) {
			return fmt.Errorf("extraction dir %s is not below project dir %s", dst, projectDir)
		}
	}
	for _, dst := range sorted {
		err := os.RemoveAll(dst)
		if err != nil {
			return err
		}
	}
	for _, ze := range entries {
		err := extractZip(ze.src, ze.dst)
		if err != nil {
			return err
		}
	}
	return nil
}

// extractZip extracts every member of the archive at src below dst.
func extractZip(src, dst string) error {
	log.Debugf("extracting %s to %s", src, dst)
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			return fmt.Errorf("%s: archive member escapes extraction dir: %q", src, f.Name)
		}
		target := filepath.Join(dst, filepath.FromSlash(f.Name))
		if f.FileInfo().IsDir() {
			err = os.MkdirAll(target, 0o755)
			if err != nil {
				return err
			}
			continue
		}
		err = os.MkdirAll(filepath.Dir(target), 0o755)
		if err != nil {
			return err
		}
		err = extractZipFile(f, target)
		if err != nil {
			return fmt.Errorf("failed to extract %s from %s: %w", f.Name, src, err)
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	w, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, rc)
	cerr := w.Close()
	if err != nil {
		return err
	}
	return cerr
}
