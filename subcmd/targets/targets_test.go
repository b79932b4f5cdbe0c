// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package targets

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeBuilder struct {
	lines []string
}

func (b *fakeBuilder) Build(ctx context.Context, outDir string, targets []string) error {
	return nil
}

func (b *fakeBuilder) Targets(ctx context.Context, outDir string) ([]string, error) {
	return b.lines, nil
}

func TestTargets(t *testing.T) {
	b := &fakeBuilder{
		lines: []string{
			"gen/content/shell/android/content_shell_apk.build_config: write_build_config",
			"content/shell/android:content_shell_apk__build_config: phony",
			"base:base_java__build_config: phony",
			"base:base_java: phony",
			"all: phony",
		},
	}
	var buf bytes.Buffer
	c := &run{w: &buf, b: b}
	c.init()
	c.outputDir = t.TempDir()
	err := c.run(context.Background(), nil)
	if err != nil {
		t.Fatalf("run %v", err)
	}
	want := `//base:base_java
//content/shell/android:content_shell_apk
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("targets: diff -want +got:\n%s", diff)
	}
}

func TestTargets_noOutputDir(t *testing.T) {
	t.Setenv("CHROMIUM_OUTPUT_DIR", "")
	var buf bytes.Buffer
	c := &run{w: &buf, b: &fakeBuilder{}}
	c.init()
	err := c.run(context.Background(), nil)
	if err == nil {
		t.Errorf("run no error; want output directory error")
	}
}
