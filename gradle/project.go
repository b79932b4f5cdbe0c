// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xvmoon/proto-quic/buildvars"
	"github.com/xvmoon/proto-quic/ui"
)

// Builder runs the underlying ninja build.
type Builder interface {
	// Build builds the named targets in the output directory.
	Build(ctx context.Context, outDir string, targets []string) error
	// Targets returns the "target: rule" lines known to the build.
	Targets(ctx context.Context, outDir string) ([]string, error)
}

// Options configures one generation run.
type Options struct {
	// OutDir is the absolute path of the build output directory.
	OutDir string
	// ProjectDir is the absolute path of the project to generate.
	ProjectDir string
	// Targets are the root GN labels to generate projects for.
	// Ignored when All is set.
	Targets []string
	// All discovers every apk target in the build and uses those as
	// roots instead of Targets.
	All bool
	// UseGradleProcessResources lets gradle compile resources itself
	// instead of bundling the R.java srcjars the build generates.
	UseGradleProcessResources bool
	// Ninja runs the build.
	Ninja Builder
}

// Result reports what a generation run produced.
type Result struct {
	ProjectDir   string
	ProjectCount int
}

// DetectSourceRoot walks up from the output directory to the checkout
// root, marked by GN's .gn file.
func DetectSourceRoot(outDir string) (string, error) {
	dir := outDir
	for {
		_, err := os.Stat(filepath.Join(dir, ".gn"))
		if err == nil {
			return dir, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("failed to find .gn above %s", outDir)
		}
		dir = parent
	}
}

// RewriteTestTargets maps test suite labels to the targets that carry
// their build_config: a "_test_apk" suite is backed by its "__apk"
// target and a "_junit_tests" suite by its "__java_binary" target.
func RewriteTestTargets(targets []string) []string {
	rewritten := make([]string, 0, len(targets))
	for _, t := range targets {
		switch {
		case strings.HasSuffix(t, "_test_apk"):
			t += "__apk"
		case strings.HasSuffix(t, "_junit_tests"):
			t += "__java_binary"
		}
		rewritten = append(rewritten, t)
	}
	return rewritten
}

// QueryAllTargets returns the GN label of every target that has a
// build_config, derived from the build's target list. Querying ninja
// is much faster than gn desc.
func QueryAllTargets(ctx context.Context, b Builder, outDir string) ([]string, error) {
	lines, err := b.Targets(ctx, outDir)
	if err != nil {
		return nil, err
	}
	const suffix = "__build_config"
	var targets []string
	for _, line := range lines {
		name := line
		if i := strings.LastIndex(line, ":"); i >= 0 {
			name = line[:i]
		}
		// Require a ':' to skip root aliases.
		if strings.Contains(name, ":") && strings.HasSuffix(name, suffix) {
			targets = append(targets, "//"+strings.TrimSuffix(name, suffix))
		}
	}
	return targets, nil
}

// Generate runs the whole pipeline: it builds the build_config files
// for the root targets, expands their dependency graph, folds test
// apks into the apks they instrument, writes a gradle project per
// entry plus the top-level project files, builds the generated inputs
// the projects reference and extracts the bundled srcjars and
// resource zips.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.Ninja == nil {
		return nil, errors.New("ninja builder is not configured")
	}
	p, err := NewPath(opts.OutDir)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(opts.ProjectDir) {
		return nil, fmt.Errorf("project dir must be absolute path: %q", opts.ProjectDir)
	}
	sourceRoot, err := DetectSourceRoot(p.OutDir)
	if err != nil {
		return nil, err
	}
	vars, err := buildvars.Load(filepath.Join(p.OutDir, "build_vars.txt"))
	if err != nil {
		return nil, err
	}
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	graph := NewGraph(p)
	gen := NewGenerator(opts.ProjectDir, sourceRoot, p, graph, vars, templates, opts.UseGradleProcessResources)

	ui.Default.Infof("Creating project at: %s", gen.ProjectDir)

	var targets []string
	if opts.All {
		// Refresh the ninja graph first. Running the build.ninja
		// target is much faster than gn gen when nothing changed.
		err = opts.Ninja.Build(ctx, p.OutDir, []string{"build.ninja"})
		if err != nil {
			return nil, err
		}
		targets, err = QueryAllTargets(ctx, opts.Ninja, p.OutDir)
		if err != nil {
			return nil, err
		}
	} else {
		targets = RewriteTestTargets(opts.Targets)
	}
	mainEntries := make([]*Entry, 0, len(targets))
	for _, t := range targets {
		e, err := graph.Entry(t)
		if err != nil {
			return nil, err
		}
		mainEntries = append(mainEntries, e)
	}

	ui.Default.Infof("Building .build_config files...")
	buildConfigTargets := make([]string, 0, len(mainEntries))
	for _, e := range mainEntries {
		buildConfigTargets = append(buildConfigTargets, e.NinjaBuildConfigTarget())
	}
	err = opts.Ninja.Build(ctx, p.OutDir, buildConfigTargets)
	if err != nil {
		return nil, err
	}

	if opts.All {
		// The build has far more libraries than any apk uses. Restrict
		// the roots to the apks and let the graph walk pull in the
		// libraries they actually depend on.
		var apks []*Entry
		for _, e := range mainEntries {
			t, err := e.Type()
			if err != nil {
				return nil, err
			}
			if t == "android_apk" {
				apks = append(apks, e)
			}
		}
		mainEntries = apks
	}

	allEntries, err := graph.Expand(mainEntries)
	if err != nil {
		return nil, err
	}
	ui.Default.Infof("Found %d dependent build_config targets.", len(allEntries))
	entries, err := CombineTestEntries(allEntries)
	if err != nil {
		return nil, err
	}
	ui.Default.Infof("Creating %d projects for targets.", len(entries))

	ui.Default.Infof("Writing .gradle files...")
	var projectEntries []*Entry
	var zipTuples []zipEntry
	var generatedInputs []string
	for _, e := range entries {
		t, err := e.Type()
		if err != nil {
			return nil, err
		}
		switch t {
		case "android_apk", "java_library", "java_binary":
		default:
			continue
		}
		data, err := gen.GradleFile(e)
		if err != nil {
			return nil, err
		}
		if data == "" {
			continue
		}
		projectEntries = append(projectEntries, e)
		// Everything the project references that lives in the output
		// directory has to be built before the IDE can use it.
		inputs, err := gen.GeneratedInputs(e)
		if err != nil {
			return nil, err
		}
		generatedInputs = append(generatedInputs, inputs...)
		srcjars, err := gen.Srcjars(e)
		if err != nil {
			return nil, err
		}
		entryDir := gen.EntryOutputDir(e)
		for _, s := range srcjars {
			zipTuples = append(zipTuples, zipEntry{src: s, dst: filepath.Join(entryDir, srcjarsSubdir)})
		}
		resZips, err := e.ResZips()
		if err != nil {
			return nil, err
		}
		for _, z := range p.AbsAll(resZips) {
			zipTuples = append(zipTuples, zipEntry{src: z, dst: filepath.Join(entryDir, resSubdir)})
		}
		err = writeFile(filepath.Join(entryDir, "build.gradle"), data)
		if err != nil {
			return nil, err
		}
	}

	rootGradle, err := templates.RenderRoot()
	if err != nil {
		return nil, err
	}
	err = writeFile(filepath.Join(gen.ProjectDir, "build.gradle"), rootGradle)
	if err != nil {
		return nil, err
	}
	rootName := filepath.Base(filepath.Dir(sourceRoot))
	err = writeFile(filepath.Join(gen.ProjectDir, "settings.gradle"), GenerateSettingsGradle(rootName, projectEntries))
	if err != nil {
		return nil, err
	}
	sdkPath := p.Abs(vars.Get(buildvars.AndroidSDKRoot))
	err = writeFile(filepath.Join(gen.ProjectDir, "local.properties"), GenerateLocalProperties(sdkPath))
	if err != nil {
		return nil, err
	}

	if len(generatedInputs) > 0 {
		ui.Default.Infof("Building generated source files...")
		seen := make(map[string]bool)
		var buildTargets []string
		for _, in := range generatedInputs {
			t := p.ToOut(in)
			if seen[t] {
				continue
			}
			seen[t] = true
			buildTargets = append(buildTargets, t)
		}
		err = opts.Ninja.Build(ctx, p.OutDir, buildTargets)
		if err != nil {
			return nil, err
		}
	}
	if len(zipTuples) > 0 {
		err = extractZips(gen.ProjectDir, zipTuples)
		if err != nil {
			return nil, err
		}
	}

	ui.Default.Infof("Project created! (%d subprojects)", len(projectEntries))
	ui.Default.Infof("Generated projects work with Android Studio 2.2")
	return &Result{ProjectDir: gen.ProjectDir, ProjectCount: len(projectEntries)}, nil
}
