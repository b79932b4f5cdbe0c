// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/xvmoon/proto-quic/buildvars"
)

// Subdirectories created below each project for staged inputs.
const (
	srcjarsSubdir = "extracted-srcjars"
	jniLibsSubdir = "symlinked-libs"
	armeabiSubdir = "armeabi"
	resSubdir     = "extracted-res"
)

// SourceSet is the per-source-set template data of a project.
// All paths are relative to the project's directory.
type SourceSet struct {
	JavaDirs           []string
	JavaExcludes       []string
	JniLibs            []string
	ResDirs            []string
	AndroidManifest    string
	AndroidProjectDeps []string
	JavaProjectDeps    []string
	Prebuilts          []string
}

// Generator produces template data for projects and stages the
// on-disk pieces they reference: symlinked JNI libraries and
// synthesized manifests.
type Generator struct {
	// ProjectDir is the absolute root of the generated project.
	ProjectDir string
	// SourceRoot is the absolute root of the source checkout.
	SourceRoot string

	path                      *Path
	graph                     *Graph
	buildVars                 buildvars.Vars
	templates                 *Templates
	useGradleProcessResources bool
}

// NewGenerator returns a Generator writing below projectDir.
func NewGenerator(projectDir, sourceRoot string, p *Path, g *Graph, vars buildvars.Vars, t *Templates, useGradleProcessResources bool) *Generator {
	return &Generator{
		ProjectDir:                projectDir,
		SourceRoot:                sourceRoot,
		path:                      p,
		graph:                     g,
		buildVars:                 vars,
		templates:                 t,
		useGradleProcessResources: useGradleProcessResources,
	}
}

// EntryOutputDir returns the absolute directory of an entry's project.
func (g *Generator) EntryOutputDir(e *Entry) string {
	return filepath.Join(g.ProjectDir, filepath.FromSlash(e.GradleSubdir()))
}

// defaultManifestPath returns the checked-in manifest used when a
// project has no manifest of its own.
func (g *Generator) defaultManifestPath() string {
	return filepath.Join(g.SourceRoot, "build", "android", "AndroidManifest.xml")
}

// Srcjars returns the absolute paths of the srcjars bundled into the
// entry's project. When the build keeps processing resources, the
// R.java srcjars generated by javac rules are bundled too.
func (g *Generator) Srcjars(e *Entry) ([]string, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return nil, err
	}
	srcjars := g.path.AbsAll(config.Gradle.BundledSrcjars)
	if !g.useGradleProcessResources {
		srcjars = append(srcjars, g.path.AbsAll(config.Javac.Srcjars)...)
	}
	return srcjars, nil
}

// GeneratedInputs returns every path referenced by the entry's project
// that the build produces. They are built before zip extraction so the
// IDE sees current files.
func (g *Generator) GeneratedInputs(e *Entry) ([]string, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return nil, err
	}
	srcjars, err := g.Srcjars(e)
	if err != nil {
		return nil, err
	}
	javaFiles, err := e.JavaFiles()
	if err != nil {
		return nil, err
	}
	var inputs []string
	inputs = append(inputs, srcjars...)
	inputs = append(inputs, g.path.AbsAll(config.DepsInfo.OwnedResourcesZips)...)
	for _, fname := range javaFiles {
		// Source files reached through ".." live in the source tree,
		// not in the build output.
		if !strings.HasPrefix(fname, "..") {
			inputs = append(inputs, fname)
		}
	}
	inputs = append(inputs, config.Gradle.DependentPrebuiltJars...)
	return inputs, nil
}

func (g *Generator) genJniLibs(e *Entry) ([]string, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return nil, err
	}
	if config.Native == nil {
		return nil, nil
	}
	return createJniLibsDir(g.path.OutDir, g.EntryOutputDir(e), config.Native.Libraries)
}

func (g *Generator) genJavaDirs(e *Entry) (javaDirs, excludes []string, err error) {
	javaFiles, err := e.JavaFiles()
	if err != nil {
		return nil, nil, err
	}
	javaDirs, excludes, err = createJavaSourceDirs(g.path, javaFiles)
	if err != nil {
		return nil, nil, err
	}
	srcjars, err := g.Srcjars(e)
	if err != nil {
		return nil, nil, err
	}
	if len(srcjars) > 0 {
		javaDirs = append(javaDirs, filepath.Join(g.EntryOutputDir(e), srcjarsSubdir))
	}
	return javaDirs, excludes, nil
}

func (g *Generator) genResDirs(e *Entry) ([]string, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return nil, err
	}
	resDirs := make([]string, 0, len(config.DepsInfo.OwnedResourcesDirs)+1)
	resDirs = append(resDirs, config.DepsInfo.OwnedResourcesDirs...)
	if len(config.DepsInfo.OwnedResourcesZips) > 0 {
		resDirs = append(resDirs, filepath.Join(g.EntryOutputDir(e), resSubdir))
	}
	return resDirs, nil
}

// genCustomManifest synthesizes an AndroidManifest.xml for an entry
// that owns resources but declares no manifest. Gradle takes the
// package for R.class generation from the manifest, so one is needed
// whenever gradle processes resources. An entry whose resource package
// cannot be determined falls back to the default manifest.
func (g *Generator) genCustomManifest(e *Entry) (string, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return "", err
	}
	resourcePackages := config.Javac.ResourcePackages
	switch {
	case len(resourcePackages) == 0:
		log.Errorf("target %s includes resources from unknown package, unable to process with gradle", e.GNTarget())
		return g.defaultManifestPath(), nil
	case len(resourcePackages) > 1:
		log.Errorf("target %s includes resources from multiple packages, unable to process with gradle", e.GNTarget())
		return g.defaultManifestPath(), nil
	}
	data, err := g.templates.RenderManifest(resourcePackages[0], g.buildVars.Get(buildvars.AndroidSDKVersion))
	if err != nil {
		return "", err
	}
	outputFile := filepath.Join(g.EntryOutputDir(e), "AndroidManifest.xml")
	err = writeFile(outputFile, data)
	if err != nil {
		return "", err
	}
	return outputFile, nil
}

// Generate returns the template data for one source set of an entry.
func (g *Generator) Generate(e *Entry) (*SourceSet, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return nil, err
	}
	entryDir := g.EntryOutputDir(e)
	javaDirs, excludes, err := g.genJavaDirs(e)
	if err != nil {
		return nil, err
	}
	jniLibs, err := g.genJniLibs(e)
	if err != nil {
		return nil, err
	}
	resDirs, err := g.genResDirs(e)
	if err != nil {
		return nil, err
	}
	ss := &SourceSet{
		JavaDirs:     g.path.MustRelAll(entryDir, javaDirs),
		JavaExcludes: excludes,
		JniLibs:      g.path.MustRelAll(entryDir, jniLibs),
		ResDirs:      g.path.MustRelAll(entryDir, resDirs),
		Prebuilts:    g.path.MustRelAll(entryDir, config.Gradle.DependentPrebuiltJars),
	}
	manifest := config.Gradle.AndroidManifest
	if manifest == "" {
		if len(ss.ResDirs) > 0 {
			manifest, err = g.genCustomManifest(e)
			if err != nil {
				return nil, err
			}
		} else {
			manifest = g.defaultManifestPath()
		}
	}
	ss.AndroidManifest = g.path.MustRel(entryDir, manifest)
	for _, fname := range config.Gradle.DependentAndroidProjects {
		dep, err := g.graph.EntryFromConfigPath(fname)
		if err != nil {
			return nil, err
		}
		ss.AndroidProjectDeps = append(ss.AndroidProjectDeps, dep.ProjectName())
	}
	for _, fname := range config.Gradle.DependentJavaProjects {
		dep, err := g.graph.EntryFromConfigPath(fname)
		if err != nil {
			return nil, err
		}
		ss.JavaProjectDeps = append(ss.JavaProjectDeps, dep.ProjectName())
	}
	return ss, nil
}

// createJniLibsDir stages the given shared libraries under the
// project's jniLibs directory as relative symlinks into the build
// output. The staging directory is rebuilt from scratch on every run.
func createJniLibsDir(outDir, entryOutputDir string, soFiles []string) ([]string, error) {
	if len(soFiles) == 0 {
		return nil, nil
	}
	symlinkDir := filepath.Join(entryOutputDir, jniLibsSubdir)
	err := os.RemoveAll(symlinkDir)
	if err != nil {
		return nil, err
	}
	abiDir := filepath.Join(symlinkDir, armeabiSubdir)
	err = os.MkdirAll(abiDir, 0o755)
	if err != nil {
		return nil, err
	}
	for _, soFile := range soFiles {
		targetPath := filepath.Join(outDir, soFile)
		err = createRelativeSymlink(targetPath, filepath.Join(abiDir, soFile))
		if err != nil {
			return nil, err
		}
	}
	return []string{symlinkDir}, nil
}

func createRelativeSymlink(targetPath, linkPath string) error {
	relPath, err := filepath.Rel(filepath.Dir(linkPath), targetPath)
	if err != nil {
		return err
	}
	log.Debugf("creating symlink %s -> %s", linkPath, relPath)
	return os.Symlink(relPath, linkPath)
}
