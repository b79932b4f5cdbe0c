// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"embed"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/xvmoon/proto-quic/buildvars"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates is the parsed set of project file templates.
type Templates struct {
	t *template.Template
}

// LoadTemplates parses the embedded project file templates.
func LoadTemplates() (*Templates, error) {
	t, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Templates{t: t}, nil
}

// projectData is the template data for one project's build.gradle.
type projectData struct {
	TargetName        string
	TemplateType      string
	BuildToolsVersion string
	CompileSdkVersion string
	SourceSetName     string
	DepCompileName    string
	MainClass         string
	Main              *SourceSet
	AndroidTest       *SourceSet
}

// renderProject renders a project's build.gradle with the template
// family selected by the target type: android_* types share the
// android template, java_* types the java template.
func (t *Templates) renderProject(data *projectData) (string, error) {
	name := strings.SplitN(data.TemplateType, "_", 2)[0] + ".gradle.tmpl"
	var sb strings.Builder
	err := t.t.ExecuteTemplate(&sb, name, data)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderRoot returns the root project's build.gradle.
func (t *Templates) RenderRoot() (string, error) {
	var sb strings.Builder
	err := t.t.ExecuteTemplate(&sb, "root.gradle.tmpl", nil)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderManifest returns a minimal AndroidManifest.xml declaring the
// given resource package.
func (t *Templates) RenderManifest(pkg, compileSdkVersion string) (string, error) {
	data := struct {
		Package           string
		CompileSdkVersion string
	}{Package: pkg, CompileSdkVersion: compileSdkVersion}
	var sb strings.Builder
	err := t.t.ExecuteTemplate(&sb, "manifest.xml.tmpl", data)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// junitTestMainClass is the runner main class that marks a java binary
// as a junit test suite.
const junitTestMainClass = "org.chromium.testing.local.JunitTestMain"

// GradleFile renders the build.gradle for an entry. It returns "" for
// entries that do not get a project of their own: prebuilt libraries
// and target types the IDE has no use for.
func (g *Generator) GradleFile(e *Entry) (string, error) {
	config, err := e.BuildConfig()
	if err != nil {
		return "", err
	}
	depsInfo := config.DepsInfo
	data := &projectData{
		SourceSetName:  "main",
		DepCompileName: "compile",
	}
	switch depsInfo.Type {
	case "android_apk":
		data.TemplateType = "android_apk"
	case "java_library":
		switch {
		case depsInfo.IsPrebuilt || depsInfo.GradleTreatAsPrebuilt:
			return "", nil
		case depsInfo.RequiresAndroid:
			data.TemplateType = "android_library"
		default:
			data.TemplateType = "java_library"
		}
	case "java_binary":
		if config.Gradle.MainClass == junitTestMainClass {
			data.TemplateType = "android_junit"
			data.SourceSetName = "test"
			data.DepCompileName = "testCompile"
		} else {
			data.TemplateType = "java_binary"
			data.MainClass = config.Gradle.MainClass
		}
	default:
		return "", nil
	}
	data.TargetName = strings.TrimSuffix(depsInfo.Name, filepath.Ext(depsInfo.Name))
	data.BuildToolsVersion = g.buildVars.Get(buildvars.AndroidSDKBuildToolsVersion)
	data.CompileSdkVersion = g.buildVars.Get(buildvars.AndroidSDKVersion)
	data.Main, err = g.Generate(e)
	if err != nil {
		return "", err
	}
	if e.AndroidTest != nil {
		data.AndroidTest, err = g.Generate(e.AndroidTest)
		if err != nil {
			return "", err
		}
	}
	return g.templates.renderProject(data)
}
