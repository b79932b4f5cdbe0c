// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"encoding/json"
	"fmt"
	"os"
)

// BuildConfig is the descriptor the build writes for each target as
// gen/<dir>/<name>.build_config. Unknown fields are ignored so newer
// descriptors keep loading.
type BuildConfig struct {
	DepsInfo DepsInfo    `json:"deps_info"`
	Gradle   GradleInfo  `json:"gradle"`
	Javac    JavacInfo   `json:"javac"`
	Native   *NativeInfo `json:"native,omitempty"`
}

// DepsInfo describes the target itself and its direct dependencies.
type DepsInfo struct {
	Name                  string   `json:"name"`
	Type                  string   `json:"type"`
	DepsConfigs           []string `json:"deps_configs"`
	OwnedResourcesDirs    []string `json:"owned_resources_dirs"`
	OwnedResourcesZips    []string `json:"owned_resources_zips"`
	IsPrebuilt            bool     `json:"is_prebuilt"`
	GradleTreatAsPrebuilt bool     `json:"gradle_treat_as_prebuilt"`
	RequiresAndroid       bool     `json:"requires_android"`
}

// GradleInfo is the descriptor section written for IDE consumption.
type GradleInfo struct {
	AndroidManifest          string   `json:"android_manifest"`
	ApkUnderTest             string   `json:"apk_under_test"`
	BundledSrcjars           []string `json:"bundled_srcjars"`
	JavaSourcesFile          string   `json:"java_sources_file"`
	MainClass                string   `json:"main_class"`
	DependentAndroidProjects []string `json:"dependent_android_projects"`
	DependentJavaProjects    []string `json:"dependent_java_projects"`
	DependentPrebuiltJars    []string `json:"dependent_prebuilt_jars"`
}

// JavacInfo is the descriptor section describing the java compile.
type JavacInfo struct {
	Srcjars          []string `json:"srcjars"`
	ResourcePackages []string `json:"resource_packages"`
}

// NativeInfo lists the shared libraries packaged with an apk.
type NativeInfo struct {
	Libraries []string `json:"libraries"`
}

// MissingBuildConfigError indicates a target's build_config file does
// not exist, usually because the target was never built.
type MissingBuildConfigError struct {
	Target string
	Path   string
}

func (e MissingBuildConfigError) Error() string {
	return fmt.Sprintf("no build_config for %s: %s (run the build for the target first?)", e.Target, e.Path)
}

// MalformedTargetError indicates a GN label or build_config path that
// does not have the expected shape.
type MalformedTargetError struct {
	Value  string
	Reason string
}

func (e MalformedTargetError) Error() string {
	return fmt.Sprintf("malformed target %q: %s", e.Value, e.Reason)
}

// loadBuildConfig reads and parses the build_config at path for target.
func loadBuildConfig(target, path string) (*BuildConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, MissingBuildConfigError{Target: target, Path: path}
		}
		return nil, err
	}
	config := &BuildConfig{}
	err = json.Unmarshal(b, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return config, nil
}
