// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gradle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeBuilder struct {
	buildCalls  [][]string
	targetLines []string
}

func (b *fakeBuilder) Build(ctx context.Context, outDir string, targets []string) error {
	b.buildCalls = append(b.buildCalls, targets)
	return nil
}

func (b *fakeBuilder) Targets(ctx context.Context, outDir string) ([]string, error) {
	return b.targetLines, nil
}

// newTestCheckout lays out a source checkout with a .gn marker, an
// output directory with build_vars.txt, and returns both.
func newTestCheckout(t *testing.T) (root, outDir string) {
	t.Helper()
	root = t.TempDir()
	outDir = filepath.Join(root, "out", "Debug")
	err := os.MkdirAll(outDir, 0o755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(root, ".gn"), nil, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(outDir, "build_vars.txt"), []byte(`android_sdk_root=../../third_party/android_tools/sdk
android_sdk_version=23
android_sdk_build_tools_version=23.0.1
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return root, outDir
}

func TestDetectSourceRoot(t *testing.T) {
	root, outDir := newTestCheckout(t)
	got, err := DetectSourceRoot(outDir)
	if err != nil {
		t.Fatalf("DetectSourceRoot=_, %v; want nil err", err)
	}
	if got != root {
		t.Errorf("DetectSourceRoot=%q; want %q", got, root)
	}
}

func TestDetectSourceRoot_noMarker(t *testing.T) {
	_, err := DetectSourceRoot(t.TempDir())
	if err == nil {
		t.Errorf("DetectSourceRoot no error; want .gn not found error")
	}
}

func TestRewriteTestTargets(t *testing.T) {
	got := RewriteTestTargets([]string{
		"//chrome/android:chrome_public_apk",
		"//chrome/android:chrome_public_test_apk",
		"//base:base_junit_tests",
	})
	want := []string{
		"//chrome/android:chrome_public_apk",
		"//chrome/android:chrome_public_test_apk__apk",
		"//base:base_junit_tests__java_binary",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RewriteTestTargets: diff -want +got:\n%s", diff)
	}
}

func TestQueryAllTargets(t *testing.T) {
	b := &fakeBuilder{
		targetLines: []string{
			"gen/base/base_java.build_config: write_build_config",
			"base:base_java__build_config: phony",
			"base:base_java: phony",
			"all__build_config: phony",
			"chrome/android:chrome_public_apk__build_config: phony",
		},
	}
	got, err := QueryAllTargets(context.Background(), b, filepath.FromSlash("/out/Debug"))
	if err != nil {
		t.Fatalf("QueryAllTargets=_, %v; want nil err", err)
	}
	want := []string{
		"//base:base_java",
		"//chrome/android:chrome_public_apk",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("QueryAllTargets: diff -want +got:\n%s", diff)
	}
}

func TestGenerate(t *testing.T) {
	root, outDir := newTestCheckout(t)
	writeBuildConfig(t, outDir, "chrome/android/chrome_public_apk", `{
  "deps_info": {
    "name": "chrome_public_apk.apk",
    "type": "android_apk",
    "deps_configs": ["gen/base/base_java.build_config"]
  },
  "gradle": {
    "android_manifest": "../../chrome/android/java/AndroidManifest.xml",
    "bundled_srcjars": ["gen/chrome/jni_java.srcjar"],
    "dependent_android_projects": ["gen/base/base_java.build_config"]
  }
}`)
	writeBuildConfig(t, outDir, "base/base_java", `{
  "deps_info": {
    "name": "base_java.jar",
    "type": "java_library",
    "requires_android": true,
    "deps_configs": ["gen/third_party/guava/guava_java.build_config"],
    "owned_resources_zips": ["resource_zips/base/base_java.zip"]
  },
  "javac": {"resource_packages": ["org.chromium.base"]}
}`)
	writeBuildConfig(t, outDir, "third_party/guava/guava_java", `{
  "deps_info": {"name": "guava_java.jar", "type": "java_library", "is_prebuilt": true}
}`)
	writeZip(t, filepath.Join(outDir, "gen", "chrome", "jni_java.srcjar"), map[string]string{
		"org/chromium/chrome/natives/GEN_JNI.java": "package org.chromium.chrome.natives;",
	})
	writeZip(t, filepath.Join(outDir, "resource_zips", "base", "base_java.zip"), map[string]string{
		"values/strings.xml": "<resources/>",
	})

	b := &fakeBuilder{}
	projectDir := filepath.Join(outDir, "gradle")
	result, err := Generate(context.Background(), Options{
		OutDir:     outDir,
		ProjectDir: projectDir,
		Targets:    []string{"//chrome/android:chrome_public_apk"},
		Ninja:      b,
	})
	if err != nil {
		t.Fatalf("Generate=_, %v; want nil err", err)
	}
	if result.ProjectCount != 2 {
		t.Errorf("result.ProjectCount=%d; want 2", result.ProjectCount)
	}
	if result.ProjectDir != projectDir {
		t.Errorf("result.ProjectDir=%q; want %q", result.ProjectDir, projectDir)
	}

	wantBuildCalls := [][]string{
		{"chrome/android:chrome_public_apk__build_config"},
		{filepath.Join("resource_zips", "base", "base_java.zip"), filepath.Join("gen", "chrome", "jni_java.srcjar")},
	}
	if diff := cmp.Diff(wantBuildCalls, b.buildCalls); diff != "" {
		t.Errorf("build calls: diff -want +got:\n%s", diff)
	}

	apkGradle := readFileString(t, filepath.Join(projectDir, "chrome", "android", "chrome_public_apk", "build.gradle"))
	for _, s := range []string{
		`apply plugin: "com.android.application"`,
		`compile project(":base>base_java")`,
	} {
		if !strings.Contains(apkGradle, s) {
			t.Errorf("apk build.gradle does not contain %q:\n%s", s, apkGradle)
		}
	}
	libGradle := readFileString(t, filepath.Join(projectDir, "base", "base_java", "build.gradle"))
	if !strings.Contains(libGradle, `apply plugin: "com.android.library"`) {
		t.Errorf("library build.gradle does not contain library plugin:\n%s", libGradle)
	}
	rootGradle := readFileString(t, filepath.Join(projectDir, "build.gradle"))
	if !strings.Contains(rootGradle, "com.android.tools.build:gradle:2.2.3") {
		t.Errorf("root build.gradle does not pin the android plugin:\n%s", rootGradle)
	}
	settings := readFileString(t, filepath.Join(projectDir, "settings.gradle"))
	for _, s := range []string{
		`include ":base>base_java"`,
		`include ":chrome>android>chrome_public_apk"`,
	} {
		if !strings.Contains(settings, s) {
			t.Errorf("settings.gradle does not contain %q:\n%s", s, settings)
		}
	}
	// The prebuilt dependency gets no module of its own.
	if strings.Contains(settings, "guava") {
		t.Errorf("settings.gradle lists the prebuilt:\n%s", settings)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "third_party", "guava", "guava_java", "build.gradle")); err == nil {
		t.Errorf("prebuilt got a build.gradle")
	}
	localProperties := readFileString(t, filepath.Join(projectDir, "local.properties"))
	wantSDK := "sdk.dir=" + filepath.Join(root, "third_party", "android_tools", "sdk")
	if !strings.Contains(localProperties, wantSDK) {
		t.Errorf("local.properties does not contain %q:\n%s", wantSDK, localProperties)
	}

	// The bundled srcjar and the resource zip are staged per project.
	if _, err := os.Stat(filepath.Join(projectDir, "chrome", "android", "chrome_public_apk", "extracted-srcjars", "org", "chromium", "chrome", "natives", "GEN_JNI.java")); err != nil {
		t.Errorf("stat extracted srcjar member: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "base", "base_java", "extracted-res", "values", "strings.xml")); err != nil {
		t.Errorf("stat extracted res member: %v", err)
	}
	// base_java owns resources without a manifest, so one is
	// synthesized next to its build.gradle.
	manifest := readFileString(t, filepath.Join(projectDir, "base", "base_java", "AndroidManifest.xml"))
	if !strings.Contains(manifest, `package="org.chromium.base"`) {
		t.Errorf("synthesized manifest does not declare the package:\n%s", manifest)
	}
}

func TestGenerate_combinesTestApk(t *testing.T) {
	_, outDir := newTestCheckout(t)
	writeBuildConfig(t, outDir, "chrome/android/chrome_public_apk", `{
  "deps_info": {"name": "chrome_public_apk.apk", "type": "android_apk"},
  "gradle": {"android_manifest": "../../chrome/android/java/AndroidManifest.xml"}
}`)
	writeBuildConfig(t, outDir, "chrome/android/chrome_public_test_apk__apk", `{
  "deps_info": {"name": "chrome_public_test_apk.apk", "type": "android_apk"},
  "gradle": {
    "android_manifest": "../../chrome/android/javatests/AndroidManifest.xml",
    "apk_under_test": "chrome_public_apk.apk"
  }
}`)

	b := &fakeBuilder{}
	projectDir := filepath.Join(outDir, "gradle")
	result, err := Generate(context.Background(), Options{
		OutDir:     outDir,
		ProjectDir: projectDir,
		Targets:    []string{"//chrome/android:chrome_public_apk", "//chrome/android:chrome_public_test_apk"},
		Ninja:      b,
	})
	if err != nil {
		t.Fatalf("Generate=_, %v; want nil err", err)
	}
	if result.ProjectCount != 1 {
		t.Errorf("result.ProjectCount=%d; want 1", result.ProjectCount)
	}
	if len(b.buildCalls) == 0 {
		t.Fatal("no build calls recorded")
	}
	wantFirst := []string{
		"chrome/android:chrome_public_apk__build_config",
		"chrome/android:chrome_public_test_apk__apk__build_config",
	}
	if diff := cmp.Diff(wantFirst, b.buildCalls[0]); diff != "" {
		t.Errorf("build_config build call: diff -want +got:\n%s", diff)
	}

	apkGradle := readFileString(t, filepath.Join(projectDir, "chrome", "android", "chrome_public_apk", "build.gradle"))
	if !strings.Contains(apkGradle, "androidTest {") {
		t.Errorf("apk build.gradle has no androidTest source set:\n%s", apkGradle)
	}
	settings := readFileString(t, filepath.Join(projectDir, "settings.gradle"))
	if strings.Contains(settings, "chrome_public_test_apk") {
		t.Errorf("settings.gradle lists the folded test apk:\n%s", settings)
	}
}

func TestGenerate_all(t *testing.T) {
	_, outDir := newTestCheckout(t)
	writeBuildConfig(t, outDir, "chrome/android/chrome_public_apk", `{
  "deps_info": {
    "name": "chrome_public_apk.apk",
    "type": "android_apk",
    "deps_configs": ["gen/base/base_java.build_config"]
  },
  "gradle": {"android_manifest": "../../chrome/android/java/AndroidManifest.xml"}
}`)
	writeBuildConfig(t, outDir, "base/base_java", `{
  "deps_info": {"name": "base_java.jar", "type": "java_library", "requires_android": true}
}`)

	b := &fakeBuilder{
		targetLines: []string{
			"chrome/android:chrome_public_apk__build_config: phony",
			"base:base_java__build_config: phony",
		},
	}
	projectDir := filepath.Join(outDir, "gradle")
	result, err := Generate(context.Background(), Options{
		OutDir:     outDir,
		ProjectDir: projectDir,
		All:        true,
		Ninja:      b,
	})
	if err != nil {
		t.Fatalf("Generate=_, %v; want nil err", err)
	}
	// Both targets get build_configs, but only the apk is used as a
	// root. base_java still appears through the apk's dependencies.
	if result.ProjectCount != 2 {
		t.Errorf("result.ProjectCount=%d; want 2", result.ProjectCount)
	}
	if len(b.buildCalls) < 2 {
		t.Fatalf("build calls=%d; want at least 2", len(b.buildCalls))
	}
	if diff := cmp.Diff([]string{"build.ninja"}, b.buildCalls[0]); diff != "" {
		t.Errorf("graph refresh call: diff -want +got:\n%s", diff)
	}
	wantConfigs := []string{
		"chrome/android:chrome_public_apk__build_config",
		"base:base_java__build_config",
	}
	if diff := cmp.Diff(wantConfigs, b.buildCalls[1]); diff != "" {
		t.Errorf("build_config build call: diff -want +got:\n%s", diff)
	}
}

func TestGenerate_missingBuildConfig(t *testing.T) {
	_, outDir := newTestCheckout(t)
	b := &fakeBuilder{}
	_, err := Generate(context.Background(), Options{
		OutDir:     outDir,
		ProjectDir: filepath.Join(outDir, "gradle"),
		Targets:    []string{"//chrome/android:chrome_public_apk"},
		Ninja:      b,
	})
	if err == nil {
		t.Fatal("Generate no error; want missing build_config error")
	}
	if !strings.Contains(err.Error(), "no build_config") {
		t.Errorf("Generate=%v; want missing build_config error", err)
	}
}

func readFileString(t *testing.T, fname string) string {
	t.Helper()
	b, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
