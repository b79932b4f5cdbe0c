// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gen is the gen subcommand that generates an Android Studio
// project from a GN build.
package gen

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"github.com/xvmoon/proto-quic/gradle"
	"github.com/xvmoon/proto-quic/toolsupport/ninjautil"
	"github.com/xvmoon/proto-quic/ui"
)

const usage = `generate an Android Studio project from a GN build.

 $ gngradle gen [-C <dir>] [--target <label>]... [--project-dir <dir>] \
          [--all] [--use-gradle-process-resources]

reads the build_config descriptors of the given targets and everything
they depend on from the build output directory and writes one gradle
project per target.

The output directory defaults to $CHROMIUM_OUTPUT_DIR. In the
--project-dir value, the literal placeholder $CHROMIUM_OUTPUT_DIR is
replaced with the output directory.
`

// outputDirPlaceholder is substituted in the --project-dir value.
const outputDirPlaceholder = "$CHROMIUM_OUTPUT_DIR"

// DefaultTargets are the projects generated when no --target is given.
var DefaultTargets = []string{
	"//android_webview/test:android_webview_apk",
	"//android_webview/test:android_webview_test_apk",
	"//base:base_junit_tests",
	"//chrome/android:chrome_junit_tests",
	"//chrome/android:chrome_public_apk",
	"//chrome/android:chrome_public_test_apk",
	"//chrome/android:chrome_sync_shell_apk",
	"//chrome/android:chrome_sync_shell_test_apk",
	"//content/public/android:content_junit_tests",
	"//content/shell/android:content_shell_apk",
}

// Cmd returns the Command for the `gen` subcommand provided by this package.
func Cmd(defaultTargets []string) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "gen [-C <dir>] [--target <label>]...",
		ShortDesc: "generate an Android Studio project",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{defaultTargets: defaultTargets}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	defaultTargets []string

	outputDir                 string
	projectDir                string
	targets                   targetsFlag
	all                       bool
	useGradleProcessResources bool
	verbose                   verboseFlag
}

func (c *run) init() {
	c.Flags.StringVar(&c.outputDir, "output-directory", os.Getenv("CHROMIUM_OUTPUT_DIR"), "path to the root build directory. can be set by $CHROMIUM_OUTPUT_DIR")
	c.Flags.StringVar(&c.outputDir, "C", os.Getenv("CHROMIUM_OUTPUT_DIR"), "alias for --output-directory")
	c.Flags.Var(&c.targets, "target", "GN target to generate project for. May be repeated.")
	c.Flags.StringVar(&c.projectDir, "project-dir", filepath.Join(outputDirPlaceholder, "gradle"), "root of the output project")
	c.Flags.BoolVar(&c.all, "all", false, "generate all java targets (slows down IDE)")
	c.Flags.BoolVar(&c.useGradleProcessResources, "use-gradle-process-resources", false, "have gradle generate R.java rather than ninja")
	c.Flags.Var(&c.verbose, "v", "verbose level. may be repeated")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer signals.HandleInterrupt(cancel)()

	c.verbose.apply()

	if len(args) != 0 {
		return fmt.Errorf("position arguments not expected: %q: %w", args, flag.ErrHelp)
	}
	if c.outputDir == "" {
		return fmt.Errorf("output directory is not specified: %w", flag.ErrHelp)
	}
	outDir, err := filepath.Abs(c.outputDir)
	if err != nil {
		return err
	}
	projectDir, err := filepath.Abs(projectDirFor(c.projectDir, outDir))
	if err != nil {
		return err
	}
	log.Debugf("gen invocation id: %s", uuid.New())

	targets := []string(c.targets)
	if len(targets) == 0 {
		targets = c.defaultTargets
	}
	started := time.Now()
	result, err := gradle.Generate(ctx, gradle.Options{
		OutDir:                    outDir,
		ProjectDir:                projectDir,
		Targets:                   targets,
		All:                       c.all,
		UseGradleProcessResources: c.useGradleProcessResources,
		Ninja:                     &ninjautil.Runner{},
	})
	if err != nil {
		return err
	}
	log.Debugf("generated %d subprojects in %s", result.ProjectCount, ui.FormatDuration(time.Since(started)))
	return nil
}

// projectDirFor resolves the --project-dir value against the output
// directory.
func projectDirFor(projectDir, outDir string) string {
	return strings.ReplaceAll(projectDir, outputDirPlaceholder, outDir)
}

// targetsFlag collects repeated --target flags.
type targetsFlag []string

func (f *targetsFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *targetsFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

// verboseFlag counts -v occurrences.
type verboseFlag int

func (f *verboseFlag) String() string {
	return strconv.Itoa(int(*f))
}

func (f *verboseFlag) Set(v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	if b {
		*f++
	}
	return nil
}

func (f *verboseFlag) IsBoolFlag() bool {
	return true
}

// apply raises the log level for the given verbosity. Progress stays
// at the default level; -v adds debug logs and a second -v adds caller
// locations.
func (f verboseFlag) apply() {
	switch {
	case f >= 2:
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	case f == 1:
		log.SetLevel(log.DebugLevel)
	}
}
