// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"github.com/xvmoon/proto-quic/subcmd/gen"
	"github.com/xvmoon/proto-quic/subcmd/targets"
	"github.com/xvmoon/proto-quic/subcmd/version"
)

// Gngradle generates Android Studio projects from a GN build.

const gngradleVersion = "0.1"

func getApplication() *subcommands.DefaultApplication {
	return &subcommands.DefaultApplication{
		Name:  "gngradle",
		Title: "tool to generate Android Studio projects from a GN build",
		Commands: []*subcommands.Command{
			gen.Cmd(gen.DefaultTargets),
			targets.Cmd(),
			version.Cmd(gngradleVersion),
			subcommands.CmdHelp,
		},
	}
}

func main() {
	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	// Record build information in the debug log.
	buildinfo, ok := debug.ReadBuildInfo()
	if ok {
		log.Debugf("buildinfo: path=%q", buildinfo.Path)
		log.Debugf("main module: %s %s", moduleInfo(&buildinfo.Main), vcsInfo(buildinfo))
	}

	os.Exit(subcommands.Run(getApplication(), nil))
}

func moduleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("path:%s version:%s sum:%s replace:%s", m.Path, m.Version, m.Sum, moduleInfo(m.Replace))
}

func vcsInfo(buildinfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildinfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("vcs[revision=%s time=%s modified=%s]", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
