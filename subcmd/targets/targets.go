// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package targets is the targets subcommand that lists the GN labels
// projects can be generated for.
package targets

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"github.com/xvmoon/proto-quic/gradle"
	"github.com/xvmoon/proto-quic/toolsupport/ninjautil"
)

const usage = `list targets usable with gen

 $ gngradle targets [-C <dir>]

prints the GN label of every target in the output directory that has a
build_config and can be passed to gen via --target.

The output directory defaults to $CHROMIUM_OUTPUT_DIR.
`

// Cmd returns the Command for the `targets` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "targets [-C <dir>]",
		ShortDesc: "list targets usable with gen",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{w: os.Stdout, b: &ninjautil.Runner{}}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	w io.Writer
	b gradle.Builder

	outputDir string
}

func (c *run) init() {
	c.Flags.StringVar(&c.outputDir, "output-directory", os.Getenv("CHROMIUM_OUTPUT_DIR"), "path to the root build directory. can be set by $CHROMIUM_OUTPUT_DIR")
	c.Flags.StringVar(&c.outputDir, "C", os.Getenv("CHROMIUM_OUTPUT_DIR"), "alias for --output-directory")
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
	targets, err := gradle.QueryAllTargets(ctx, c.b, outDir)
	if err != nil {
		return err
	}
	sort.Strings(targets)
	for _, t := range targets {
		fmt.Fprintln(c.w, t)
	}
	return nil
}
