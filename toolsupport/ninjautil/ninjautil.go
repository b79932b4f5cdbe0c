// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ninjautil runs ninja for builds and target queries.
package ninjautil

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/charmbracelet/log"
)

// defaultParallelism is passed as -j when the caller sets none. The
// built targets are IO bound stamp and zip steps.
const defaultParallelism = 1000

// Runner invokes the ninja binary as a subprocess.
type Runner struct {
	// Ninja is the binary to run. Empty means "ninja" from $PATH.
	Ninja string
	// Parallelism is passed as -j to build invocations. Zero means
	// the default.
	Parallelism int
}

func (r *Runner) ninja() string {
	if r.Ninja != "" {
		return r.Ninja
	}
	return "ninja"
}

// Build builds the named targets in dir. The build's output goes to
// stdout and stderr unchanged.
func (r *Runner) Build(ctx context.Context, dir string, targets []string) error {
	parallelism := r.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	args := []string{"-C", dir, fmt.Sprintf("-j%d", parallelism)}
	args = append(args, targets...)
	cmd := exec.CommandContext(ctx, r.ninja(), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Debugf("running: %q", cmd.Args)
	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("ninja -C %s exited %d: %w", dir, exitCode(err), err)
	}
	return nil
}

// Targets returns the "target: rule" lines ninja knows about in dir.
func (r *Runner) Targets(ctx context.Context, dir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, r.ninja(), "-C", dir, "-t", "targets")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Debugf("running: %q", cmd.Args)
	err := cmd.Run()
	if err != nil {
		return nil, fmt.Errorf("ninja -t targets exited %d: %w\n%s", exitCode(err), err, stderr.Bytes())
	}
	var lines []string
	s := bufio.NewScanner(&stdout)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	err = s.Err()
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var eerr *exec.ExitError
	if !errors.As(err, &eerr) {
		return 1
	}
	if w, ok := eerr.ProcessState.Sys().(syscall.WaitStatus); ok {
		return w.ExitStatus()
	}
	return 1
}
