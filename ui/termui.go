// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"os"
)

// TermUI is a terminal-based UI. Messages keep their colors.
type TermUI struct{}

// Infof reports progress to stdout.
func (TermUI) Infof(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
	fmt.Fprintln(os.Stdout)
}

// Warningf reports a warning to stderr.
func (TermUI) Warningf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, SGR(Yellow, fmt.Sprintf(format, args...)))
}

// Errorf reports an error to stderr.
func (TermUI) Errorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, SGR(Red, fmt.Sprintf(format, args...)))
}
